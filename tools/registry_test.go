package tools_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/callbacks"
	"github.com/effective-security/testudo/tools"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoInput struct {
	Text string `json:"Text"`
}

type echoTool struct {
	name string
}

func (t *echoTool) Name() string        { return t.name }
func (t *echoTool) Description() string { return "echoes " + t.name }
func (t *echoTool) Parameters() any {
	return map[string]any{"type": "object"}
}

func (t *echoTool) Call(_ context.Context, input string) (string, error) {
	var in echoInput
	if err := json.Unmarshal([]byte(input), &in); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	return t.name + ": " + in.Text, nil
}

type mcpEchoTool struct {
	echoTool
}

func (t *mcpEchoTool) RegisterMCP(registrator tools.McpServerRegistrator, call tools.CallFunc) error {
	return registrator.RegisterTool(t.name, t.Description(), func(ctx context.Context, req *echoInput) (*mcp.ToolResponse, error) {
		out, err := call(ctx, t.name, `{"Text":"`+req.Text+`"}`)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
	})
}

func (t *mcpEchoTool) RunMCP(_ context.Context, req *echoInput) (*mcp.ToolResponse, error) {
	return mcp.NewToolResponse(mcp.NewTextContent(req.Text)), nil
}

type registrator struct {
	names    []string
	handlers []any
	err      error
}

func (r *registrator) RegisterTool(name, description string, handler any) error {
	if r.err != nil {
		return r.err
	}
	r.names = append(r.names, name)
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestNewRegistry(t *testing.T) {
	r, err := tools.NewRegistry([]tools.ITool{
		&echoTool{name: "first"},
		&mcpEchoTool{echoTool{name: "Second"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "Second"}, r.Names())
	assert.Len(t, r.Tools(), 2)

	assert.NotNil(t, r.Get("FIRST"))
	assert.NotNil(t, r.Get("second"))
	assert.Nil(t, r.Get("third"))

	d := r.Descriptions()
	require.Len(t, d.Tools, 2)
	assert.Equal(t, "first", d.Tools[0].Name)
	assert.Equal(t, "echoes first", d.Tools[0].Description)
	assert.NotNil(t, d.Tools[0].Parameters)

	// returned slices are copies
	names := r.Names()
	names[0] = "changed"
	assert.Equal(t, "first", r.Names()[0])

	_, err = tools.NewRegistry([]tools.ITool{&echoTool{name: "dup"}, &echoTool{name: "DUP"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrDuplicateTool))
	assert.Contains(t, err.Error(), "DUP")

	_, err = tools.NewRegistry([]tools.ITool{&echoTool{}})
	assert.EqualError(t, err, "tool name must not be empty")

	_, err = tools.NewRegistry([]tools.ITool{nil})
	assert.EqualError(t, err, "tool name must not be empty")
}

func TestRegistry_Call(t *testing.T) {
	var buf bytes.Buffer
	r, err := tools.NewRegistry(
		[]tools.ITool{&echoTool{name: "echo"}},
		tools.WithCallback(callbacks.NewPrinter(&buf, callbacks.ModeVerbose)),
	)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := r.Call(ctx, "Echo", `{"Text":"hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", out)
	assert.Equal(t, "Tool Start: echo\nInput: {\"Text\":\"hello\"}\nTool End: echo [found]\nOutput: echo: hello\n", buf.String())

	buf.Reset()
	_, err = r.Call(ctx, "echo", `not json`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
	assert.Contains(t, err.Error(), "failed to call tool echo")
	assert.Contains(t, buf.String(), "Tool Error: echo: ")

	buf.Reset()
	_, err = r.Call(ctx, "missing", `{}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrToolNotFound))
	assert.Equal(t, "Tool Not Found: missing\n", buf.String())
}

func TestRegistry_CallConcurrent(t *testing.T) {
	r, err := tools.NewRegistry([]tools.ITool{&echoTool{name: "echo"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Call(context.Background(), "echo", `{"Text":"x"}`)
			assert.NoError(t, err)
			assert.Equal(t, "echo: x", out)
		}()
	}
	wg.Wait()
}

func TestRegistry_RegisterMCP(t *testing.T) {
	r, err := tools.NewRegistry([]tools.ITool{
		&echoTool{name: "plain"},
		&mcpEchoTool{echoTool{name: "mcp1"}},
		&mcpEchoTool{echoTool{name: "mcp2"}},
	})
	require.NoError(t, err)

	reg := &registrator{}
	require.NoError(t, r.RegisterMCP(reg))
	assert.Equal(t, []string{"mcp1", "mcp2"}, reg.names)

	err = r.RegisterMCP(&registrator{err: errors.New("rejected")})
	assert.EqualError(t, err, "failed to register tool mcp1: rejected")
}

func TestRegistry_RegisterMCP_FiresCallbacks(t *testing.T) {
	var buf bytes.Buffer
	r, err := tools.NewRegistry(
		[]tools.ITool{&mcpEchoTool{echoTool{name: "mcp1"}}},
		tools.WithCallback(callbacks.NewPrinter(&buf, callbacks.ModeDefault)),
	)
	require.NoError(t, err)

	reg := &registrator{}
	require.NoError(t, r.RegisterMCP(reg))
	require.Len(t, reg.handlers, 1)
	handler, ok := reg.handlers[0].(func(context.Context, *echoInput) (*mcp.ToolResponse, error))
	require.True(t, ok)

	resp, err := handler(context.Background(), &echoInput{Text: "hi"})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	assert.Equal(t, "mcp1: hi", resp.Content[0].TextContent.Text)
	assert.Equal(t, "Tool Start: mcp1\nInput: {\"Text\":\"hi\"}\nTool End: mcp1 [found]\n", buf.String())
}

type failingTool struct {
	echoTool
}

func (t *failingTool) Failure() string {
	return "nothing found"
}

func TestDescribe_Failure(t *testing.T) {
	plain := &echoTool{name: "a"}
	failing := &failingTool{echoTool{name: "b"}}

	d := tools.Describe(plain, failing)
	require.Len(t, d.Tools, 2)
	assert.Empty(t, d.Tools[0].Failure)
	assert.Equal(t, "nothing found", d.Tools[1].Failure)

	assert.False(t, tools.IsFailure(plain, "nothing found"))
	assert.True(t, tools.IsFailure(failing, "nothing found"))
	assert.False(t, tools.IsFailure(failing, "b: found"))
}

func TestDescriptions_Plain(t *testing.T) {
	d := tools.Describe(&echoTool{name: "a"})
	p := d.Plain()
	require.Len(t, p.Tools, 1)
	assert.Equal(t, map[string]any{"type": "object"}, p.Tools[0].Parameters)
	assert.Equal(t, "a", p.Tools[0].Name)
}
