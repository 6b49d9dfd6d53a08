package testudo

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/catalog"
	"github.com/effective-security/testudo/encoding"
	"github.com/effective-security/testudo/format"
	"github.com/effective-security/testudo/pkg/llmutils"
	"github.com/effective-security/testudo/pkg/metricskey"
	"github.com/effective-security/testudo/pkg/schema"
	"github.com/effective-security/testudo/pkg/umdapi"
	"github.com/effective-security/testudo/tools"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
	mcp "github.com/metoro-io/mcp-golang"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "testudo")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Result is the text produced by a tool.
type Result struct {
	Text string
	// Count is the number of formatted records, zero when Text is the failure message
	Count int
}

// Found returns true when Text holds formatted records
func (r *Result) Found() bool {
	return r != nil && r.Count > 0
}

// renderFunc decodes a response body and returns formatted text with the number of records
type renderFunc func(body []byte) (string, int, error)

func render[T any](fn func(*T) string) renderFunc {
	return func(body []byte) (string, int, error) {
		list, err := catalog.DecodeList[T](body)
		if err != nil {
			return "", 0, err
		}
		return format.All(list, fn), len(list), nil
	}
}

// Tool is a catalog tool with input I.
type Tool[I any] struct {
	name        string
	description string
	failure     string
	funcParams  any

	fetcher umdapi.Fetcher
	path    func(*I) string
	render  renderFunc
}

// ensure Tool implements the tools interfaces
var (
	_ tools.Tool[CourseRequest, Result] = (*Tool[CourseRequest])(nil)
	_ tools.MCPTool[CourseRequest]      = (*Tool[CourseRequest])(nil)
	_ tools.Exampler                    = (*Tool[CourseRequest])(nil)
	_ tools.Failer                      = (*Tool[CourseRequest])(nil)
)

func newTool[I any](fetcher umdapi.Fetcher, name, description, failure string, path func(*I) string, r renderFunc) *Tool[I] {
	return &Tool[I]{
		name:        name,
		description: description,
		failure:     failure,
		funcParams:  schema.MustNew(reflect.TypeOf(new(I))).Parameters,
		fetcher:     fetcher,
		path:        path,
		render:      r,
	}
}

func (t *Tool[I]) Name() string {
	return t.name
}

func (t *Tool[I]) Description() string {
	return t.description
}

func (t *Tool[I]) Parameters() any {
	return t.funcParams
}

// Failure returns the fixed message returned when no data is available
func (t *Tool[I]) Failure() string {
	return t.failure
}

// Example returns a sample input
func (t *Tool[I]) Example() any {
	return encoding.Example(new(I))
}

// Run fetches and formats the records for the request.
// An error is returned only for invalid input.
func (t *Tool[I]) Run(ctx context.Context, req *I) (*Result, error) {
	if req == nil {
		req = new(I)
	}
	if err := validate.StructCtx(ctx, req); err != nil {
		return nil, errors.Wrapf(tools.ErrInvalidInput, "%s", err.Error())
	}

	started := time.Now()
	res := t.fetcher.Fetch(ctx, t.path(req))
	out := t.result(ctx, res)

	if out.Found() {
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, t.name)
	} else {
		metricskey.StatsToolCallsAbsent.IncrCounter(1, t.name)
	}
	metricskey.PerfToolCall.MeasureSince(started, t.name)

	return out, nil
}

func (t *Tool[I]) result(ctx context.Context, res *umdapi.Result) *Result {
	if res.Absent() {
		outcome := "none"
		if res != nil {
			outcome = res.Outcome.String()
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"tool", t.name,
			"status", "absent",
			"outcome", outcome,
		)
		return &Result{Text: t.failure}
	}

	text, count, err := t.render(res.Body)
	if err != nil || count == 0 {
		logger.ContextKV(ctx, xlog.DEBUG,
			"tool", t.name,
			"status", "no_records",
			"url", res.URL,
			"err", err,
		)
		return &Result{Text: t.failure}
	}
	return &Result{Text: text, Count: count}
}

func (t *Tool[I]) Call(ctx context.Context, input string) (string, error) {
	var req I
	if js := strings.TrimSpace(input); js != "" {
		if err := json.Unmarshal(llmutils.CleanJSON([]byte(js)), &req); err != nil {
			return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
		}
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// RegisterMCP registers a handler that marshals the MCP arguments and invokes call,
// or runs the tool directly when call is nil.
func (t *Tool[I]) RegisterMCP(registrator tools.McpServerRegistrator, call tools.CallFunc) error {
	if call == nil {
		return registrator.RegisterTool(t.name, t.description, t.RunMCP)
	}
	return registrator.RegisterTool(t.name, t.description, func(ctx context.Context, req *I) (*mcp.ToolResponse, error) {
		if req == nil {
			req = new(I)
		}
		out, err := call(ctx, t.name, llmutils.ToJSON(req))
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResponse(mcp.NewTextContent(out)), nil
	})
}

func (t *Tool[I]) RunMCP(ctx context.Context, req *I) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(out.Text)), nil
}
