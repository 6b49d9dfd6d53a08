package tools

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "tools")

// Registry is an immutable set of tools, built once at startup.
// It is safe for concurrent use.
type Registry struct {
	list     []ITool
	byName   map[string]ITool
	names    []string
	callback Callback
}

// Option configures the Registry
type Option func(*Registry)

// WithCallback sets the callback invoked around every Call
func WithCallback(cb Callback) Option {
	return func(r *Registry) {
		r.callback = cb
	}
}

// NewRegistry returns a registry of the tools, in the given order.
// Names are matched case-insensitively and must be unique.
func NewRegistry(list []ITool, opts ...Option) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]ITool, len(list)),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, tool := range list {
		if tool == nil || tool.Name() == "" {
			return nil, errors.New("tool name must not be empty")
		}
		key := strings.ToLower(tool.Name())
		if _, ok := r.byName[key]; ok {
			return nil, errors.Wrapf(ErrDuplicateTool, "%s", tool.Name())
		}
		r.byName[key] = tool
		r.list = append(r.list, tool)
		r.names = append(r.names, tool.Name())
	}
	return r, nil
}

// Get returns the tool by name, or nil
func (r *Registry) Get(name string) ITool {
	return r.byName[strings.ToLower(name)]
}

// Names returns tool names in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Tools returns the tools in registration order
func (r *Registry) Tools() []ITool {
	return append([]ITool(nil), r.list...)
}

// Descriptions returns descriptions of all tools, including parameters schema
func (r *Registry) Descriptions() Descriptions {
	return Describe(r.list...)
}

// Call invokes the tool with JSON input.
// The result of a tool that found no data is its fixed message, not an error;
// errors are returned only for unknown tools and invalid input.
func (r *Registry) Call(ctx context.Context, name, input string) (string, error) {
	tool := r.Get(name)
	if tool == nil {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, name)
		if r.callback != nil {
			r.callback.OnToolNotFound(ctx, name)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"tool_name", name,
			"available_tools", strings.Join(r.names, ", "),
		)
		return "", errors.Wrapf(ErrToolNotFound, "%s", name)
	}

	callID := uuid.NewString()
	started := time.Now()
	if r.callback != nil {
		r.callback.OnToolStart(ctx, tool, input)
	}

	res, err := tool.Call(ctx, input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, tool.Name())
		if r.callback != nil {
			r.callback.OnToolError(ctx, tool, input, err)
		}
		logger.ContextKV(ctx, xlog.DEBUG,
			"call_id", callID,
			"tool", tool.Name(),
			"status", "failed",
			"err", err.Error(),
		)
		return "", errors.WithMessagef(err, "failed to call tool %s", tool.Name())
	}

	if r.callback != nil {
		r.callback.OnToolEnd(ctx, tool, input, res)
	}
	logger.ContextKV(ctx, xlog.DEBUG,
		"call_id", callID,
		"tool", tool.Name(),
		"status", "done",
		"elapsed", time.Since(started).String(),
		"size", len(res),
	)
	return res, nil
}

// RegisterMCP registers every tool that supports MCP with the server.
// MCP calls go through Call, so callbacks, logging and metrics apply to them too.
// Tools without MCP support are skipped.
func (r *Registry) RegisterMCP(registrator McpServerRegistrator) error {
	for _, tool := range r.list {
		mt, ok := tool.(IMCPTool)
		if !ok {
			logger.KV(xlog.DEBUG, "status", "skip_mcp", "tool", tool.Name())
			continue
		}
		if err := mt.RegisterMCP(registrator, r.Call); err != nil {
			return errors.WithMessagef(err, "failed to register tool %s", tool.Name())
		}
	}
	return nil
}
