// Package callbacks provides tools.Callback handlers that report tool calls
// to a writer or to the package logger.
package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/testudo/tools"
	"github.com/effective-security/xlog"
)

var (
	_ tools.Callback = (*Noop)(nil)
	_ tools.Callback = (*Printer)(nil)
	_ tools.Callback = (*PackageLogger)(nil)
	_ tools.Callback = (*Fanout)(nil)
)

// Mode controls how much of a call the Printer shows
type Mode int

const (
	// ModeDefault prints tool names, inputs and the status of the result
	ModeDefault Mode = iota
	// ModeVerbose also prints the output
	ModeVerbose
)

// Status values of a completed call
const (
	StatusFound  = "found"
	StatusNoData = "no data"
)

// Status returns StatusNoData when output is the fixed failure message of the tool,
// and StatusFound otherwise.
func Status(tool tools.ITool, output string) string {
	if tools.IsFailure(tool, output) {
		return StatusNoData
	}
	return StatusFound
}

// Fanout forwards events to every callback in order.
type Fanout struct {
	callbacks []tools.Callback
}

func NewFanout(callbacks ...tools.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

// Add appends the callback; it is not safe to call while calls are in flight
func (f *Fanout) Add(callback tools.Callback) {
	f.callbacks = append(f.callbacks, callback)
}

func (f *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, cb := range f.callbacks {
		cb.OnToolStart(ctx, tool, input)
	}
}

func (f *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, cb := range f.callbacks {
		cb.OnToolEnd(ctx, tool, input, output)
	}
}

func (f *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, cb := range f.callbacks {
		cb.OnToolError(ctx, tool, input, err)
	}
}

func (f *Fanout) OnToolNotFound(ctx context.Context, name string) {
	for _, cb := range f.callbacks {
		cb.OnToolNotFound(ctx, name)
	}
}

// Noop ignores every event.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) OnToolStart(context.Context, tools.ITool, string)        {}
func (Noop) OnToolEnd(context.Context, tools.ITool, string, string)  {}
func (Noop) OnToolError(context.Context, tools.ITool, string, error) {}
func (Noop) OnToolNotFound(context.Context, string)                  {}

// Printer writes a line per event to Out.
// Calls from concurrent MCP requests are serialized.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (p *Printer) printf(format string, args ...any) {
	p.lock.Lock()
	defer p.lock.Unlock()
	fmt.Fprintf(p.Out, format, args...)
}

func (p *Printer) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	p.printf("Tool Start: %s\nInput: %s\n", tool.Name(), input)
}

func (p *Printer) OnToolEnd(_ context.Context, tool tools.ITool, _ string, output string) {
	if p.Mode == ModeVerbose {
		p.printf("Tool End: %s [%s]\nOutput: %s\n", tool.Name(), Status(tool, output), output)
		return
	}
	p.printf("Tool End: %s [%s]\n", tool.Name(), Status(tool, output))
}

func (p *Printer) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	p.printf("Tool Error: %s: %s\n", tool.Name(), err.Error())
}

func (p *Printer) OnToolNotFound(_ context.Context, name string) {
	p.printf("Tool Not Found: %s\n", name)
}

// PackageLogger logs events as key-value pairs.
// Outputs are logged by size, their text only at TRACE.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool.Name(),
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, _ string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool.Name(),
		"status", Status(tool, output),
		"size", len(output),
	)
	l.logger.ContextKV(ctx, xlog.TRACE,
		"event", "tool_output",
		"tool", tool.Name(),
		"output", output,
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool.Name(),
		"input", input,
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, name string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "tool_not_found",
		"tool", name,
	)
}
