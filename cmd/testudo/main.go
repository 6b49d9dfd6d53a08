// Command testudo serves the UMD course catalog tools over MCP.
//
// Usage:
//
//	testudo [flags]
//
// Flags:
//
//	-cfg string        Path to config file (YAML or JSON)
//	-transport string  Transport: stdio, http (overrides config)
//	-addr string       Listen address of the http transport (overrides config)
//	-base-url string   Catalog API root (overrides config)
//	-log-level string  Log level (overrides config)
//	-list string       Print tool descriptions as json, yaml or toml and exit
//	-call string       Call the named tool once and print the result
//	-input string      Input for -call
//	-input-format string  Format of -input: json, yaml, toml (default json)
//	-verbose           Print tool calls to stderr
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/callbacks"
	"github.com/effective-security/testudo/encoding"
	"github.com/effective-security/testudo/pkg/config"
	"github.com/effective-security/testudo/pkg/llmutils"
	"github.com/effective-security/testudo/server"
	"github.com/effective-security/testudo/tools"
	"github.com/effective-security/testudo/tools/testudo"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "cmd")

// Version is set at build time
var Version = "dev"

type flags struct {
	cfg       string
	transport string
	addr      string
	baseURL   string
	logLevel  string
	list      string
	call      string
	input     string
	inputFmt  string
	verbose   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "testudo: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := new(flags)
	fs := flag.NewFlagSet("testudo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.cfg, "cfg", "", "Path to config file (YAML or JSON)")
	fs.StringVar(&f.transport, "transport", "", "Transport: stdio, http (overrides config)")
	fs.StringVar(&f.addr, "addr", "", "Listen address of the http transport (overrides config)")
	fs.StringVar(&f.baseURL, "base-url", "", "Catalog API root (overrides config)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (overrides config)")
	fs.StringVar(&f.list, "list", "", "Print tool descriptions as json, yaml or toml and exit")
	fs.StringVar(&f.call, "call", "", "Call the named tool once and print the result")
	fs.StringVar(&f.input, "input", "", "Input for -call")
	fs.StringVar(&f.inputFmt, "input-format", encoding.FormatJSON, "Format of -input: json, yaml, toml")
	fs.BoolVar(&f.verbose, "verbose", false, "Print tool calls to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig returns the config file with flag overrides applied
func loadConfig(f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.cfg)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = values.StringsCoalesce(f.baseURL, cfg.BaseURL)
	cfg.LogLevel = values.StringsCoalesce(f.logLevel, cfg.LogLevel)
	cfg.Server.Transport = strings.ToLower(values.StringsCoalesce(f.transport, cfg.Server.Transport))
	cfg.Server.Addr = values.StringsCoalesce(f.addr, cfg.Server.Addr)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	// stdout belongs to the stdio transport
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	xlog.SetFormatter(xlog.NewStringFormatter(stderr))
	xlog.SetGlobalLogLevel(level)

	client, err := cfg.Client()
	if err != nil {
		return err
	}

	cb := callbacks.NewFanout(callbacks.NewPackageLogger(logger))
	if f.verbose {
		cb.Add(callbacks.NewPrinter(stderr, callbacks.ModeVerbose))
	}

	registry, err := tools.NewRegistry(testudo.New(client), tools.WithCallback(cb))
	if err != nil {
		return err
	}

	switch {
	case f.list != "":
		return list(stdout, registry, f.list)
	case f.call != "":
		input, err := toJSON(f.input, f.inputFmt)
		if err != nil {
			return err
		}
		out, err := registry.Call(ctx, f.call, input)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(stdout, llmutils.EnsureEndsWithNewline(out))
		return err
	}

	srv, err := server.New(cfg.Server, registry, Version)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// list prints tool descriptions with example inputs in the format
func list(w io.Writer, registry *tools.Registry, format string) error {
	enc, err := encoding.New(format)
	if err != nil {
		return errors.Newf("unsupported list format: %q", format)
	}

	d := registry.Descriptions().Plain()
	for i, tool := range registry.Tools() {
		ex, ok := tool.(tools.Exampler)
		if !ok {
			continue
		}
		bs, err := enc.Marshal(ex.Example())
		if err != nil {
			return errors.WithMessagef(err, "failed to encode example of %s", tool.Name())
		}
		d.Tools[i].Example = string(bs)
	}

	bs, err := enc.Marshal(d)
	if err != nil {
		return errors.WithMessage(err, "failed to encode tools")
	}
	_, err = fmt.Fprint(w, llmutils.EnsureEndsWithNewline(string(bs)))
	return err
}

// toJSON converts tool input in the format to JSON
func toJSON(input, format string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return input, nil
	}
	enc, err := encoding.New(format)
	if err != nil {
		return "", err
	}
	var v map[string]any
	if err := enc.Unmarshal([]byte(input), &v); err != nil {
		return "", errors.WithMessagef(err, "failed to decode %s input", format)
	}
	return llmutils.ToJSON(v), nil
}
