// Package server exposes the tool registry over MCP.
package server

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/config"
	"github.com/effective-security/testudo/tools"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport"
	mcphttp "github.com/metoro-io/mcp-golang/transport/http"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "server")

// Name of the MCP server
const Name = "testudo"

// Server serves the registry tools to an MCP host
type Server struct {
	cfg       config.ServerConfig
	registry  *tools.Registry
	transport transport.Transport
	mcp       *mcp.Server
}

// New returns a server on the configured transport,
// with every MCP tool of the registry registered
func New(cfg config.ServerConfig, registry *tools.Registry, version string) (*Server, error) {
	var tr transport.Transport
	switch cfg.Transport {
	case config.TransportStdio, "":
		tr = stdio.NewStdioServerTransport()
	case config.TransportHTTP:
		tr = mcphttp.NewHTTPTransport(cfg.Path).WithAddr(cfg.Addr)
	default:
		return nil, errors.Newf("unsupported transport: %q", cfg.Transport)
	}
	return NewWithTransport(cfg, tr, registry, version)
}

// NewWithTransport returns a server on the given transport
func NewWithTransport(cfg config.ServerConfig, tr transport.Transport, registry *tools.Registry, version string) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		registry:  registry,
		transport: tr,
		mcp: mcp.NewServer(tr,
			mcp.WithName(Name),
			mcp.WithVersion(version),
		),
	}

	if err := registry.RegisterMCP(s.mcp); err != nil {
		return nil, err
	}
	return s, nil
}

// Tools returns names of the served tools
func (s *Server) Tools() []string {
	return s.registry.Names()
}

// Serve starts the transport and blocks until ctx is done or the transport fails
func (s *Server) Serve(ctx context.Context) error {
	logger.KV(xlog.INFO,
		"status", "starting",
		"transport", s.cfg.Transport,
		"addr", s.cfg.Addr,
		"tools", len(s.registry.Names()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.mcp.Serve()
	}()

	for {
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "failed to serve")
			}
			// stdio returns once started
			errCh = nil
		case <-ctx.Done():
			if err := s.transport.Close(); err != nil {
				logger.KV(xlog.WARNING, "reason", "close", "err", err.Error())
			}
			logger.KV(xlog.INFO, "status", "stopped")
			return nil
		}
	}
}
