// Package config loads the server configuration.
package config

import (
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/umdapi"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

// Transports supported by the server
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Defaults
const (
	DefaultLogLevel = "INFO"
	DefaultAddr     = ":8080"
	DefaultPath     = "/mcp"
)

type Config struct {
	// BaseURL of the catalog API
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Timeout of a single API request, as duration string like `30s`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// LogLevel is one of TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL
	LogLevel string       `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Server   ServerConfig `json:"server" yaml:"server"`
}

// ServerConfig specifies how tools are served to the host
type ServerConfig struct {
	// Transport is stdio or http
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
	// Addr is the listen address of the http transport
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Path is the endpoint of the http transport
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Default returns the configuration used without a file
func Default() *Config {
	cfg := new(Config)
	cfg.SetDefaults()
	return cfg
}

// Load returns configuration from file, with defaults for missing values.
// Empty file name returns Default.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %s", file)
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills missing values
func (c *Config) SetDefaults() {
	c.BaseURL = values.StringsCoalesce(c.BaseURL, umdapi.DefaultBaseURL)
	c.Timeout = values.StringsCoalesce(c.Timeout, umdapi.DefaultTimeout.String())
	c.LogLevel = values.StringsCoalesce(c.LogLevel, DefaultLogLevel)
	c.Server.Transport = values.StringsCoalesce(strings.ToLower(c.Server.Transport), TransportStdio)
	c.Server.Addr = values.StringsCoalesce(c.Server.Addr, DefaultAddr)
	c.Server.Path = values.StringsCoalesce(c.Server.Path, DefaultPath)
}

// Validate returns an error if the configuration is not usable
func (c *Config) Validate() error {
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if !slices.Contains([]string{TransportStdio, TransportHTTP}, c.Server.Transport) {
		return errors.Newf("unsupported transport: %q", c.Server.Transport)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return errors.Newf("invalid server path: %q", c.Server.Path)
	}
	return nil
}

// RequestTimeout returns the parsed Timeout
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timeout")
	}
	if d <= 0 {
		return 0, errors.Newf("invalid timeout: %s", c.Timeout)
	}
	return d, nil
}

// Client returns the catalog API client for the configuration
func (c *Config) Client() (*umdapi.Client, error) {
	timeout, err := c.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return umdapi.New().WithBaseURL(c.BaseURL).WithTimeout(timeout), nil
}

var levels = map[string]xlog.LogLevel{
	"CRITICAL": xlog.CRITICAL,
	"ERROR":    xlog.ERROR,
	"WARNING":  xlog.WARNING,
	"WARN":     xlog.WARNING,
	"NOTICE":   xlog.NOTICE,
	"INFO":     xlog.INFO,
	"DEBUG":    xlog.DEBUG,
	"TRACE":    xlog.TRACE,
}

// ParseLogLevel returns the level by name, case-insensitive
func ParseLogLevel(s string) (xlog.LogLevel, error) {
	if l, ok := levels[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return xlog.INFO, errors.Newf("unsupported log level: %q", s)
}
