// Package umdapi provides the single-request fetch primitive for the umd.io course-catalog API.
package umdapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/tidwall/gjson"
)

//go:generate mockgen -source=client.go -destination=../../mocks/mockumdapi/umdapi_mock.gen.go -package mockumdapi

var logger = xlog.NewPackageLogger("github.com/effective-security/testudo", "umdapi")

const (
	// DefaultBaseURL is the umd.io API root
	DefaultBaseURL = "https://api.umd.io/v1"
	// DefaultTimeout bounds a single request, including reading the body
	DefaultTimeout = 30 * time.Second
	// PerPage is the fixed page size of list endpoints. Only the first page is ever requested.
	PerPage = 100
)

// Outcome classifies the result of a fetch.
type Outcome int

const (
	// OutcomeOK is a 2xx response with a valid JSON body
	OutcomeOK Outcome = iota
	// OutcomeTransport covers request, connection, timeout and body read failures
	OutcomeTransport
	// OutcomeStatus is a non-2xx response
	OutcomeStatus
	// OutcomeDecode is a 2xx response whose body is not JSON
	OutcomeDecode
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransport:
		return "transport"
	case OutcomeStatus:
		return "status"
	case OutcomeDecode:
		return "decode"
	}
	return "unknown"
}

// Result is the typed outcome of one fetch.
// Callers that do not care about the cause only check Absent.
type Result struct {
	Outcome    Outcome
	URL        string
	StatusCode int
	Body       json.RawMessage
	Err        error
}

// Absent returns true when the fetch produced no usable data, for any reason.
func (r *Result) Absent() bool {
	return r == nil || r.Outcome != OutcomeOK
}

// Fetcher issues GET requests against the catalog API.
type Fetcher interface {
	// Fetch requests path relative to the API root.
	// It never returns nil.
	Fetch(ctx context.Context, path string) *Result
}

// Client is the HTTP implementation of Fetcher
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// ensure Client implements Fetcher
var _ Fetcher = (*Client)(nil)

// New returns a client for DefaultBaseURL with DefaultTimeout.
// Without WithHTTPClient every request uses a fresh http.Client.
func New() *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
}

func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for path
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

func (c *Client) Fetch(ctx context.Context, path string) *Result {
	started := time.Now()
	res := c.get(ctx, c.URL(path))
	metricskey.PerfFetch.MeasureSince(started, res.Outcome.String())

	if res.Absent() {
		metricskey.StatsFetchFailed.IncrCounter(1, res.Outcome.String())
		logger.ContextKV(ctx, xlog.DEBUG,
			"url", res.URL,
			"outcome", res.Outcome.String(),
			"status", res.StatusCode,
			"err", res.Err.Error(),
		)
	}
	return res
}

func (c *Client) get(ctx context.Context, u string) *Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res := &Result{URL: u}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		res.Outcome = OutcomeTransport
		res.Err = errors.Wrap(err, "failed to create request")
		return res
	}
	req.Header.Set("Accept", "application/json")

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: c.timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		res.Outcome = OutcomeTransport
		res.Err = errors.Wrap(err, "failed to send request")
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be released
		_, _ = io.Copy(io.Discard, resp.Body)
		res.Outcome = OutcomeStatus
		res.Err = errors.Newf("unexpected status: %d", resp.StatusCode)
		return res
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Outcome = OutcomeTransport
		res.Err = errors.Wrap(err, "failed to read response")
		return res
	}

	if !gjson.ValidBytes(body) {
		res.Outcome = OutcomeDecode
		res.Err = errors.New("failed to decode response: invalid JSON")
		return res
	}

	res.Outcome = OutcomeOK
	res.Body = body
	return res
}
