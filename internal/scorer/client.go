package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/logging"
	"github.com/Iron-Ham/triage/internal/strategy"
	"github.com/Iron-Ham/triage/internal/task"
)

// DefaultBaseURL is where a locally running scoring service listens.
const DefaultBaseURL = "http://localhost:8000/api/tasks"

// analyzePath is appended to the base URL. The trailing slash is required by
// the service.
const analyzePath = "/analyze/"

// maxErrorBody caps how much of a failure body is kept as error detail.
const maxErrorBody = 64 * 1024

// Request is the body of an analyze call.
type Request struct {
	Strategy string      `json:"strategy"`
	Tasks    []task.Task `json:"tasks"`
}

// Response is the decoded body of a successful analyze call. Tasks are in
// the service's ranked order.
type Response struct {
	Strategy string            `json:"strategy"`
	Count    int               `json:"count"`
	Tasks    []task.ScoredTask `json:"tasks"`
}

// Analyzer is implemented by [Client]. The analysis orchestrator depends on
// this interface so tests can substitute a fake.
type Analyzer interface {
	Analyze(ctx context.Context, s strategy.Strategy, tasks []task.Task) (*Response, error)
	Endpoint() string
}

// Client talks to the scoring service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped with otelhttp.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service rooted at baseURL. An empty
// baseURL selects [DefaultBaseURL].
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	instrumented := *c.httpClient
	instrumented.Transport = otelhttp.NewTransport(base,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "scorer " + r.Method + " " + r.URL.Path
		}),
	)
	c.httpClient = &instrumented
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the full analyze URL.
func (c *Client) Endpoint() string {
	return c.baseURL + analyzePath
}

// Analyze submits tasks for scoring under strategy s. The tasks are sent as
// given; the returned tasks keep the service's order.
func (c *Client) Analyze(ctx context.Context, s strategy.Strategy, tasks []task.Task) (*Response, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	body, err := json.Marshal(Request{Strategy: s.String(), Tasks: tasks})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewTransportError(c.Endpoint(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Debug("sending analyze request", "endpoint", c.Endpoint(), "strategy", s.String(), "tasks", len(tasks))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("scoring service unreachable", "endpoint", c.Endpoint(), "error", err.Error())
		return nil, errors.NewTransportError(c.Endpoint(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("scoring service rejected request",
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, errors.NewServiceError(resp.StatusCode, string(detail))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.NewServiceError(resp.StatusCode, "invalid response from scoring service").WithCause(err)
	}
	if out.Tasks == nil {
		out.Tasks = []task.ScoredTask{}
	}
	for i := range out.Tasks {
		if out.Tasks[i].Dependencies == nil {
			out.Tasks[i].Dependencies = []string{}
		}
	}

	c.logger.Debug("analyze request succeeded",
		"status", resp.StatusCode,
		"count", len(out.Tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &out, nil
}

var _ Analyzer = (*Client)(nil)
