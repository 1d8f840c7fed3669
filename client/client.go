// Package client is the HTTP collaborator the resource modules call through.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request identifier for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Request describes a single REST call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a raw backend response with a status below 400.
type Response struct {
	StatusCode int
	Body       []byte
}

// Doer performs REST calls. Implementations return *HTTPError for statuses >= 400.
type Doer interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HTTPError is returned when the backend answers with a status >= 400.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// IsServerError reports a 5xx status.
func (e *HTTPError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// IsClientError reports a 4xx status.
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}

// Config configures the resty-backed client.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Token     string        `yaml:"token"`
	UserAgent string        `yaml:"user_agent"`
}

// Resty implements Doer on top of a resty client.
type Resty struct {
	client *resty.Client
	log    *zap.Logger
}

// NewResty builds a Doer for cfg. A static bearer token is attached when configured.
func NewResty(cfg Config, log *zap.Logger) *Resty {
	if log == nil {
		log = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")

	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})

	return &Resty{client: rc, log: log.Named("client")}
}

// Do executes req and returns the raw response body.
func (c *Resty) Do(ctx context.Context, req Request) (*Response, error) {
	r := c.client.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	c.log.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()),
	)

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &HTTPError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}

	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
