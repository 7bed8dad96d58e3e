package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emrgen/linker/internal/config"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	headerRequestID   = "X-Request-Id"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	// error bodies larger than this are cut before logging
	maxErrorBody = 4 << 10
)

// Client talks to the linker REST backend. It does not retry; a failed call
// is reported once and left to the caller.
type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	log      logrus.FieldLogger
}

type Option func(*Client)

// WithHTTPClient replaces the http client, the config timeout is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for cfg.Endpoint.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(c.endpoint, cfg.Breaker, c.log)
	}

	return c
}

func newBreaker(name string, cfg config.Breaker, log logrus.FieldLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("circuit breaker %s changed from %v to %v", name, from, to)
		},
		// rejected requests are the caller's problem, only an unhealthy backend trips the breaker
		IsSuccessful: func(err error) bool {
			var reqErr *RequestError
			if errors.As(err, &reqErr) {
				return reqErr.Status != 0 && reqErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
	})
}

// Close closes idle connections of the underlying http client.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Endpoint returns the base url requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Get reads {endpoint}/{resource} and returns the raw body.
func (c *Client) Get(ctx context.Context, resource string) ([]byte, error) {
	return c.call(ctx, http.MethodGet, resource, nil)
}

// Post sends body as json to {endpoint}/{resource} and returns the raw response body.
func (c *Client) Post(ctx context.Context, resource string, body any) ([]byte, error) {
	return c.call(ctx, http.MethodPost, resource, body)
}

func (c *Client) call(ctx context.Context, method, resource string, body any) ([]byte, error) {
	if c.breaker == nil {
		return c.do(ctx, method, resource, body)
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, method, resource, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &RequestError{Method: method, Path: "/" + resource, Err: fmt.Errorf("%w: %v", ErrCircuitOpen, err)}
	}
	if err != nil {
		return nil, err
	}

	return res.([]byte), nil
}

func (c *Client) do(ctx context.Context, method, resource string, body any) ([]byte, error) {
	path := "/" + resource
	reqErr := func(status int, msg string, err error) error {
		return &RequestError{Method: method, Path: path, Status: status, Message: msg, Err: err}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, reqErr(0, "", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return nil, reqErr(0, "", err)
	}

	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method":     method,
			"path":       path,
			"request_id": requestID,
		}).Debugf("request failed: %v", err)
		return nil, reqErr(0, "", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     res.StatusCode,
		"request_id": requestID,
		"duration":   time.Since(start),
	}).Debug("request done")
	if err != nil {
		return nil, reqErr(res.StatusCode, "", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, reqErr(res.StatusCode, errorMessage(data), nil)
	}

	return data, nil
}

// errorMessage pulls the message field out of an error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}

	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	return strings.TrimSpace(string(data))
}
