package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"jobscout/internal/retry"
)

const (
	requestTimeout = 15 * time.Second
	contentType    = "application/json"
)

// StatusError carries a non-2xx HTTP status through the retry predicate.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.Status)
}

// IsTransient reports whether an error is worth retrying: network-level
// failures and 5xx responses. Auth rejections and other 4xx responses are
// permanent.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	// The http client wraps network failures in *url.Error, which satisfies
	// net.Error. Everything else (auth, malformed responses) is permanent.
	var netErr net.Error
	return errors.As(err, &netErr)
}

// client is the HTTP plumbing shared by all provider adapters.
type client struct {
	hc     *http.Client
	logger *zap.Logger
	policy retry.Policy
}

func newClient(logger *zap.Logger) *client {
	policy := retry.Default(logger)
	policy.Retryable = IsTransient

	return &client{
		hc:     &http.Client{Timeout: requestTimeout},
		logger: logger,
		policy: policy,
	}
}

// getJSON makes a GET request and decodes the JSON body into target,
// retrying transient failures.
func (c *client) getJSON(ctx context.Context, op, rawURL string, q url.Values, headers map[string]string, target any) error {
	return c.policy.Do(ctx, op, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		if q != nil {
			req.URL.RawQuery = q.Encode()
		}
		return c.do(req, headers, target)
	})
}

// postJSON makes a POST request with a JSON payload and decodes the response
// into target, retrying transient failures.
func (c *client) postJSON(ctx context.Context, op, rawURL string, payload any, headers map[string]string, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return c.policy.Do(ctx, op, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		return c.do(req, headers, target)
	})
}

func (c *client) do(req *http.Request, headers map[string]string, target any) error {
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
