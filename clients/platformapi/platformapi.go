package platformapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"tradebridge/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// StatusError is returned for any non-2xx response. It carries the HTTP
// status code and reason phrase so callers can surface them to the user.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// PlatformApiClient talks to the trading platform's REST API.
type PlatformApiClient struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewPlatformApiClient(logger *zap.Logger, cfg *config.Config) *PlatformApiClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.API.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.API.RateLimit > 0 {
		burst := cfg.API.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), burst)
	}

	return &PlatformApiClient{
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		limiter: limiter,
	}
}

// Request is the generic JSON request helper. path is joined onto the
// configured base URL; a non-nil body is serialized as JSON; a non-nil out
// receives the decoded response. Non-2xx responses yield a *StatusError.
func (c *PlatformApiClient) Request(ctx context.Context, method, path string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read platform response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		c.logger.Warn("platform api non-2xx",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return &StatusError{
			Code:   resp.StatusCode,
			Status: strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprintf("%d", resp.StatusCode))),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode platform json: %w", err)
		}
	}

	return nil
}

// Get issues a GET through the request helper.
func (c *PlatformApiClient) Get(ctx context.Context, path string, out any) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}
