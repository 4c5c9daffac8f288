// Package client is a typed caller for the gateway's REST API, used by the
// dev console and integration tooling. Every call runs under the shared
// timeout and retry policy; errors carry enough classification that quota
// and auth failures are never retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wodwise/gateway/internal/coach"
	"github.com/wodwise/gateway/internal/resilience"
)

// shared HTTP client for gateway calls
var httpClient = &http.Client{
	// no client-level timeout, deadlines come from the per-call context
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// error kinds the retry loop must never re-attempt
var nonRetryableCodes = map[string]bool{
	"unauthorized":           true,
	"invalid_request":        true,
	"validation_error":       true,
	"quota_exceeded":         true,
	"malformed_model_output": true,
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      resilience.RetryConfig
	timeout    time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		retry:      resilience.AIRetryConfig(),
		timeout:    resilience.AITimeout,
	}
}

type proxyRequest struct {
	Action      string               `json:"action"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
	MimeType    string               `json:"mimeType,omitempty"`
	Workout     *coach.ParsedWorkout `json:"workout,omitempty"`
	UserProfile *coach.UserProfile   `json:"userProfile,omitempty"`
}

type proxyEnvelope struct {
	Data      json.RawMessage `json:"data"`
	Remaining int             `json:"remaining"`
}

type errorEnvelope struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Remaining *int   `json:"remaining,omitempty"`
}

// UsageInfo is the caller's current quota standing.
type UsageInfo struct {
	Tier      string `json:"tier"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
}

// ParseWOD submits a whiteboard photo and returns the structured workout
// plus the remaining daily allowance.
func (c *Client) ParseWOD(ctx context.Context, imageBase64, mimeType string) (*coach.ParsedWorkout, int, error) {
	envelope, err := c.proxy(ctx, proxyRequest{
		Action:      "parse_wod",
		ImageBase64: imageBase64,
		MimeType:    mimeType,
	})
	if err != nil {
		return nil, 0, err
	}

	var workout coach.ParsedWorkout
	if err := json.Unmarshal(envelope.Data, &workout); err != nil {
		return nil, 0, fmt.Errorf("failed to decode workout: %w", err)
	}

	return &workout, envelope.Remaining, nil
}

// GenerateStrategy submits a parsed workout (and optionally a profile
// override) and returns the execution strategy.
func (c *Client) GenerateStrategy(ctx context.Context, workout *coach.ParsedWorkout, profile *coach.UserProfile) (*coach.WodStrategy, int, error) {
	envelope, err := c.proxy(ctx, proxyRequest{
		Action:      "generate_strategy",
		Workout:     workout,
		UserProfile: profile,
	})
	if err != nil {
		return nil, 0, err
	}

	var strategy coach.WodStrategy
	if err := json.Unmarshal(envelope.Data, &strategy); err != nil {
		return nil, 0, fmt.Errorf("failed to decode strategy: %w", err)
	}

	return &strategy, envelope.Remaining, nil
}

// Usage fetches today's quota standing.
func (c *Client) Usage(ctx context.Context) (*UsageInfo, error) {
	return resilience.WithRetry(ctx, c.retry, func(ctx context.Context) (*UsageInfo, error) {
		return resilience.WithTimeout(ctx, resilience.DefaultTimeout, func(ctx context.Context) (*UsageInfo, error) {
			var info UsageInfo
			if err := c.do(ctx, "GET", "/api/v1/usage", nil, &info); err != nil {
				return nil, err
			}
			return &info, nil
		})
	})
}

func (c *Client) proxy(ctx context.Context, req proxyRequest) (*proxyEnvelope, error) {
	return resilience.WithRetry(ctx, c.retry, func(ctx context.Context) (*proxyEnvelope, error) {
		return resilience.WithTimeout(ctx, c.timeout, func(ctx context.Context) (*proxyEnvelope, error) {
			var envelope proxyEnvelope
			if err := c.do(ctx, "POST", "/api/v1/ai/proxy", req, &envelope); err != nil {
				return nil, err
			}
			return &envelope, nil
		})
	})
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// connection-level failures stay unclassified, the retry loop
		// treats them as transient
		return fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return classifyError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// turns a gateway error body into an APIError the retry loop understands.
// Quota 429s are pinned non-retryable; retrying cannot help inside the
// same daily window.
func classifyError(status int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &resilience.APIError{
			Code:    "http_error",
			Message: string(body),
			Status:  status,
		}
	}

	code := envelope.Error
	if code == "Daily limit reached" {
		code = "quota_exceeded"
	}

	apiErr := &resilience.APIError{
		Code:    code,
		Message: envelope.Message,
		Status:  status,
	}

	if nonRetryableCodes[code] {
		return resilience.NonRetryable(apiErr)
	}

	return apiErr
}
