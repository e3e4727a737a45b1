package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/relgpt/internal/errors"
	"github.com/diogo/relgpt/internal/models"
)

// GetAdvice sends text to the advice service and always returns a reply.
// A response without a reply field yields the apology text; any failure is
// logged and yields the fallback text. Errors never reach the caller.
func (c *AdviceClient) GetAdvice(ctx context.Context, text string) string {
	reply, err := c.RequestAdvice(ctx, text)
	switch {
	case err == nil:
		return reply
	case errors.Is(err, apierrors.ErrNoReply):
		c.logger.Info("advice response had no reply", "endpoint", c.endpoint)
		return c.apology
	default:
		c.logger.Warn("advice request failed",
			"endpoint", c.endpoint,
			"kind", apierrors.GetKind(err).String(),
			"status", apierrors.GetHTTPStatus(err),
			"error", err,
			"hint", failureHint(err),
		)
		return c.fallback
	}
}

// failureHint suggests what to check for a failed request
func failureHint(err error) string {
	switch {
	case apierrors.IsTimeoutError(err):
		return "no answer before request_timeout"
	case apierrors.IsNetworkError(err):
		return "check that the advice service is running and the endpoint is correct"
	case apierrors.IsStatusError(err):
		return "the advice service rejected the request"
	case apierrors.IsParseError(err):
		return "the endpoint did not answer with JSON"
	}
	return ""
}

// RequestAdvice performs one POST to the advice endpoint.
// It returns the reply, ErrNoReply when the body lacks one, or an *errors.AdviceError.
func (c *AdviceClient) RequestAdvice(ctx context.Context, text string) (string, error) {
	if c.IsClosed() {
		return "", apierrors.NewNetworkError(c.endpoint, fmt.Errorf("client is closed"))
	}

	payload, err := buildPayload(text)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apierrors.NewNetworkError(c.endpoint, fmt.Errorf("failed to create request: %w", err))
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classifyTransportError(ctx, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.logger.Debug("advice response received",
		"endpoint", c.endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", apierrors.NewStatusError(resp.StatusCode, c.endpoint, statusMessage(resp.StatusCode, errorBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", c.classifyTransportError(ctx, err)
	}

	return parseReply(body, c.endpoint)
}

// buildPayload creates the JSON request body
func buildPayload(text string) ([]byte, error) {
	return json.Marshal(models.AdviceRequest{Message: text})
}

// parseReply extracts the reply field from a response body
func parseReply(body []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError(endpoint, "response is not valid JSON")
	}

	reply := gjson.GetBytes(body, PathReply)
	if !reply.Exists() || reply.Type != gjson.String || reply.Str == "" {
		return "", apierrors.ErrNoReply
	}

	return reply.Str, nil
}

// statusMessage builds a short diagnostic from a non-2xx response
func statusMessage(statusCode int, body []byte) string {
	msg := http.StatusText(statusCode)
	if gjson.ValidBytes(body) {
		if detail := gjson.GetBytes(body, PathDetail); detail.Exists() && detail.String() != "" {
			return msg + ": " + detail.String()
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return msg + ": " + trimmed
	}
	return msg
}

// classifyTransportError maps a Do/read failure to a timeout or network error
func (c *AdviceClient) classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(c.endpoint, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(c.endpoint, err)
	}
	return apierrors.NewNetworkError(c.endpoint, err)
}
