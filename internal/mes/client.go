// internal/mes/client.go
package mes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "mes-report/internal/common/errors"
	httpclient "mes-report/internal/common/http"
	"mes-report/internal/common/logger"
)

const bodySnippetLimit = 512

// Client fetches a manufacturing record from the MES endpoint with bounded
// retries. Every attempt outcome is logged; only exhaustion of all attempts
// surfaces as an error.
type Client struct {
	config     *Config
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: httpclient.NewClient(config.RequestTimeout),
		logger:     log.WithFields(map[string]interface{}{"component": "mes-client"}),
	}
}

// BuildURL joins server, API fragment, and serial, normalizing the slash
// between server and fragment.
func BuildURL(server, apiPath, serial string) string {
	return strings.TrimRight(server, "/") + "/" + strings.TrimLeft(apiPath, "/") + serial
}

// Fetch runs up to RetryCount attempts against the MES endpoint. It returns
// a Response only when some attempt got HTTP 200 with a body whose success
// flag is true; anything else is a failed attempt. Between failed attempts
// (never after the last) it sleeps RetryDelay, aborting early if ctx is done.
func (c *Client) Fetch(ctx context.Context, serial string) (*Response, error) {
	url := BuildURL(c.config.Server, c.config.APIPath, serial)
	c.logger.Info("preparing to connect to MES API", map[string]interface{}{
		"url":        url,
		"retryCount": c.config.RetryCount,
	})

	var lastErr error
	for attempt := 1; attempt <= c.config.RetryCount; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewInterruptedError("fetch")
		}

		c.logger.Info("connection attempt", map[string]interface{}{
			"attempt": attempt,
			"of":      c.config.RetryCount,
		})

		resp, err := c.attempt(ctx, url, attempt)
		if err == nil {
			c.logger.Info("MES record retrieved", map[string]interface{}{
				"attempt": attempt,
				"keys":    resp.Data.Len(),
			})
			return resp, nil
		}
		lastErr = err

		if attempt < c.config.RetryCount {
			c.logger.Info("retrying", map[string]interface{}{
				"delay": c.config.RetryDelay.String(),
			})
			if err := c.wait(ctx); err != nil {
				return nil, apperrors.NewInterruptedError("retry wait")
			}
		}
	}

	return nil, apperrors.NewMESUnavailableError(url, c.config.RetryCount, lastErr)
}

// attempt performs a single GET and applies the dual success check. The
// returned error is always attempt-scoped (retryable).
func (c *Client) attempt(ctx context.Context, url string, attempt int) (*Response, error) {
	httpResp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		c.logger.Error("HTTP request failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		return nil, apperrors.NewMESTransportError(err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.Error("failed to read response body", map[string]interface{}{
			"attempt": attempt,
			"status":  httpResp.StatusCode,
			"error":   err.Error(),
		})
		return nil, apperrors.NewMESTransportError(err)
	}

	c.logger.Debug("response received", map[string]interface{}{
		"attempt": attempt,
		"status":  httpResp.StatusCode,
		"body":    snippet(body),
	})

	if httpResp.StatusCode != http.StatusOK {
		c.logger.Warn("connection failed", map[string]interface{}{
			"attempt": attempt,
			"status":  httpResp.StatusCode,
			"body":    snippet(body),
		})
		return nil, apperrors.NewMESProtocolError(
			fmt.Sprintf("unexpected status %d", httpResp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("failed to parse MES response as JSON", map[string]interface{}{
			"attempt": attempt,
			"body":    snippet(body),
			"error":   err.Error(),
		})
		return nil, apperrors.NewMESProtocolError("response body is not valid JSON")
	}

	if !env.Success {
		// HTTP 200 but the MES business logic rejected the query.
		message := env.Message
		if message == "" {
			message = "no message provided"
		}
		c.logger.Warn("MES business logic failed", map[string]interface{}{
			"attempt": attempt,
			"message": message,
		})
		return nil, apperrors.NewMESProtocolError(
			fmt.Sprintf("business failure: %s", message))
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		RawBody:    string(body),
		Message:    env.Message,
		Data:       parseRecord(env.Data),
	}, nil
}

// wait sleeps the configured retry delay, returning early when ctx is done.
func (c *Client) wait(ctx context.Context) error {
	timer := time.NewTimer(c.config.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func snippet(body []byte) string {
	if len(body) > bodySnippetLimit {
		return string(body[:bodySnippetLimit]) + "..."
	}
	return string(body)
}
