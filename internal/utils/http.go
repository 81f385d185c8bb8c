package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/leofalp/capitalagent/providers/observability"
)

// maxErrorBodyLength bounds the response body echoed back in errors.
const maxErrorBodyLength = 500

// MaxResponseBodySize is the largest response body DoPostSync will read.
const MaxResponseBodySize = 8 << 20

// HTTPStatusError is returned by [DoPostSync] when the server answers with a
// non-2xx status. Body holds the (truncated) response payload.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, e.Body)
}

// DoPostSync performs a synchronous JSON POST and decodes a 2xx response body
// into OutputStruct.
//
// A bearer Authorization header is set when apiKey is not empty. If the
// context carries an observability span, request and response events are
// recorded on it. Context cancellation is propagated through the request.
// Bodies over MaxResponseBodySize are rejected. The response body is always
// closed; close failures are only logged.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	start := time.Now()
	res, err := httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration(observability.AttrDuration, elapsed),
			)
		}
		return nil, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr.Error(), "url", url)
		}
	}()

	respBody, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBodySize+1))
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}
	if len(respBody) > MaxResponseBodySize {
		return res, nil, fmt.Errorf("response body exceeds %d bytes", MaxResponseBodySize)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration(observability.AttrDuration, elapsed),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			Body:       TruncateString(string(respBody), maxErrorBodyLength),
		}
	}

	var out OutputStruct
	if err := json.Unmarshal(respBody, &out); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s",
			res.StatusCode, err, TruncateString(string(respBody), maxErrorBodyLength))
	}

	return res, &out, nil
}
