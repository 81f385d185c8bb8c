package ai

import (
	"context"
	"net/http"
)

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks github.com/leofalp/capitalagent/providers/ai Provider

// Provider is implemented by every LLM backend. A call is a single blocking
// request/response exchange; providers keep no conversation state.
type Provider interface {
	// SendMessage sends request and returns the completed response. It fails
	// when the call cannot be made, the context is cancelled, the remote
	// answers with a non-2xx status or the reply cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the key used to authenticate requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default API base URL.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
