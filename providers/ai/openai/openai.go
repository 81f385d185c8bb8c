package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/leofalp/capitalagent/internal/utils"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/observability"
)

const (
	defaultBaseURL          = "https://api.openai.com/v1"
	chatCompletionsEndpoint = "/chat/completions"

	providerName = "openai"
)

var (
	// ErrMissingAPIKey is returned by SendMessage when no key was configured.
	ErrMissingAPIKey = errors.New("API key is not set")
	// ErrNoChoices is returned when a reply carries no completion choice.
	ErrNoChoices = errors.New("no choices in response")
)

// OpenAIProvider implements [ai.Provider] against any endpoint speaking the
// OpenAI chat completions protocol, including Gemini's compatibility layer.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client

	capabilities         Capabilities
	capabilitiesOverride bool
}

var _ ai.Provider = (*OpenAIProvider)(nil)

// New creates a provider pointed at the public OpenAI API with no API key.
// Nothing is read from the environment; use the With* setters.
func New() *OpenAIProvider {
	return &OpenAIProvider{
		baseURL:      defaultBaseURL,
		client:       &http.Client{},
		capabilities: detectCapabilities(defaultBaseURL),
	}
}

// WithAPIKey sets the API key for the provider
func (p *OpenAIProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the base URL for the API. Capabilities are detected again
// unless they were set explicitly.
func (p *OpenAIProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = baseURL
	if !p.capabilitiesOverride {
		p.capabilities = detectCapabilities(baseURL)
	}
	return p
}

// WithHttpClient sets a custom HTTP client; nil restores a default client.
func (p *OpenAIProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	p.client = httpClient
	return p
}

// WithCapabilities pins the endpoint capabilities, disabling detection.
func (p *OpenAIProvider) WithCapabilities(c Capabilities) *OpenAIProvider {
	p.capabilities = c
	p.capabilitiesOverride = true
	return p
}

// Capabilities returns the capabilities in effect.
func (p *OpenAIProvider) Capabilities() Capabilities {
	return p.capabilities
}

// SendMessage implements the Provider interface
func (p *OpenAIProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	url := endpointURL(p.baseURL, chatCompletionsEndpoint)
	body := requestToChatCompletion(request, p.capabilities)

	if span := observability.SpanFromContext(ctx); span != nil {
		attrs := []observability.Attribute{
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, url),
		}
		if body.ResponseFormat != nil {
			attrs = append(attrs, observability.String(observability.AttrLLMResponseFormat, body.ResponseFormat.Type))
		}
		span.SetAttributes(attrs...)
	}

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, url, p.apiKey, body)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return chatCompletionToGeneric(*resp), nil
}

// endpointURL joins base and path with exactly one slash between them.
func endpointURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
