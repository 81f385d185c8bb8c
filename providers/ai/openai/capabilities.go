package openai

import "strings"

// Capabilities is the feature set of an OpenAI-compatible endpoint that
// affects how requests are encoded. It is detected from the base URL and can
// be overridden with [OpenAIProvider.WithCapabilities] for other hosts.
type Capabilities struct {
	// SupportsStructuredOutputs reports whether response_format json_schema
	// is honoured. Without it the provider asks for json_object and embeds
	// the schema in the system prompt.
	SupportsStructuredOutputs bool

	// SupportsMaxCompletionTokens selects max_completion_tokens over the
	// legacy max_tokens field.
	SupportsMaxCompletionTokens bool
}

// detectCapabilities guesses the endpoint features from baseURL.
func detectCapabilities(baseURL string) Capabilities {
	baseURL = strings.ToLower(baseURL)

	switch {
	case strings.Contains(baseURL, "api.openai.com"):
		return Capabilities{
			SupportsStructuredOutputs:   true,
			SupportsMaxCompletionTokens: true,
		}

	// Gemini OpenAI compatibility layer
	case strings.Contains(baseURL, "generativelanguage.googleapis.com"):
		return Capabilities{
			SupportsStructuredOutputs: true,
		}

	case strings.Contains(baseURL, "azure.com"), strings.Contains(baseURL, "openrouter.ai"):
		return Capabilities{
			SupportsStructuredOutputs: true,
		}
	}

	// Ollama and unknown hosts: conservative defaults
	return Capabilities{}
}
