package ai

import (
	"github.com/leofalp/capitalagent/internal/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest is the provider-agnostic outbound request descriptor.
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Role instruction, sent ahead of Messages
	Messages         []Message         `json:"messages"`                    // Conversation messages, system prompt excluded
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional structured output constraint
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional sampling settings
}

// Message is a single conversation turn.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`

	Refusal string `json:"refusal,omitempty"` // Set when the model declines to answer
}

// NewUserMessage returns a message with the user role.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

type GenerationConfig struct {
	MaxTokens        int     `json:"max_tokens,omitempty"`
	Temperature      float32 `json:"temperature,omitempty"`       // [0..2], lower is more deterministic
	TopP             float32 `json:"top_p,omitempty"`             // [0..1], alternative to temperature
	FrequencyPenalty float32 `json:"frequency_penalty,omitempty"` // [-2..2]
	PresencePenalty  float32 `json:"presence_penalty,omitempty"`  // [-2..2]
}

// Response format types understood by the providers.
const (
	ResponseFormatText       = "text"
	ResponseFormatJSONObject = "json_object"
	ResponseFormatJSONSchema = "json_schema"
)

// ResponseFormat constrains the shape of the model's reply.
// With an OutputSchema the type is forced to json_schema, or to json_object
// plus a schema hint in the system prompt when the backend cannot enforce
// schemas.
type ResponseFormat struct {
	Type         string             `json:"type,omitempty"`
	Name         string             `json:"name,omitempty"` // Schema name reported to the API, defaults to "response"
	OutputSchema *jsonschema.Schema `json:"output_schema,omitempty"`
	Strict       bool               `json:"strict,omitempty"` // Ask the backend to adhere strictly to OutputSchema
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`

	CachedTokens int `json:"cached_tokens,omitempty"`
}

// ChatResponse is the provider-agnostic reply to a ChatRequest.
type ChatResponse struct {
	Id           string `json:"id"`
	Model        string `json:"model"`
	Object       string `json:"object"`
	Created      int64  `json:"created"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
	Refusal      string `json:"refusal,omitempty"`
	Usage        *Usage `json:"usage,omitempty"`
}

// StructuredChatResponse carries the raw reply together with its decoded payload.
type StructuredChatResponse[T any] struct {
	ChatResponse
	Data *T `json:"data"`
}

// MessageRole is the author of a message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Finish reasons reported by OpenAI-compatible backends.
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
