package openai

import (
	"strings"

	"github.com/leofalp/capitalagent/internal/jsonschema"
	"github.com/leofalp/capitalagent/providers/ai"
)

// defaultSchemaName is reported to the API when the request names no schema.
const defaultSchemaName = "response"

/*
	CHAT COMPLETIONS API - INPUT
*/

// chatCompletionRequest represents the /chat/completions request format
type chatCompletionRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         *float64      `json:"temperature,omitempty"`
	TopP                *float64      `json:"top_p,omitempty"`
	MaxTokens           *int          `json:"max_tokens,omitempty"`            // Legacy, still accepted
	MaxCompletionTokens *int          `json:"max_completion_tokens,omitempty"` // Preferred by OpenAI
	FrequencyPenalty    *float64      `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float64      `json:"presence_penalty,omitempty"`

	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type       string          `json:"type"` // "text", "json_object", "json_schema"
	JSONSchema *chatJSONSchema `json:"json_schema,omitempty"`
}

type chatJSONSchema struct {
	Name   string             `json:"name"`
	Schema *jsonschema.Schema `json:"schema"`
	Strict bool               `json:"strict,omitempty"`
}

/*
	CHAT COMPLETIONS API - OUTPUT
*/

type chatCompletionResponse struct {
	ID                string       `json:"id"`
	Object            string       `json:"object"` // "chat.completion"
	Created           int64        `json:"created"`
	Model             string       `json:"model"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`
	Choices           []chatChoice `json:"choices"`
	Usage             *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"` // "stop", "length", "content_filter"
}

type chatResponseMessage struct {
	Role    string `json:"role"` // "assistant"
	Content string `json:"content,omitempty"`
	Refusal string `json:"refusal,omitempty"`
}

type chatUsage struct {
	PromptTokens        int `json:"prompt_tokens"`
	CompletionTokens    int `json:"completion_tokens"`
	TotalTokens         int `json:"total_tokens"`
	PromptTokensDetails *struct {
		CachedTokens int `json:"cached_tokens,omitempty"`
	} `json:"prompt_tokens_details,omitempty"`
}

/*
	CONVERSION FUNCTIONS
*/

// requestToChatCompletion converts ai.ChatRequest to chat completions format
func requestToChatCompletion(request ai.ChatRequest, caps Capabilities) chatCompletionRequest {
	req := chatCompletionRequest{
		Model: request.Model,
	}

	systemPrompt := request.SystemPrompt
	req.ResponseFormat, systemPrompt = responseFormatFor(request.ResponseFormat, systemPrompt, caps)

	if systemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(ai.RoleSystem),
			Content: systemPrompt,
		})
	}
	for _, msg := range request.Messages {
		req.Messages = append(req.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature > 0 {
			temp := float64(cfg.Temperature)
			req.Temperature = &temp
		}
		if cfg.TopP > 0 {
			topP := float64(cfg.TopP)
			req.TopP = &topP
		}
		if cfg.FrequencyPenalty != 0 {
			penalty := float64(cfg.FrequencyPenalty)
			req.FrequencyPenalty = &penalty
		}
		if cfg.PresencePenalty != 0 {
			penalty := float64(cfg.PresencePenalty)
			req.PresencePenalty = &penalty
		}
		if cfg.MaxTokens > 0 {
			maxTokens := cfg.MaxTokens
			if caps.SupportsMaxCompletionTokens {
				req.MaxCompletionTokens = &maxTokens
			} else {
				req.MaxTokens = &maxTokens
			}
		}
	}

	return req
}

// responseFormatFor maps the generic response format onto the wire format.
// A schema becomes json_schema when the endpoint enforces schemas; otherwise
// the request falls back to json_object and the schema is appended to the
// system prompt so the model still sees the expected shape.
func responseFormatFor(format *ai.ResponseFormat, systemPrompt string, caps Capabilities) (*chatResponseFormat, string) {
	if format == nil {
		return nil, systemPrompt
	}

	if format.OutputSchema == nil {
		if format.Type == "" {
			return nil, systemPrompt
		}
		return &chatResponseFormat{Type: format.Type}, systemPrompt
	}

	if caps.SupportsStructuredOutputs {
		name := format.Name
		if name == "" {
			name = defaultSchemaName
		}
		return &chatResponseFormat{
			Type: ai.ResponseFormatJSONSchema,
			JSONSchema: &chatJSONSchema{
				Name:   name,
				Schema: format.OutputSchema,
				Strict: format.Strict,
			},
		}, systemPrompt
	}

	return &chatResponseFormat{Type: ai.ResponseFormatJSONObject}, withSchemaHint(systemPrompt, format.OutputSchema)
}

func withSchemaHint(systemPrompt string, schema *jsonschema.Schema) string {
	var sb strings.Builder
	if systemPrompt != "" {
		sb.WriteString(systemPrompt)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Respond only with a JSON object that conforms to this JSON schema:\n")
	sb.WriteString(schema.String())
	return sb.String()
}

// chatCompletionToGeneric converts the first choice of a chat completion to
// ai.ChatResponse. Callers must ensure Choices is not empty.
func chatCompletionToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	choice := resp.Choices[0]

	chatResp := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Object:       resp.Object,
		Created:      resp.Created,
		Content:      cleanThinkTags(strings.TrimSpace(choice.Message.Content)),
		Refusal:      choice.Message.Refusal,
		FinishReason: choice.FinishReason,
	}

	if resp.Usage != nil {
		chatResp.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		if resp.Usage.PromptTokensDetails != nil {
			chatResp.Usage.CachedTokens = resp.Usage.PromptTokensDetails.CachedTokens
		}
	}

	return chatResp
}

// cleanThinkTags removes a leading <think>...</think> reasoning block that
// some models emit ahead of the answer.
func cleanThinkTags(content string) string {
	const startTag, endTag = "<think>", "</think>"

	start := strings.Index(content, startTag)
	if start == -1 {
		start = 0
	}
	end := strings.Index(content, endTag)
	if end == -1 || end <= start {
		return content
	}

	return strings.TrimSpace(content[:start] + content[end+len(endTag):])
}
