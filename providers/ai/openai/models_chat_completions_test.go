package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/capitalagent/providers/ai"
)

func TestRequestToChatCompletion_NoSystemPrompt(t *testing.T) {
	req := requestToChatCompletion(ai.ChatRequest{
		Model:    "gemini-2.0-flash",
		Messages: []ai.Message{ai.NewUserMessage("hi")},
	}, Capabilities{})

	assert.Equal(t, "gemini-2.0-flash", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "hi"}, req.Messages[0])
	assert.Nil(t, req.ResponseFormat)
}

func TestRequestToChatCompletion_SchemaFallsBackToJSONObject(t *testing.T) {
	schema := newCapitalSchema(t)

	req := requestToChatCompletion(ai.ChatRequest{
		SystemPrompt:   "Be brief.",
		Messages:       []ai.Message{ai.NewUserMessage("What is the capital of France?")},
		ResponseFormat: &ai.ResponseFormat{OutputSchema: schema},
	}, Capabilities{})

	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, ai.ResponseFormatJSONObject, req.ResponseFormat.Type)
	assert.Nil(t, req.ResponseFormat.JSONSchema)

	require.Len(t, req.Messages, 2)
	system := req.Messages[0].Content
	assert.Contains(t, system, "Be brief.")
	assert.Contains(t, system, schema.String())
}

func TestRequestToChatCompletion_DefaultSchemaName(t *testing.T) {
	req := requestToChatCompletion(ai.ChatRequest{
		ResponseFormat: &ai.ResponseFormat{OutputSchema: newCapitalSchema(t)},
	}, Capabilities{SupportsStructuredOutputs: true})

	require.NotNil(t, req.ResponseFormat.JSONSchema)
	assert.Equal(t, defaultSchemaName, req.ResponseFormat.JSONSchema.Name)
	assert.Empty(t, req.Messages, "no system message without a prompt")
}

func TestRequestToChatCompletion_TypeHintWithoutSchema(t *testing.T) {
	req := requestToChatCompletion(ai.ChatRequest{
		ResponseFormat: &ai.ResponseFormat{Type: ai.ResponseFormatJSONObject},
	}, Capabilities{})

	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, ai.ResponseFormatJSONObject, req.ResponseFormat.Type)
}

func TestRequestToChatCompletion_GenerationConfig(t *testing.T) {
	cfg := &ai.GenerationConfig{MaxTokens: 256, Temperature: 0.2, TopP: 0.9, PresencePenalty: 0.5}

	legacy := requestToChatCompletion(ai.ChatRequest{GenerationConfig: cfg}, Capabilities{})
	require.NotNil(t, legacy.MaxTokens)
	assert.Equal(t, 256, *legacy.MaxTokens)
	assert.Nil(t, legacy.MaxCompletionTokens)
	require.NotNil(t, legacy.Temperature)
	assert.InDelta(t, 0.2, *legacy.Temperature, 1e-6)
	require.NotNil(t, legacy.PresencePenalty)
	assert.Nil(t, legacy.FrequencyPenalty)

	modern := requestToChatCompletion(ai.ChatRequest{GenerationConfig: cfg}, Capabilities{SupportsMaxCompletionTokens: true})
	assert.Nil(t, modern.MaxTokens)
	require.NotNil(t, modern.MaxCompletionTokens)
	assert.Equal(t, 256, *modern.MaxCompletionTokens)
}

func TestChatCompletionToGeneric(t *testing.T) {
	resp := chatCompletionToGeneric(chatCompletionResponse{
		ID:    "id-1",
		Model: "m",
		Choices: []chatChoice{{
			Message:      chatResponseMessage{Content: "<think>France, so Paris</think>\n{\"capital\":\"Paris\"}", Refusal: ""},
			FinishReason: "stop",
		}},
		Usage: &chatUsage{
			PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15,
			PromptTokensDetails: &struct {
				CachedTokens int `json:"cached_tokens,omitempty"`
			}{CachedTokens: 3},
		},
	})

	assert.Equal(t, `{"capital":"Paris"}`, resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, &ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, CachedTokens: 3}, resp.Usage)
}

func TestCleanThinkTags(t *testing.T) {
	assert.Equal(t, "answer", cleanThinkTags("<think>reasoning</think> answer"))
	assert.Equal(t, "answer", cleanThinkTags("reasoning</think>answer"))
	assert.Equal(t, "plain", cleanThinkTags("plain"))
	assert.Equal(t, "<think>open", cleanThinkTags("<think>open"))
}

func TestDetectCapabilities(t *testing.T) {
	assert.True(t, detectCapabilities("https://api.openai.com/v1").SupportsMaxCompletionTokens)
	assert.True(t, detectCapabilities("https://generativelanguage.googleapis.com/v1beta/openai/").SupportsStructuredOutputs)
	assert.True(t, detectCapabilities("https://openrouter.ai/api/v1").SupportsStructuredOutputs)
	assert.Equal(t, Capabilities{}, detectCapabilities("http://localhost:11434/v1"))
}
