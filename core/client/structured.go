package client

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/leofalp/capitalagent/core/parse"
	"github.com/leofalp/capitalagent/internal/jsonschema"
	"github.com/leofalp/capitalagent/providers/ai"
)

// StructuredClient is a single-shot extractor: every call asks the model for
// a reply conforming to the JSON schema of T and decodes it into T.
//
// The schema is generated once, when the client is created, and attached to
// every request. Replies go through [parse.ParseStructured], so a call either
// returns a complete, validated T or an error; never a partial record.
//
//	type Review struct {
//	    Product string `json:"product"`
//	    Rating  int    `json:"rating" jsonschema:"enum=1,enum=2,enum=3,enum=4,enum=5"`
//	}
//
//	reviews, _ := client.NewStructured[Review](provider, client.WithDefaultModel("gemini-2.0-flash"))
//	resp, err := reviews.SendMessage(ctx, "Review: great phone, 5 stars")
//	fmt.Println(resp.Data.Rating, resp.Usage.TotalTokens)
type StructuredClient[T any] struct {
	Client
	schema *jsonschema.Schema
}

// FromBaseClient wraps a copy of base so that every request carries the
// schema of T. base itself is left unchanged.
func FromBaseClient[T any](base *Client) (*StructuredClient[T], error) {
	if base == nil {
		return nil, errors.New("base client cannot be nil")
	}

	schema, err := jsonschema.GenerateJSONSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("generating output schema: %w", err)
	}

	wrapped := *base
	wrapped.defaultOutputSchema = schema
	wrapped.defaultSchemaName = schemaName[T]()

	return &StructuredClient[T]{
		Client: wrapped,
		schema: schema,
	}, nil
}

// NewStructured creates a base Client with opts and wraps it for T.
func NewStructured[T any](llmProvider ai.Provider, opts ...func(*ClientOptions)) (*StructuredClient[T], error) {
	base, err := New(llmProvider, opts...)
	if err != nil {
		return nil, err
	}
	return FromBaseClient[T](base)
}

// SendMessage sends prompt and decodes the reply into T.
//
// Remote failures are *RemoteCallError; replies that do not match the schema
// of T, including refusals, are *parse.SchemaValidationError.
func (sc *StructuredClient[T]) SendMessage(ctx context.Context, prompt string, opts ...SendMessageOption) (*ai.StructuredChatResponse[T], error) {
	resp, err := sc.Client.SendMessage(ctx, prompt, opts...)
	if err != nil {
		return nil, err
	}
	return sc.parseResponse(resp)
}

// Schema returns the JSON schema used for structured output.
func (sc *StructuredClient[T]) Schema() *jsonschema.Schema {
	return sc.schema
}

func (sc *StructuredClient[T]) parseResponse(resp *ai.ChatResponse) (*ai.StructuredChatResponse[T], error) {
	if resp.Refusal != "" {
		return nil, &parse.SchemaValidationError{
			Reason:  "model refused to answer: " + resp.Refusal,
			Content: resp.Content,
		}
	}

	data, err := parse.ParseStructured[T](resp.Content, sc.schema)
	if err != nil {
		return nil, err
	}

	return &ai.StructuredChatResponse[T]{
		ChatResponse: *resp,
		Data:         data,
	}, nil
}

// schemaName derives the schema name reported to the provider from the Go
// type name of T: CapitalInfo becomes capital_info.
func schemaName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		return "response"
	}

	var sb strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
