package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/leofalp/capitalagent/internal/jsonschema"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/observability"
)

var (
	// ErrEmptyPrompt is returned when the user message is empty or only whitespace.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("llm provider cannot be nil")
)

// Client sends single, stateless requests to an LLM provider. Every call
// builds a fresh request from the configured system prompt and the given
// user message; nothing is remembered between calls. A Client is safe for
// concurrent use once built.
type Client struct {
	llmProvider ai.Provider
	observer    observability.Provider

	systemPrompt     string
	defaultModel     string
	generationConfig *ai.GenerationConfig

	defaultOutputSchema *jsonschema.Schema
	defaultSchemaName   string

	send SendFunc
}

// ClientOptions collects the settings applied by the With* option functions.
type ClientOptions struct {
	SystemPrompt     string
	DefaultModel     string
	GenerationConfig *ai.GenerationConfig
	Observer         observability.Provider
	Middlewares      []MiddlewareConfig
}

// WithSystemPrompt sets the role instruction sent ahead of every user message.
func WithSystemPrompt(prompt string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.SystemPrompt = prompt
	}
}

// WithDefaultModel sets the model used when a call does not pick one.
func WithDefaultModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.DefaultModel = model
	}
}

// WithGenerationConfig sets sampling parameters for every request.
func WithGenerationConfig(cfg ai.GenerationConfig) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.GenerationConfig = &cfg
	}
}

// WithObserver enables tracing, metrics and logging for every call. The
// observability middleware is installed as the outermost wrapper.
func WithObserver(observer observability.Provider) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Observer = observer
	}
}

// WithMiddleware appends middlewares to the send chain. The first one given
// is the outermost.
func WithMiddleware(middlewares ...MiddlewareConfig) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// New creates a Client for llmProvider.
func New(llmProvider ai.Provider, opts ...func(*ClientOptions)) (*Client, error) {
	if llmProvider == nil {
		return nil, ErrNilProvider
	}

	options := &ClientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	for i, mw := range options.Middlewares {
		if mw.Send == nil {
			return nil, fmt.Errorf("middleware at index %d has a nil Send function", i)
		}
	}

	middlewares := options.Middlewares
	if options.Observer != nil {
		middlewares = append([]MiddlewareConfig{NewObservabilityMiddleware(options.Observer, options.DefaultModel)}, middlewares...)
	}

	return &Client{
		llmProvider:      llmProvider,
		observer:         options.Observer,
		systemPrompt:     options.SystemPrompt,
		defaultModel:     options.DefaultModel,
		generationConfig: options.GenerationConfig,
		send:             buildSendChain(llmProvider, middlewares),
	}, nil
}

// SendMessageOption customises a single request.
type SendMessageOption func(*sendMessageOptions)

type sendMessageOptions struct {
	model        string
	outputSchema *jsonschema.Schema
	schemaName   string
}

// WithModel overrides the default model for one request.
func WithModel(model string) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.model = model
	}
}

// WithOutputSchema asks for a reply conforming to schema.
func WithOutputSchema(schema *jsonschema.Schema) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.outputSchema = schema
	}
}

// WithSchemaName sets the name reported to the provider for the output schema.
func WithSchemaName(name string) SendMessageOption {
	return func(o *sendMessageOptions) {
		o.schemaName = name
	}
}

// BuildRequest assembles the request that SendMessage would send for prompt:
// the system prompt, the output schema (if any) and a single user message.
// It performs no I/O and fails only with ErrEmptyPrompt.
func (c *Client) BuildRequest(prompt string, opts ...SendMessageOption) (ai.ChatRequest, error) {
	if strings.TrimSpace(prompt) == "" {
		return ai.ChatRequest{}, ErrEmptyPrompt
	}

	options := sendMessageOptions{
		model:        c.defaultModel,
		outputSchema: c.defaultOutputSchema,
		schemaName:   c.defaultSchemaName,
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := ai.ChatRequest{
		Model:        options.model,
		SystemPrompt: c.systemPrompt,
		Messages:     []ai.Message{ai.NewUserMessage(prompt)},
	}
	if c.generationConfig != nil {
		cfg := *c.generationConfig
		request.GenerationConfig = &cfg
	}
	if options.outputSchema != nil {
		request.ResponseFormat = &ai.ResponseFormat{
			Type:         ai.ResponseFormatJSONSchema,
			Name:         options.schemaName,
			OutputSchema: options.outputSchema,
			Strict:       options.outputSchema.StrictCompatible(),
		}
	}

	return request, nil
}

// SendMessage builds a request for prompt and sends it through the middleware
// chain to the provider. Provider and transport failures are returned as
// *RemoteCallError.
func (c *Client) SendMessage(ctx context.Context, prompt string, opts ...SendMessageOption) (*ai.ChatResponse, error) {
	request, err := c.BuildRequest(prompt, opts...)
	if err != nil {
		return nil, err
	}

	response, err := c.send(ctx, request)
	if err != nil {
		return nil, newRemoteCallError(request.Model, err)
	}
	if response == nil {
		return nil, newRemoteCallError(request.Model, errors.New("provider returned no response"))
	}

	return response, nil
}

// Observer returns the configured observability provider, or nil.
func (c *Client) Observer() observability.Provider {
	return c.observer
}

// SystemPrompt returns the role instruction sent with every request.
func (c *Client) SystemPrompt() string {
	return c.systemPrompt
}

// DefaultModel returns the model used when a request does not pick one.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}
