package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/leofalp/capitalagent/core/client"
	"github.com/leofalp/capitalagent/core/parse"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/observability"
)

var (
	// ErrMissingName is returned when a Definition has no name.
	ErrMissingName = errors.New("agent name cannot be empty")
	// ErrMissingInstructions is returned when a Definition has no instructions.
	ErrMissingInstructions = errors.New("agent instructions cannot be empty")
)

// Definition describes an agent: who it is, how it should behave and which
// model answers for it. It can be loaded from YAML.
type Definition struct {
	Name         string `yaml:"name"`
	Instructions string `yaml:"instructions"`
	Model        string `yaml:"model,omitempty"`
}

// Validate checks that the definition can build an agent.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(d.Instructions) == "" {
		return ErrMissingInstructions
	}
	return nil
}

// Result is the outcome of a successful run.
type Result[T any] struct {
	AgentName   string
	FinalOutput T
	// Usage is nil when the provider did not report token counts.
	Usage *ai.Usage
	Raw   *ai.ChatResponse
}

// Agent answers one message at a time with a value of type T.
// It keeps no state between runs.
type Agent[T any] struct {
	definition Definition
	client     *client.StructuredClient[T]
}

// New builds an agent backed by llmProvider. The definition's instructions
// become the system prompt and its model the default model; opts are applied
// after them and can add an observer or middleware.
func New[T any](llmProvider ai.Provider, def Definition, opts ...func(*client.ClientOptions)) (*Agent[T], error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	clientOpts := append([]func(*client.ClientOptions){
		client.WithSystemPrompt(def.Instructions),
		client.WithDefaultModel(def.Model),
	}, opts...)

	sc, err := client.NewStructured[T](llmProvider, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Agent[T]{definition: def, client: sc}, nil
}

// Name returns the agent name.
func (a *Agent[T]) Name() string {
	return a.definition.Name
}

// Definition returns a copy of the agent definition.
func (a *Agent[T]) Definition() Definition {
	return a.definition
}

// BuildRequest returns the request Run would send for message.
func (a *Agent[T]) BuildRequest(message string) (ai.ChatRequest, error) {
	return a.client.BuildRequest(message)
}

// Run sends message to the model and decodes the reply.
//
// Errors are client.ErrEmptyPrompt, *client.RemoteCallError or
// *parse.SchemaValidationError. Nothing is retried.
func (a *Agent[T]) Run(ctx context.Context, message string) (*Result[T], error) {
	observer := a.client.Observer()
	var span observability.Span
	start := time.Now()
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanAgentRun,
			observability.String(observability.AttrAgentName, a.definition.Name),
		)
		defer span.End()
	}

	resp, err := a.client.SendMessage(ctx, message)
	if err != nil {
		a.observeFailure(ctx, span, err, time.Since(start))
		return nil, err
	}

	if observer != nil {
		observer.Counter(observability.MetricAgentRunCount).Add(ctx, 1,
			observability.String(observability.AttrAgentName, a.definition.Name),
			observability.String(observability.AttrStatus, "success"),
		)
		span.SetStatus(observability.StatusOK, "")
		observer.Debug(ctx, "agent run completed",
			observability.String(observability.AttrAgentName, a.definition.Name),
			observability.Duration(observability.AttrDuration, time.Since(start)),
		)
	}

	return &Result[T]{
		AgentName:   a.definition.Name,
		FinalOutput: *resp.Data,
		Usage:       resp.Usage,
		Raw:         &resp.ChatResponse,
	}, nil
}

func (a *Agent[T]) observeFailure(ctx context.Context, span observability.Span, err error, duration time.Duration) {
	observer := a.client.Observer()
	if observer == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(observability.StatusError, err.Error())

	attrs := []observability.Attribute{
		observability.String(observability.AttrAgentName, a.definition.Name),
		observability.Duration(observability.AttrDuration, duration),
		observability.Error(err),
	}
	var schemaErr *parse.SchemaValidationError
	if errors.As(err, &schemaErr) && schemaErr.Field != "" {
		attrs = append(attrs, observability.String(observability.AttrSchemaField, schemaErr.Field))
	}

	observer.Counter(observability.MetricAgentRunCount).Add(ctx, 1,
		observability.String(observability.AttrAgentName, a.definition.Name),
		observability.String(observability.AttrStatus, "error"),
	)
	observer.Error(ctx, "agent run failed", attrs...)
}
