package client

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/capitalagent/internal/utils"
	"github.com/leofalp/capitalagent/providers/ai"
	"github.com/leofalp/capitalagent/providers/observability"
)

// responsePreviewLength bounds the reply excerpt written to the completion log.
const responsePreviewLength = 100

// NewObservabilityMiddleware creates a MiddlewareConfig that traces every
// provider call with a span, tags it with a fresh request id and records
// request, duration and token metrics.
//
// The span and the observer are stored in the context handed to next, so
// providers can enrich them via [observability.SpanFromContext].
// defaultModel labels spans and metrics when the request names no model.
//
// [New] installs it as the outermost middleware when [WithObserver] is used.
func NewObservabilityMiddleware(observer observability.Provider, defaultModel string) MiddlewareConfig {
	return MiddlewareConfig{
		Send: func(next SendFunc) SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				model := effectiveModel(request.Model, defaultModel)
				requestID := uuid.NewString()

				ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
					observability.String(observability.AttrRequestID, requestID),
					observability.String(observability.AttrLLMModel, model),
				)
				ctx = observability.ContextWithSpan(ctx, span)
				ctx = observability.ContextWithObserver(ctx, observer)

				observer.Debug(ctx, "llm send",
					observability.String(observability.AttrRequestID, requestID),
					observability.String(observability.AttrLLMModel, model),
					observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
				)

				start := time.Now()
				response, err := next(ctx, request)
				elapsed := time.Since(start)

				if err != nil {
					span.RecordError(err)
					span.SetStatus(observability.StatusError, "llm send failed")
					span.End()

					observer.Error(ctx, "llm send failed",
						observability.String(observability.AttrRequestID, requestID),
						observability.Error(err),
						observability.Duration(observability.AttrDuration, elapsed),
						observability.String(observability.AttrLLMModel, model),
					)
					observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
						observability.String(observability.AttrStatus, "error"),
						observability.String(observability.AttrLLMModel, model),
					)
					return nil, err
				}

				recordObsSuccess(ctx, span, observer, response, elapsed, model, requestID)
				return response, nil
			}
		},
	}
}

// recordObsSuccess writes the success-path metrics, span attributes and
// completion log, then ends the span.
func recordObsSuccess(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	response *ai.ChatResponse,
	elapsed time.Duration,
	model string,
	requestID string,
) {
	observer.Histogram(observability.MetricClientRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, model),
	)
	observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrLLMModel, model),
	)

	if response == nil {
		span.SetStatus(observability.StatusOK, "empty response")
		span.End()
		return
	}

	logAttrs := []observability.Attribute{
		observability.String(observability.AttrRequestID, requestID),
		observability.String(observability.AttrLLMModel, model),
		observability.String(observability.AttrLLMResponseID, response.Id),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		observability.Duration(observability.AttrDuration, elapsed),
	}

	if response.Usage != nil {
		observer.Counter(observability.MetricClientTokensTotal).Add(ctx, int64(response.Usage.TotalTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensPrompt).Add(ctx, int64(response.Usage.PromptTokens),
			observability.String(observability.AttrLLMModel, model),
		)
		observer.Counter(observability.MetricClientTokensCompletion).Add(ctx, int64(response.Usage.CompletionTokens),
			observability.String(observability.AttrLLMModel, model),
		)

		tokens := []observability.Attribute{
			observability.Int(observability.AttrLLMTokensPrompt, response.Usage.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, response.Usage.CompletionTokens),
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
		}
		span.SetAttributes(tokens...)
		logAttrs = append(logAttrs, tokens...)
	}

	if response.Content != "" {
		logAttrs = append(logAttrs,
			observability.String("response", utils.TruncateString(response.Content, responsePreviewLength)),
		)
	}

	observer.Info(ctx, "llm send completed", logAttrs...)

	span.SetAttributes(
		observability.String(observability.AttrLLMResponseID, response.Id),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
	)
	span.SetStatus(observability.StatusOK, "success")
	span.End()
}

// effectiveModel returns the request-level model when set, falling back to the
// client's configured default. Both being empty is valid (provider chooses).
func effectiveModel(requestModel, defaultModel string) string {
	if requestModel != "" {
		return requestModel
	}
	return defaultModel
}
