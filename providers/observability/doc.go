// Package observability defines the tracing, metrics and logging interfaces
// used by the client, the agent runner and the providers.
//
// [Provider] composes [Tracer], [Metrics] and [Logger]. The active provider
// and span travel through a [context.Context] via [ContextWithObserver] and
// [ContextWithSpan], and are read back with [ObserverFromContext] and
// [SpanFromContext]. Attribute keys and span/metric names live in semconv.go.
package observability
