// Package parse turns raw LLM replies into typed Go values.
//
// Models wrap JSON in prose or markdown fences, emit slightly broken JSON, or
// answer with schema-shaped {"type", "value"} envelopes. [ParseStructured]
// locates the top-level JSON value, repairs it with jsonrepair and unwraps
// envelopes, then checks it against a JSON schema. The result is either a
// complete, validated record or a [*SchemaValidationError].
package parse
