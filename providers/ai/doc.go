// Package ai defines the provider-agnostic request and response model and the
// [Provider] interface implemented by the LLM backends.
//
// Callers build a [ChatRequest] (system prompt, user messages and an optional
// [ResponseFormat] carrying a JSON schema) and receive a [ChatResponse].
// Backends live in sub-packages such as providers/ai/openai; a gomock double
// is generated into providers/ai/mocks.
package ai
