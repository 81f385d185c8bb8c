// Package openai implements [ai.Provider] for endpoints that speak the OpenAI
// chat completions protocol: the OpenAI API itself and compatibility layers
// such as Gemini's https://generativelanguage.googleapis.com/v1beta/openai/.
//
// Structured output requests use response_format json_schema where the host
// supports it (see [Capabilities]) and json_object plus a schema hint in the
// system prompt elsewhere.
package openai
