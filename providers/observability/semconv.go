package observability

// Attribute keys, span names and metric names shared by the client,
// the agent runner and the providers.

// LLM request attributes.
const (
	AttrLLMProvider     = "llm.provider"
	AttrLLMModel        = "llm.model"
	AttrLLMEndpoint     = "llm.endpoint"
	AttrLLMResponseID   = "llm.response.id"
	AttrLLMFinishReason = "llm.finish_reason"
	// AttrLLMResponseFormat is the response_format type sent (json_schema, json_object)
	AttrLLMResponseFormat = "llm.response_format"
)

// Token usage attributes.
const (
	AttrLLMTokensPrompt     = "llm.tokens.prompt"     // #nosec G101 -- LLM tokens, not credentials
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101 -- LLM tokens, not credentials
	AttrLLMTokensTotal      = "llm.tokens.total"      // #nosec G101 -- LLM tokens, not credentials
)

// HTTP attributes.
const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// Client and agent attributes.
const (
	// AttrRequestID correlates every log entry of one client call
	AttrRequestID            = "request.id"
	AttrRequestMessagesCount = "request.messages_count"
	AttrAgentName            = "agent.name"
	AttrSchemaField          = "schema.field"
)

// General attributes.
const (
	AttrError             = "error"
	AttrErrorType         = "error.type"
	AttrDuration          = "duration"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// Span names.
const (
	SpanClientSendMessage = "client.send_message"
	SpanLLMRequest        = "llm.request"
	SpanAgentRun          = "agent.run"
)

// Metric names.
const (
	MetricClientRequestCount     = "capitalagent.client.request.count"
	MetricClientRequestDuration  = "capitalagent.client.request.duration"
	MetricClientTokensTotal      = "capitalagent.client.tokens.total"
	MetricClientTokensPrompt     = "capitalagent.client.tokens.prompt"
	MetricClientTokensCompletion = "capitalagent.client.tokens.completion"
	MetricAgentRunCount          = "capitalagent.agent.run.count"
)
