// Package client is the orchestration layer between callers and an LLM
// provider. It builds requests, runs them through a middleware chain and
// returns typed results.
//
// [New] accepts an [ai.Provider] and functional options ([WithSystemPrompt],
// [WithDefaultModel], [WithObserver], [WithMiddleware]). The client is
// stateless: each call sends the system prompt plus one user message.
// [Client.BuildRequest] exposes the request a call would send without sending it.
//
// For typed replies use [NewStructured] or [FromBaseClient]; they attach the
// JSON schema of the output type and decode replies with [parse.ParseStructured].
// Remote failures are reported as [*RemoteCallError].
package client
