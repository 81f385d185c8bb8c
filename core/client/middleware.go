package client

import (
	"context"

	"github.com/leofalp/capitalagent/providers/ai"
)

// SendFunc sends a chat request and returns the completed response. It is the
// unit threaded through the middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc in the chain.
type Middleware func(next SendFunc) SendFunc

// MiddlewareConfig is one entry of the middleware chain. Send is required;
// a nil Send makes [New] fail.
type MiddlewareConfig struct {
	Send Middleware
}

// buildSendChain wraps the provider call with middlewares so that
// middlewares[0] is the outermost, i.e. the first to see a request.
func buildSendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}

	return chain
}
