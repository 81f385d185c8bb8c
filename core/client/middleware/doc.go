// Package middleware provides ready-made middlewares for the client.
// Each constructor returns a [client.MiddlewareConfig] to pass to
// [client.WithMiddleware].
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// Middlewares execute outermost-first: the first entry given to
// WithMiddleware sees the request first and the response last.
// Calls are never retried and carry no timeout of their own; deadlines come
// from the caller's context or the provider's http.Client.
package middleware
