// CLAUDE:SUMMARY Endpoint/Middleware types shared by the MCP tool adapter and the preview server.
// Package kit holds the transport-neutral endpoint shape used to expose
// bundler operations over MCP and HTTP.
package kit

import "context"

// Endpoint is a transport-neutral operation.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware decorates an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares; the first one is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// WithTransportTag returns a Middleware that tags the context with transport.
func WithTransportTag(transport string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			return next(WithTransport(ctx, transport), req)
		}
	}
}

// WithBuildIDTag returns a Middleware that assigns a build ID from newID
// unless the context already carries one.
func WithBuildIDTag(newID func() string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			if GetBuildID(ctx) == "" {
				ctx = WithBuildID(ctx, newID())
			}
			return next(ctx, req)
		}
	}
}
