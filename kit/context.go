package kit

import "context"

type contextKey string

const (
	TransportKey contextKey = "kit_transport" // "cli", "http", "mcp", "watch"
	BuildIDKey   contextKey = "kit_build_id"
	RequestIDKey contextKey = "kit_request_id"
)

// Transports a build can be triggered from.
const (
	TransportCLI   = "cli"
	TransportHTTP  = "http"
	TransportMCP   = "mcp"
	TransportWatch = "watch"
)

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return TransportCLI
}

func WithBuildID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, BuildIDKey, id)
}
func GetBuildID(ctx context.Context) string {
	v, _ := ctx.Value(BuildIDKey).(string)
	return v
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}
