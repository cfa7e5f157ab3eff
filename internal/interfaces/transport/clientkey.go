package transport

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// clientKeyCtx keys the derived client identity injected into request
// contexts by the HTTP transports.
type clientKeyCtx struct{}

// withClientKey derives the client key for an HTTP request and stores it
// in the context for the tool handlers. The first address in a forwarded
// header wins so deployments behind a proxy still see distinct clients.
func withClientKey(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, clientKeyCtx{}, deriveClientKey(r))
}

func deriveClientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if key := strings.TrimSpace(first); key != "" {
			return key
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func clientKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(clientKeyCtx{}).(string)
	return key, ok
}
