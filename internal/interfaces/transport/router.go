// Package transport binds the MCP server to one of three client-facing
// transports: a single stdio pipe, streamable HTTP, or SSE channels.
// It owns session-key derivation, the HTTP router, and listener
// lifecycle including port fallback.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	"ctxdocs.ai/mcp/internal/config"
	"ctxdocs.ai/mcp/internal/core/session"
	"ctxdocs.ai/mcp/internal/interfaces/mcptools"
)

// Router accepts connections for the configured transport and wires each
// logical client to its isolated session state.
type Router struct {
	cfg    *config.Config
	store  *session.Store
	deps   mcptools.Deps
	logger *slog.Logger

	// boundPort reports the port actually bound after fallback, for
	// logging and tests. Zero until a listener exists.
	boundPort int
}

// NewRouter creates a router. deps.ClientKey is overwritten per
// transport since key derivation depends on the binding.
func NewRouter(cfg *config.Config, store *session.Store, deps mcptools.Deps, logger *slog.Logger) *Router {
	return &Router{
		cfg:    cfg,
		store:  store,
		deps:   deps,
		logger: logger,
	}
}

// Run serves the configured transport until ctx is cancelled. Unknown
// transport kinds are rejected by config validation before Run.
func (rt *Router) Run(ctx context.Context) error {
	switch rt.cfg.Transport {
	case config.TransportStdio:
		return rt.runStdio(ctx)
	case config.TransportHTTP:
		return rt.runHTTP(ctx)
	case config.TransportSSE:
		return rt.runSSE(ctx)
	default:
		return fmt.Errorf("unknown transport %q", rt.cfg.Transport)
	}
}

// runStdio serves exactly one protocol handler for the process lifetime,
// keyed by the fixed default session key.
func (rt *Router) runStdio(ctx context.Context) error {
	deps := rt.deps
	deps.ClientKey = func(context.Context) string { return session.DefaultKey }

	srv := mcptools.NewServer(deps)
	defer rt.store.Delete(session.DefaultKey)

	rt.logger.Info("serving on stdio")
	stdio := server.NewStdioServer(srv)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

// runHTTP serves the streamable HTTP transport. The protocol layer is
// stateless per request; gating state persists across requests because
// the session key is derived from the client address.
func (rt *Router) runHTTP(ctx context.Context) error {
	deps := rt.deps
	deps.ClientKey = func(ctx context.Context) string {
		if key, ok := clientKeyFromContext(ctx); ok {
			return key
		}
		return session.DefaultKey
	}

	srv := mcptools.NewServer(deps)
	streamable := server.NewStreamableHTTPServer(srv,
		server.WithHTTPContextFunc(withClientKey),
		server.WithStateLess(true),
	)

	router := rt.newHTTPRouter()
	router.Handle("/mcp", streamable)

	return rt.serve(ctx, router)
}

// runSSE serves the SSE transport. GET /sse opens a channel under a
// server-issued session id; POST /messages routes by that id. Session
// state is keyed by the protocol session id, and the register/unregister
// hooks tie its lifetime to the channel's.
func (rt *Router) runSSE(ctx context.Context) error {
	return rt.serve(ctx, rt.buildSSE())
}

// buildSSE wires the SSE endpoints onto the shared HTTP router.
func (rt *Router) buildSSE() chi.Router {
	deps := rt.deps
	deps.ClientKey = func(ctx context.Context) string {
		if cs := server.ClientSessionFromContext(ctx); cs != nil {
			return cs.SessionID()
		}
		return session.DefaultKey
	}

	hooks := &server.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, cs server.ClientSession) {
		rt.store.GetOrCreate(cs.SessionID())
		rt.logger.Debug("sse channel opened", "session", cs.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, cs server.ClientSession) {
		rt.store.Delete(cs.SessionID())
		rt.logger.Debug("sse channel closed, session deleted", "session", cs.SessionID())
	})

	srv := mcptools.NewServer(deps, server.WithHooks(hooks))
	sse := server.NewSSEServer(srv,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/messages"),
	)

	router := rt.newHTTPRouter()
	router.Handle("/sse", sse.SSEHandler())
	router.Handle("/messages", sse.MessageHandler())

	return router
}

// newHTTPRouter builds the shared HTTP surface: permissive CORS on every
// response (OPTIONS short-circuits with 200) and the /ping liveness
// probe.
func (rt *Router) newHTTPRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"*"},
	}))
	router.Use(recoverer(rt.logger))

	router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	return router
}

// serve binds the configured port with fallback and runs the HTTP
// server until ctx is cancelled.
func (rt *Router) serve(ctx context.Context, handler http.Handler) error {
	ln, port, err := listenWithFallback(rt.cfg.Port, maxBindAttempts, rt.logger)
	if err != nil {
		return err
	}
	rt.boundPort = port

	httpSrv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	rt.logger.Info("listening",
		"transport", rt.cfg.Transport,
		"port", port,
	)

	if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// BoundPort returns the port the HTTP listener actually bound, or zero
// before binding.
func (rt *Router) BoundPort() int {
	return rt.boundPort
}

// recoverer catches panics that escape a handler: 500 if nothing was
// sent yet, logged either way, process keeps serving. If headers are
// already out there is nothing useful to write; the response just ends
// with the handler.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("request handler panicked",
						"path", r.URL.Path,
						"panic", rec,
					)
					if ww.Status() == 0 && ww.BytesWritten() == 0 {
						ww.WriteHeader(http.StatusInternalServerError)
					}
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
