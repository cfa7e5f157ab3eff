package workflow

import (
	"strings"

	"github.com/jonboulle/clockwork"

	"ctxdocs.ai/mcp/internal/core/session"
)

// DocsGuidance is returned when a docs call arrives before any resolve
// call in the same session. It is advisory text, not a protocol error:
// the gate exists to shape client tool-use behaviour, not to protect an
// exclusive resource.
const DocsGuidance = "Please call 'resolve-library-id' first to look up the library you need, " +
	"then call 'get-library-docs' with the Context7-compatible library ID it returns. " +
	"If you already know the exact ID (in '/org/project' or '/org/project/version' format), " +
	"pass it explicitly and no prior resolve call is required."

// Gate enforces the two-step workflow per session: resolve-library-id
// must precede get-library-docs unless the caller supplies an explicitly
// fully-qualified library ID.
type Gate struct {
	store *session.Store
	clock clockwork.Clock
}

// NewGate creates a gate over store using clock for resolve timestamps.
func NewGate(store *session.Store, clock clockwork.Clock) *Gate {
	return &Gate{store: store, clock: clock}
}

// AdmitResolve records a resolve call for the session. Resolve is always
// admitted; it re-arms the docs step and refreshes the resolve timestamp.
func (g *Gate) AdmitResolve(key string) {
	g.store.GetOrCreate(key).MarkResolve(g.clock.Now())
}

// AdmitDocs decides whether a docs call may proceed for the session.
// When rejected, the returned guidance should be delivered to the client
// verbatim and the backend must not be consulted. Admission marks the
// docs step complete up front; resolving once enables any number of
// subsequent docs calls until the watchdog expires the session.
func (g *Gate) AdmitDocs(key, libraryID string) (bool, string) {
	state := g.store.GetOrCreate(key)

	// A path-formatted ID ("/org/project[/version]") is self-sufficient:
	// the client already knows what it wants.
	if strings.HasPrefix(libraryID, "/") {
		state.MarkDocs()
		return true, ""
	}

	if !state.ResolveCalled() {
		return false, DocsGuidance
	}

	state.MarkDocs()
	return true, ""
}
