package transport

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// freePort binds an ephemeral port and returns it still held by the
// returned listener, so tests can deliberately occupy it.
func freePort(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	return ln, ln.Addr().(*net.TCPAddr).Port
}

// TestListenWithFallback_BindsFreePort verifies the straight-line case.
func TestListenWithFallback_BindsFreePort(t *testing.T) {
	probe, port := freePort(t)
	probe.Close()

	ln, bound, err := listenWithFallback(port, maxBindAttempts, testLogger())
	require.NoError(t, err)
	defer ln.Close()

	assert.Equal(t, port, bound)
}

// TestListenWithFallback_OccupiedPort_FallsBack verifies an occupied
// port makes the listener walk to the next port number.
func TestListenWithFallback_OccupiedPort_FallsBack(t *testing.T) {
	occupier, port := freePort(t)
	defer occupier.Close()

	ln, bound, err := listenWithFallback(port, maxBindAttempts, testLogger())
	require.NoError(t, err)
	defer ln.Close()

	assert.Greater(t, bound, port, "fallback must move past the occupied port")
	assert.Less(t, bound, port+maxBindAttempts)
}

// TestListenWithFallback_Exhausted verifies the walk is bounded and the
// failure is marked as a bind error.
func TestListenWithFallback_Exhausted(t *testing.T) {
	occupier, port := freePort(t)
	defer occupier.Close()

	_, _, err := listenWithFallback(port, 1, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBindFailed)
}
