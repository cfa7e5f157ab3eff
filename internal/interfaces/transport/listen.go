package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"syscall"
)

// maxBindAttempts bounds the port-fallback walk. Trading a little retry
// latency for resilience to port contention in multi-instance
// deployments; anything other than "address in use" fails immediately.
const maxBindAttempts = 10

// ErrBindFailed marks unrecoverable listener errors so the command layer
// can exit with a distinct status.
var ErrBindFailed = errors.New("failed to bind server port")

// listenWithFallback binds a TCP listener on port, walking up to the
// next port number when the current one is already in use. It returns
// the listener and the port actually bound.
func listenWithFallback(port, attempts int, logger *slog.Logger) (net.Listener, int, error) {
	for i := 0; i < attempts; i++ {
		candidate := port + i
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", candidate))
		if err == nil {
			return ln, candidate, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, fmt.Errorf("%w: %v", ErrBindFailed, err)
		}
		logger.Warn("port already in use, trying next",
			"port", candidate,
			"next", candidate+1,
		)
	}
	return nil, 0, fmt.Errorf("%w: ports %d-%d all in use", ErrBindFailed, port, port+attempts-1)
}
