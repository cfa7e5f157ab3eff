package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Watchdog periodically sweeps the store and force-resets sessions that
// issued a resolve call but never followed up with a docs call within
// the expiry window. It only ever tightens future checks: a reset forces
// a fresh resolve, it never blocks anything proactively.
type Watchdog struct {
	store    *Store
	clock    clockwork.Clock
	interval time.Duration
	expiry   time.Duration
	logger   *slog.Logger
}

// NewWatchdog creates a watchdog over store. interval is how often the
// sweep runs; expiry is how long a pending resolve may wait for its docs
// call and must exceed interval.
func NewWatchdog(store *Store, clock clockwork.Clock, interval, expiry time.Duration, logger *slog.Logger) *Watchdog {
	return &Watchdog{
		store:    store,
		clock:    clock,
		interval: interval,
		expiry:   expiry,
		logger:   logger,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			w.sweep(w.clock.Now())
		}
	}
}

func (w *Watchdog) sweep(now time.Time) {
	w.store.ForEach(func(key string, state *State) {
		if state.ExpirePending(now, w.expiry) {
			w.logger.Warn("session workflow expired, forcing fresh resolve",
				"session", key,
				"expiry", w.expiry,
			)
		}
	})
}
