// Package health provides a thread-safe health check registry for tracking
// the health of backing services such as the inventory store. The registry is
// used by the readiness endpoint to determine whether the service can accept
// traffic.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// DefaultCheckTimeout bounds a single checker when no WithCheckTimeout option
// is given.
const DefaultCheckTimeout = 2 * time.Second

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout sets the deadline each checker gets per CheckAll call.
// Non-positive values are ignored.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Registry is a thread-safe implementation of [ports.HealthRegistry].
// Checkers are keyed by name: registering a second checker under an existing
// name replaces the first.
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]ports.HealthChecker
	timeout  time.Duration
}

// New creates an empty health check registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		checkers: make(map[string]ports.HealthChecker),
		timeout:  DefaultCheckTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// CheckAll runs every registered check concurrently, each under its own
// timeout, and returns results keyed by checker name. Nil values indicate
// healthy components. A check that overruns its deadline reports
// context.DeadlineExceeded through whatever error it returns.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	checkers := make(map[string]ports.HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	timeout := r.timeout
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(checkers))
	)
	for name, c := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			err := c.HealthCheck(checkCtx)

			mu.Lock()
			results[name] = err
			mu.Unlock()
		}()
	}
	wg.Wait()

	return results
}
