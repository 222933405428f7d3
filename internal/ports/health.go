package ports

import "context"

// HealthChecker is implemented by backing services the readiness endpoint
// depends on, such as the Redis inventory store.
type HealthChecker interface {
	// Name identifies the component in readiness output (e.g. "redis-store").
	Name() string

	// HealthCheck returns nil when the component can serve traffic. It must
	// honor ctx; the registry bounds every call with a deadline.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry holds the checkers consulted by the readiness endpoint.
type HealthRegistry interface {
	// Register adds a checker, replacing any earlier one with the same name.
	Register(checker HealthChecker)

	// CheckAll runs every registered check and returns the results keyed by
	// checker name. Nil values indicate healthy components.
	CheckAll(ctx context.Context) map[string]error
}
