// Package redis provides a Redis-backed implementation of
// [ports.InventoryStore] so several service instances can share one
// inventory.
//
// Each pallet is stored as a JSON document under "<prefix>pallet:<id>"; the
// list "<prefix>pallets" records IDs in insertion order. Every call passes
// through a circuit breaker and is traced and measured:
//
//	Circuit Breaker → OTEL Span → Redis
//
// Construction:
//
//	client := redis.NewClient(&cfg.Store.Redis)
//	store := redis.New(client, &cfg.Store, metrics, logger)
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/pallet-inventory/internal/domain"
	"github.com/jsamuelsen11/pallet-inventory/internal/domain/pallet"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/config"
	"github.com/jsamuelsen11/pallet-inventory/internal/platform/telemetry"
	"github.com/jsamuelsen11/pallet-inventory/internal/ports"
)

// Name identifies the store in health checks, traces and breaker logs.
const Name = "redis-store"

// Compile-time interface checks.
var (
	_ ports.InventoryStore = (*Store)(nil)
	_ ports.HealthChecker  = (*Store)(nil)
)

// errTxConflict is returned when optimistic transactions keep losing races.
var errTxConflict = errors.New("too many concurrent updates")

// addScript inserts a pallet document only if its key is free and appends the
// ID to the insertion-order list in the same atomic step.
var addScript = goredis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('RPUSH', KEYS[2], ARGV[2])
return 1
`)

// Store is a Redis implementation of ports.InventoryStore.
type Store struct {
	client       goredis.UniversalClient
	prefix       string
	maxTxRetries int
	breaker      *gobreaker.CircuitBreaker[struct{}]
	metrics      *telemetry.Metrics
	logger       *slog.Logger
}

// NewClient creates a go-redis client from config. The caller owns the client
// and must close it on shutdown.
func NewClient(cfg *config.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// New creates a Store on top of client. If metrics is nil, metric recording
// is skipped.
func New(client goredis.UniversalClient, cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        Name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		// Business-rule outcomes mean Redis answered and a canceled or
		// expired caller says nothing about Redis; only transport and server
		// failures count against the breaker.
		IsSuccessful: func(err error) bool {
			return err == nil || isDomainError(err) || isCallerAbort(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	retries := cfg.Redis.MaxTxRetries
	if retries < 1 {
		retries = 1
	}

	return &Store{
		client:       client,
		prefix:       cfg.Redis.KeyPrefix,
		maxTxRetries: retries,
		breaker:      cb,
		metrics:      metrics,
		logger:       logger,
	}
}

// ListAll loads every pallet in insertion order. Each call decodes fresh
// copies, so results are independent of the store.
func (s *Store) ListAll(ctx context.Context) ([]*pallet.Pallet, error) {
	var out []*pallet.Pallet
	err := s.execute(ctx, "ListAll", func(ctx context.Context) error {
		ids, err := s.client.LRange(ctx, s.indexKey(), 0, -1).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			out = []*pallet.Pallet{}
			return nil
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.prefix + "pallet:" + id
		}
		docs, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}

		out = make([]*pallet.Pallet, 0, len(docs))
		for i, doc := range docs {
			raw, ok := doc.(string)
			if !ok {
				return fmt.Errorf("pallet key %s missing from index", keys[i])
			}
			p, err := decode([]byte(raw))
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add stores p unless its ID is already taken.
func (s *Store) Add(ctx context.Context, p *pallet.Pallet) error {
	if p == nil {
		return &domain.ValidationError{Fields: map[string]string{"pallet": domain.MsgRequired}}
	}

	data, err := json.Marshal(p.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding pallet %d: %w", p.ID(), err)
	}

	return s.execute(ctx, "Add", func(ctx context.Context) error {
		added, err := addScript.Run(ctx, s.client,
			[]string{s.palletKey(p.ID()), s.indexKey()},
			string(data), p.ID(),
		).Int()
		if err != nil {
			return err
		}
		if added == 0 {
			return domain.NewConflictError("pallet %d already exists", p.ID())
		}
		return nil
	})
}

// Update applies fn inside a WATCH/MULTI transaction on the pallet key,
// retrying when a concurrent writer changes the pallet first.
func (s *Store) Update(ctx context.Context, id int64, fn func(*pallet.Pallet) error) error {
	key := s.palletKey(id)

	return s.execute(ctx, "Update", func(ctx context.Context) error {
		txf := func(tx *goredis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, goredis.Nil) {
				return domain.NewNotFoundError("pallet %d not found", id)
			}
			if err != nil {
				return err
			}

			p, err := decode(raw)
			if err != nil {
				return err
			}
			if err := fn(p); err != nil {
				return err
			}

			data, err := json.Marshal(p.Snapshot())
			if err != nil {
				return fmt.Errorf("encoding pallet %d: %w", id, err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
				pipe.Set(ctx, key, data, 0)
				return nil
			})
			return err
		}

		for attempt := 1; attempt <= s.maxTxRetries; attempt++ {
			err := s.client.Watch(ctx, txf, key)
			if !errors.Is(err, goredis.TxFailedErr) {
				return err
			}
			s.logger.DebugContext(ctx, "optimistic transaction conflict",
				slog.Int64("pallet_id", id),
				slog.Int("attempt", attempt),
			)
		}
		return fmt.Errorf("pallet %d: %w: %w", id, domain.ErrUnavailable, errTxConflict)
	})
}

// Name returns the store identifier used by the health registry.
func (s *Store) Name() string {
	return Name
}

// HealthCheck reports the breaker state and, when the breaker is closed,
// pings Redis.
func (s *Store) HealthCheck(ctx context.Context) error {
	switch state := s.breaker.State(); state {
	case gobreaker.StateClosed:
		if err := s.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("%s: ping: %w", Name, err)
		}
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", Name)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", Name)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", Name, state)
	}
}

// execute runs op through the breaker inside a client span and records
// metrics. Infrastructure failures are wrapped with domain.ErrUnavailable;
// domain errors and caller cancellation pass through untouched.
func (s *Store) execute(ctx context.Context, operation string, op func(context.Context) error) error {
	start := time.Now()

	_, err := s.breaker.Execute(func() (struct{}, error) {
		spanCtx, span := s.startSpan(ctx, operation)
		defer span.End()

		opErr := op(spanCtx)
		finishSpan(span, opErr)
		return struct{}{}, opErr
	})

	s.recordMetrics(ctx, operation, start, err)

	if err == nil || isDomainError(err) || errors.Is(err, domain.ErrUnavailable) {
		return err
	}
	if isCallerAbort(err) {
		return fmt.Errorf("%s %s: %w", Name, operation, err)
	}
	return fmt.Errorf("%s %s: %w: %w", Name, operation, domain.ErrUnavailable, err)
}

func (s *Store) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("inventory-store")

	return tracer.Start(ctx, "redis "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("peer.service", Name),
		),
	)
}

func finishSpan(span trace.Span, err error) {
	if err == nil || isDomainError(err) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordMetrics is called outside the breaker so open-circuit rejections are
// counted too. Safe with nil metrics.
func (s *Store) recordMetrics(ctx context.Context, operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}

	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case isDomainError(err):
		result = "rejected"
	case isCallerAbort(err):
		result = "canceled"
	default:
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrOperation.String(operation),
		telemetry.AttrStoreDriver.String(config.StoreDriverRedis),
		telemetry.AttrResult.String(result),
	)

	s.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	s.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

func (s *Store) palletKey(id int64) string {
	return s.prefix + "pallet:" + strconv.FormatInt(id, 10)
}

func (s *Store) indexKey() string {
	return s.prefix + "pallets"
}

func decode(raw []byte) (*pallet.Pallet, error) {
	var snap pallet.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decoding pallet: %w", err)
	}
	return pallet.FromSnapshot(snap)
}

// isDomainError reports whether err is a business outcome rather than a
// storage failure.
func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrRuleViolation) || errors.Is(err, domain.ErrValidation)
}

// isCallerAbort reports whether err comes from the caller's context rather
// than from Redis.
func isCallerAbort(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
