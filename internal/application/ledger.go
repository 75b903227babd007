package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aidlink/aidlink/internal/resilience"
)

// TransitionLedger records which (application, status) side effects have
// already been applied.
type TransitionLedger interface {
	// Claim marks the pair as applied. It returns false if it already was.
	Claim(ctx context.Context, applicationID int64, status Status) (bool, error)

	// Release forgets the pair so a later Claim succeeds again.
	Release(ctx context.Context, applicationID int64, status Status) error
}

type transitionKey struct {
	applicationID int64
	status        Status
}

// MemoryTransitionLedger is an in-process TransitionLedger.
type MemoryTransitionLedger struct {
	mu      sync.Mutex
	claimed map[transitionKey]struct{}
}

// NewMemoryTransitionLedger creates an empty ledger.
func NewMemoryTransitionLedger() *MemoryTransitionLedger {
	return &MemoryTransitionLedger{claimed: make(map[transitionKey]struct{})}
}

// Claim implements TransitionLedger.
func (l *MemoryTransitionLedger) Claim(_ context.Context, applicationID int64, status Status) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := transitionKey{applicationID, status}
	if _, ok := l.claimed[k]; ok {
		return false, nil
	}
	l.claimed[k] = struct{}{}
	return true, nil
}

// Release implements TransitionLedger.
func (l *MemoryTransitionLedger) Release(_ context.Context, applicationID int64, status Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.claimed, transitionKey{applicationID, status})
	return nil
}

const transitionKeyPrefix = "aidlink:transition:"

// RedisTransitionLedger is a TransitionLedger shared across instances through
// Redis. Keys are written with SETNX.
type RedisTransitionLedger struct {
	client    *redis.Client
	guard     *resilience.Guard
	ttl       time.Duration
	namespace string
}

// RedisLedgerOption configures a RedisTransitionLedger.
type RedisLedgerOption func(*RedisTransitionLedger)

// WithTTL expires claims after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisLedgerOption {
	return func(l *RedisTransitionLedger) { l.ttl = ttl }
}

// WithNamespace scopes every key under ns, so claims from one application
// store never match ids of another. Stores whose ids restart on boot, such
// as the in-memory one, need a fresh namespace per boot.
func WithNamespace(ns string) RedisLedgerOption {
	return func(l *RedisTransitionLedger) { l.namespace = ns }
}

// WithGuard routes every Redis call through guard.
func WithGuard(guard *resilience.Guard) RedisLedgerOption {
	return func(l *RedisTransitionLedger) { l.guard = guard }
}

// NewRedisTransitionLedger creates a Redis-backed ledger.
func NewRedisTransitionLedger(client *redis.Client, opts ...RedisLedgerOption) *RedisTransitionLedger {
	l := &RedisTransitionLedger{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.guard == nil {
		l.guard = resilience.NewGuard(resilience.DefaultGuardConfig("redis"))
	}
	return l
}

// Claim implements TransitionLedger.
func (l *RedisTransitionLedger) Claim(ctx context.Context, applicationID int64, status Status) (bool, error) {
	var claimed bool
	err := l.guard.Do(ctx, func(ctx context.Context) error {
		ok, err := l.client.SetNX(ctx, l.key(applicationID, status), "1", l.ttl).Result()
		if err != nil {
			return err
		}
		claimed = ok
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("claiming transition: %w", err)
	}
	return claimed, nil
}

// Release implements TransitionLedger.
func (l *RedisTransitionLedger) Release(ctx context.Context, applicationID int64, status Status) error {
	err := l.guard.Do(ctx, func(ctx context.Context) error {
		return l.client.Del(ctx, l.key(applicationID, status)).Err()
	})
	if err != nil {
		return fmt.Errorf("releasing transition: %w", err)
	}
	return nil
}

func (l *RedisTransitionLedger) key(applicationID int64, status Status) string {
	if l.namespace == "" {
		return fmt.Sprintf("%s%d:%s", transitionKeyPrefix, applicationID, status)
	}
	return fmt.Sprintf("%s%s:%d:%s", transitionKeyPrefix, l.namespace, applicationID, status)
}

var (
	_ TransitionLedger = (*MemoryTransitionLedger)(nil)
	_ TransitionLedger = (*RedisTransitionLedger)(nil)
)
