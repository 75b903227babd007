package featureflags

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL bounds how stale a flag read can be on an instance that
// did not perform the write.
const DefaultCacheTTL = 30 * time.Second

// ServiceConfig holds configuration for the feature flag service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
	CacheTTL   time.Duration
	Now        func() time.Time
}

const refreshKey = "flags"

type snapshot struct {
	flags   map[string]Flag
	expires time.Time
}

// Service evaluates flags from a cached snapshot of the repository.
// Concurrent refreshes are coalesced, and a failing repository keeps the
// last snapshot (or the defaults) in service.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	ttl    time.Duration
	now    func() time.Time

	current atomic.Pointer[snapshot]
	refresh singleflight.Group
}

// NewService creates a new feature flag service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger.With().Str("component", "featureflags").Logger(),
		ttl:    ttl,
		now:    now,
	}
}

// Enabled reports whether key is on. Unknown keys are off.
func (s *Service) Enabled(ctx context.Context, key string) bool {
	return s.flags(ctx)[key].Enabled
}

// List returns every defined flag ordered by key.
func (s *Service) List(ctx context.Context) []Flag {
	flags := s.flags(ctx)
	out := make([]Flag, 0, len(flags))
	for _, f := range flags {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Set writes updates in one repository call and drops the cached snapshot.
// Any unknown key fails the whole update with ErrUnknownFlag.
func (s *Service) Set(ctx context.Context, updates map[string]bool) ([]Flag, error) {
	now := s.now().UTC()
	flags := make([]Flag, 0, len(updates))
	for key, enabled := range updates {
		if _, ok := Lookup(key); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFlag, key)
		}
		flags = append(flags, Flag{Key: key, Enabled: enabled, UpdatedAt: now})
	}

	if err := s.repo.Put(ctx, flags...); err != nil {
		return nil, fmt.Errorf("storing feature flags: %w", err)
	}
	s.Invalidate()

	for _, f := range flags {
		s.logger.Info().Str("flag", f.Key).Bool("enabled", f.Enabled).Msg("feature flag updated")
	}
	return s.List(ctx), nil
}

// Invalidate drops the cached snapshot; the next read goes to the
// repository.
func (s *Service) Invalidate() {
	s.refresh.Forget(refreshKey)
	s.current.Store(nil)
}

func (s *Service) flags(ctx context.Context) map[string]Flag {
	if snap := s.current.Load(); snap != nil && s.now().Before(snap.expires) {
		return snap.flags
	}
	v, _, _ := s.refresh.Do(refreshKey, func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx)), nil
	})
	return v.(map[string]Flag)
}

func (s *Service) load(ctx context.Context) map[string]Flag {
	stored, err := s.repo.List(ctx)
	if err != nil {
		flags := defaultsByKey()
		if prev := s.current.Load(); prev != nil {
			flags = prev.flags
		}
		s.logger.Warn().Err(err).Msg("reading feature flags failed, serving previous values")
		s.current.Store(&snapshot{flags: flags, expires: s.now().Add(s.ttl)})
		return flags
	}

	flags := defaultsByKey()
	for _, f := range stored {
		if _, ok := flags[f.Key]; ok {
			flags[f.Key] = f
		}
	}
	s.current.Store(&snapshot{flags: flags, expires: s.now().Add(s.ttl)})
	return flags
}

func defaultsByKey() map[string]Flag {
	out := make(map[string]Flag, len(definitions))
	for _, f := range Defaults() {
		out[f.Key] = f
	}
	return out
}

// SkipRepeatedStatusEffects reports whether a status side effect applies
// only on the first entry into that status.
func (s *Service) SkipRepeatedStatusEffects(ctx context.Context) bool {
	return s.Enabled(ctx, FlagSkipRepeatedStatusEffects)
}

// IsFeedPostingDisabled reports whether new feed posts are rejected.
func (s *Service) IsFeedPostingDisabled(ctx context.Context) bool {
	return s.Enabled(ctx, FlagDisableFeedPosting)
}

// IsEventPublishingEnabled reports whether domain events leave the process.
func (s *Service) IsEventPublishingEnabled(ctx context.Context) bool {
	return !s.Enabled(ctx, FlagDisableEventPublishing)
}
