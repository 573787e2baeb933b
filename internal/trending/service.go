// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package trending

//go:generate mockgen -source=service.go -destination=mocks/source.go -package=mocks

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/staranto/gifctl/internal/cache"
	"github.com/staranto/gifctl/internal/config"
	"github.com/staranto/gifctl/internal/giphy"
)

// Key is the cache key of the trending list in every tier.
const Key = "trending"

// Source performs the expensive remote call.
type Source interface {
	Trending(ctx context.Context) ([]giphy.Item, error)
}

// Service is the read path for the trending list.
type Service struct {
	source  Source
	memory  *cache.Memory[[]giphy.Item]
	durable *cache.Durable[[]giphy.Item]
	flight  *cache.Coordinator[[]giphy.Item]
	key     string
	ttl     time.Duration
	policy  FailurePolicy
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTTL sets how long a record stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithPolicy sets what happens when a refresh fails.
func WithPolicy(p FailurePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMemory shares an existing memory tier, e.g. between services built
// over the same process lifetime.
func WithMemory(m *cache.Memory[[]giphy.Item]) Option {
	return func(s *Service) { s.memory = m }
}

// NewService builds a Service over source with slot as its durable tier.
// Defaults: ten minute TTL, FailFast.
func NewService(source Source, slot cache.Slot, opts ...Option) *Service {
	s := &Service{
		source:  source,
		memory:  cache.NewMemory[[]giphy.Item](),
		durable: cache.NewDurable[[]giphy.Item](slot),
		flight:  cache.NewCoordinator[[]giphy.Item](),
		key:     Key,
		ttl:     config.DefaultTTL,
		policy:  FailFast,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trending returns the trending list. Within the TTL repeated calls are
// answered from a cache tier without touching the network. When both tiers
// are missing or stale exactly one remote fetch runs no matter how many
// callers are waiting, and they all get its result or its error.
func (s *Service) Trending(ctx context.Context) ([]giphy.Item, error) {
	now := s.now()

	if rec, ok := s.memory.Get(); ok && rec.Fresh(now, s.ttl) {
		log.Debugf("%s: memory hit, age %s", s.key, rec.Age(now))
		return rec.Data, nil
	}

	if rec, ok := s.durable.Get(ctx, s.key); ok && rec.Fresh(now, s.ttl) {
		log.Debugf("%s: durable hit, age %s", s.key, rec.Age(now))
		s.memory.Set(rec)
		return rec.Data, nil
	}

	items, err := s.fetch(ctx, false)
	if err != nil {
		return s.policy.recover(ctx, s, err)
	}
	return items, nil
}

// Refresh skips both tiers and runs a coordinated fetch, writing the result
// through. It shares an already pending fetch rather than starting another.
func (s *Service) Refresh(ctx context.Context) ([]giphy.Item, error) {
	return s.fetch(ctx, true)
}

// fetch runs the coordinated remote call. Unless force is set the memory
// tier is checked again once the caller leads: a fetch that settled while
// this caller was still reading the tiers has already written it.
func (s *Service) fetch(ctx context.Context, force bool) ([]giphy.Item, error) {
	// The first caller's cancellation must not fail everyone attached.
	fctx := context.WithoutCancel(ctx)

	items, shared, err := s.flight.Do(s.key, func() ([]giphy.Item, error) {
		if !force {
			now := s.now()
			if rec, ok := s.memory.Get(); ok && rec.Fresh(now, s.ttl) {
				log.Debugf("%s: filled by an earlier fetch, age %s", s.key, rec.Age(now))
				return rec.Data, nil
			}
		}

		log.Debugf("%s: fetching", s.key)
		items, err := s.source.Trending(fctx)
		if err != nil {
			return nil, err
		}

		rec := cache.NewRecord(items, s.now())
		s.memory.Set(rec)
		if err := s.durable.Set(fctx, s.key, rec); err != nil {
			log.WithError(err).Warnf("%s: failed to write durable cache", s.key)
		}
		return items, nil
	})
	if shared {
		log.Debugf("%s: shared a pending fetch", s.key)
	}
	return items, err
}

// newestStale returns the most recent record held by either tier regardless
// of freshness.
func (s *Service) newestStale(ctx context.Context) (cache.Record[[]giphy.Item], bool) {
	best, ok := s.memory.Get()
	if rec, dok := s.durable.Get(ctx, s.key); dok && (!ok || rec.SavedAt.After(best.SavedAt)) {
		best, ok = rec, true
	}
	return best, ok
}
