// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package trending

import (
	"context"
	"time"
)

// TierStatus describes what one tier currently holds.
type TierStatus struct {
	Present bool
	SavedAt time.Time
	Age     time.Duration
	Fresh   bool
	Count   int
	Err     error
}

// Status is a snapshot of both tiers and the coordinator.
type Status struct {
	Key     string
	TTL     time.Duration
	Policy  FailurePolicy
	Pending bool
	Memory  TierStatus
	Durable TierStatus
}

// Status reports the state of each tier without fetching anything.
// Unlike the read path it keeps the reason a durable record was unusable.
func (s *Service) Status(ctx context.Context) Status {
	now := s.now()
	st := Status{
		Key:     s.key,
		TTL:     s.ttl,
		Policy:  s.policy,
		Pending: s.flight.Pending(s.key),
	}

	if rec, ok := s.memory.Get(); ok {
		st.Memory = TierStatus{
			Present: true,
			SavedAt: rec.SavedAt,
			Age:     rec.Age(now),
			Fresh:   rec.Fresh(now, s.ttl),
			Count:   len(rec.Data),
		}
	}

	rec, ok, err := s.durable.Load(ctx, s.key)
	st.Durable.Err = err
	if ok {
		st.Durable = TierStatus{
			Present: true,
			SavedAt: rec.SavedAt,
			Age:     rec.Age(now),
			Fresh:   rec.Fresh(now, s.ttl),
			Count:   len(rec.Data),
		}
	}
	return st
}
