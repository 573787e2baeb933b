// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package trending

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"github.com/staranto/gifctl/internal/giphy"
)

// FailurePolicy decides what a read returns when the remote fetch fails.
// Neither policy writes to a tier on failure.
type FailurePolicy int

const (
	// FailFast returns the fetch error unchanged.
	FailFast FailurePolicy = iota
	// ServeStale returns the newest expired record, if any tier has one,
	// and only fails when there is nothing at all to serve.
	ServeStale
)

// PolicyFor maps the stale_fallback setting to a policy.
func PolicyFor(staleFallback bool) FailurePolicy {
	if staleFallback {
		return ServeStale
	}
	return FailFast
}

func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case ServeStale:
		return "serve-stale"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

func (p FailurePolicy) recover(ctx context.Context, s *Service, err error) ([]giphy.Item, error) {
	if p != ServeStale {
		return nil, err
	}
	rec, ok := s.newestStale(ctx)
	if !ok {
		return nil, err
	}
	log.WithError(err).Warnf("%s: refresh failed, serving data from %s", s.key, rec.SavedAt.Format("2006-01-02 15:04:05"))
	return rec.Data, nil
}
