// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apex/log"
)

// Slot is a persistent key/value store of raw bytes that outlives the
// process. A missing key is (nil, false, nil), never an error.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// DecodeError reports a durable payload that could not be decoded. The read
// path absorbs it and treats the slot as a miss.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode cached %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Durable stores Records as JSON in a Slot.
type Durable[T any] struct {
	slot Slot
}

// NewDurable wraps slot. A nil slot behaves like NopSlot.
func NewDurable[T any](slot Slot) *Durable[T] {
	if slot == nil {
		slot = NopSlot{}
	}
	return &Durable[T]{slot: slot}
}

// Get returns the record under key. Absent, unreadable and undecodable slots
// are all reported as a miss.
func (d *Durable[T]) Get(ctx context.Context, key string) (Record[T], bool) {
	rec, ok, err := d.Load(ctx, key)
	if err != nil {
		var derr *DecodeError
		if errors.As(err, &derr) {
			log.WithError(err).Debugf("ignoring corrupt cache entry %s", key)
		} else {
			log.WithError(err).Warnf("failed to read cache entry %s", key)
		}
		return Record[T]{}, false
	}
	return rec, ok
}

// Load is Get with the failure reason kept.
func (d *Durable[T]) Load(ctx context.Context, key string) (Record[T], bool, error) {
	raw, ok, err := d.slot.Get(ctx, key)
	if err != nil {
		return Record[T]{}, false, fmt.Errorf("failed to read slot: %w", err)
	}
	if !ok {
		return Record[T]{}, false, nil
	}

	var rec Record[T]
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record[T]{}, false, &DecodeError{Key: key, Err: err}
	}
	return rec, true, nil
}

// Set writes rec under key, replacing whatever was there.
func (d *Durable[T]) Set(ctx context.Context, key string, rec Record[T]) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := d.slot.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// NopSlot never holds anything. It backs the "none" store.
type NopSlot struct{}

func (NopSlot) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopSlot) Set(context.Context, string, []byte) error { return nil }
