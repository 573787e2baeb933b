// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a cached value stamped with the wall-clock time at which the
// fetch that produced it completed.
type Record[T any] struct {
	SavedAt time.Time
	Data    T
}

// NewRecord stamps data with now.
func NewRecord[T any](data T, now time.Time) Record[T] {
	return Record[T]{SavedAt: now, Data: data}
}

// Fresh reports whether r is still within ttl at now.
func (r Record[T]) Fresh(now time.Time, ttl time.Duration) bool {
	return IsFresh(r.SavedAt, now, ttl)
}

// Age is how long ago r was saved.
func (r Record[T]) Age(now time.Time) time.Duration {
	return now.Sub(r.SavedAt)
}

// wireRecord is the persisted shape: {"savedAt": <unix millis>, "data": ...}.
type wireRecord[T any] struct {
	SavedAt *int64 `json:"savedAt"`
	Data    T      `json:"data"`
}

func (r Record[T]) MarshalJSON() ([]byte, error) {
	ms := r.SavedAt.UnixMilli()
	return json.Marshal(wireRecord[T]{SavedAt: &ms, Data: r.Data})
}

func (r *Record[T]) UnmarshalJSON(b []byte) error {
	var w wireRecord[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.SavedAt == nil {
		return fmt.Errorf("record has no savedAt")
	}
	r.SavedAt = time.UnixMilli(*w.SavedAt)
	r.Data = w.Data
	return nil
}
