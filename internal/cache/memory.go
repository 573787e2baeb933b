// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import "sync"

// Memory is a single in-process slot holding the last known record. It is
// lost when the process exits. Callers must not mutate returned data.
type Memory[T any] struct {
	mu  sync.RWMutex
	rec Record[T]
	ok  bool
}

// NewMemory returns an empty slot.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{}
}

// Get returns the held record, if any.
func (m *Memory[T]) Get() (Record[T], bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec, m.ok
}

// Set replaces the held record.
func (m *Memory[T]) Set(rec Record[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.ok = true
}
