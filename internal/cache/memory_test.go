// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory[[]item]()

	_, ok := m.Get()
	assert.False(t, ok, "new slot is empty")

	first := NewRecord([]item{{ID: "1"}}, time.Now())
	m.Set(first)
	got, ok := m.Get()
	assert.True(t, ok)
	assert.Equal(t, first, got)

	second := NewRecord([]item{{ID: "2"}}, time.Now())
	m.Set(second)
	got, _ = m.Get()
	assert.Equal(t, "2", got.Data[0].ID, "set replaces, never merges")
	assert.Len(t, got.Data, 1)
}

func TestMemory_Concurrent(t *testing.T) {
	m := NewMemory[int]()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Set(NewRecord(i, time.Now()))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = m.Get()
		}()
	}
	wg.Wait()

	_, ok := m.Get()
	assert.True(t, ok)
}
