// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package trending

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/staranto/gifctl/internal/cache"
	"github.com/staranto/gifctl/internal/giphy"
	"github.com/staranto/gifctl/internal/trending/mocks"
)

// countingSlot is an in-memory cache.Slot that counts its reads and writes.
type countingSlot struct {
	mu     sync.Mutex
	data   map[string][]byte
	gets   int
	sets   int
	setErr error
}

func newCountingSlot() *countingSlot {
	return &countingSlot{data: map[string][]byte{}}
}

func (s *countingSlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	b, ok := s.data[key]
	return b, ok, nil
}

func (s *countingSlot) Set(_ context.Context, key string, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = append([]byte(nil), b...)
	return nil
}

func (s *countingSlot) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.sets
}

func (s *countingSlot) raw(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data[key]...)
}

func (s *countingSlot) put(t *testing.T, key string, rec cache.Record[[]giphy.Item]) {
	t.Helper()
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = b
}

var (
	base     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldItems = []giphy.Item{{ID: "old", Title: "Old", ImageURL: "https://media.giphy.com/old.gif"}}
	newItems = []giphy.Item{
		{ID: "a", Title: "A", ImageURL: "https://media.giphy.com/a.gif"},
		{ID: "b", Title: "B", ImageURL: "https://media.giphy.com/b.gif"},
	}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTrending_MemoryHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	slot := newCountingSlot()

	svc := NewService(src, slot, WithTTL(time.Minute), WithClock(fixedClock(base)))
	svc.memory.Set(cache.NewRecord(oldItems, base.Add(-30*time.Second)))

	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oldItems, got)

	gets, sets := slot.counts()
	assert.Zero(t, gets, "a fresh memory record must not touch the durable tier")
	assert.Zero(t, sets)
}

func TestTrending_DurablePromotion(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	slot := newCountingSlot()
	slot.put(t, Key, cache.NewRecord(oldItems, base.Add(-time.Minute)))

	svc := NewService(src, slot, WithTTL(5*time.Minute), WithClock(fixedClock(base)))

	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oldItems, got)

	rec, ok := svc.memory.Get()
	require.True(t, ok)
	assert.True(t, rec.SavedAt.Equal(base.Add(-time.Minute)), "promotion keeps the original savedAt")

	gets, _ := slot.counts()
	require.Equal(t, 1, gets)

	got, err = svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, oldItems, got)

	gets, sets := slot.counts()
	assert.Equal(t, 1, gets, "second read is served by memory")
	assert.Zero(t, sets)
}

func TestTrending_BoundaryIsStale(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newCountingSlot()
	svc := NewService(src, slot, WithTTL(time.Minute), WithClock(fixedClock(base)))
	svc.memory.Set(cache.NewRecord(oldItems, base.Add(-time.Minute)))

	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)
}

func TestTrending_WriteThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newCountingSlot()
	svc := NewService(src, slot, WithTTL(time.Minute))

	before := time.Now()
	got, err := svc.Trending(context.Background())
	after := time.Now()
	require.NoError(t, err)
	assert.Equal(t, newItems, got)

	mem, ok := svc.memory.Get()
	require.True(t, ok)
	assert.Equal(t, newItems, mem.Data)
	assert.False(t, mem.SavedAt.Before(before.Truncate(time.Millisecond)))
	assert.False(t, mem.SavedAt.After(after))

	var dur cache.Record[[]giphy.Item]
	require.NoError(t, json.Unmarshal(slot.raw(Key), &dur))
	assert.Equal(t, newItems, dur.Data)
	assert.Equal(t, mem.SavedAt.UnixMilli(), dur.SavedAt.UnixMilli())
}

func TestTrending_SingleFlight(t *testing.T) {
	const callers = 8

	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	release := make(chan struct{})
	src.EXPECT().Trending(gomock.Any()).DoAndReturn(func(context.Context) ([]giphy.Item, error) {
		<-release
		return newItems, nil
	}).Times(1)

	svc := NewService(src, newCountingSlot(), WithTTL(time.Minute))

	var wg sync.WaitGroup
	results := make([][]giphy.Item, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Trending(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool {
		return svc.flight.Waiting(Key) == callers
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, newItems, results[i])
	}
	assert.False(t, svc.flight.Pending(Key))
}

// gatedSlot holds the first Get after reading, so that caller sees the
// slot as it was before any fetch.
type gatedSlot struct {
	*countingSlot
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedSlot() *gatedSlot {
	return &gatedSlot{
		countingSlot: newCountingSlot(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (s *gatedSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok, err := s.countingSlot.Get(ctx, key)
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return b, ok, err
}

func TestTrending_LateCallerUsesSettledFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newGatedSlot()
	svc := NewService(src, slot, WithTTL(time.Minute))

	// The late caller misses memory and stalls in a slow durable read.
	type result struct {
		items []giphy.Item
		err   error
	}
	late := make(chan result, 1)
	go func() {
		items, err := svc.Trending(context.Background())
		late <- result{items, err}
	}()
	<-slot.entered

	// Meanwhile another caller fetches and writes both tiers.
	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)
	assert.False(t, svc.flight.Pending(Key))

	close(slot.release)
	r := <-late
	require.NoError(t, r.err)
	assert.Equal(t, newItems, r.items)

	_, sets := slot.counts()
	assert.Equal(t, 1, sets)
}

func TestTrending_SharedFailure(t *testing.T) {
	const callers = 4

	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	boom := &giphy.ApiError{Status: 500, Message: "Internal Server Error"}
	release := make(chan struct{})
	src.EXPECT().Trending(gomock.Any()).DoAndReturn(func(context.Context) ([]giphy.Item, error) {
		<-release
		return nil, boom
	}).Times(1)

	svc := NewService(src, newCountingSlot(), WithTTL(time.Minute))

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Trending(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool {
		return svc.flight.Waiting(Key) == callers
	}, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		var apiErr *giphy.ApiError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Status)
	}
}

func TestTrending_FailureLeavesTiersUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	boom := &giphy.TransportError{URL: "https://api.giphy.com/v1/gifs/trending", Err: errors.New("connection refused")}
	src.EXPECT().Trending(gomock.Any()).Return(nil, boom).Times(1)

	slot := newCountingSlot()
	stale := cache.NewRecord(oldItems, base.Add(-time.Hour))
	slot.put(t, Key, stale)
	before := slot.raw(Key)

	svc := NewService(src, slot, WithTTL(time.Minute), WithClock(fixedClock(base)))
	svc.memory.Set(stale)

	got, err := svc.Trending(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got, "stale data is not served under FailFast")

	assert.Equal(t, before, slot.raw(Key))
	_, sets := slot.counts()
	assert.Zero(t, sets)

	mem, ok := svc.memory.Get()
	require.True(t, ok)
	assert.Equal(t, stale.Data, mem.Data)
	assert.True(t, stale.SavedAt.Equal(mem.SavedAt))
}

func TestTrending_ServeStale(t *testing.T) {
	boom := errors.New("unreachable")

	tests := []struct {
		name    string
		memory  *cache.Record[[]giphy.Item]
		durable *cache.Record[[]giphy.Item]
		want    []giphy.Item
		wantErr bool
	}{
		{
			name:    "nothing cached",
			wantErr: true,
		},
		{
			name:   "memory only",
			memory: &cache.Record[[]giphy.Item]{SavedAt: base.Add(-time.Hour), Data: oldItems},
			want:   oldItems,
		},
		{
			name:    "durable newer than memory",
			memory:  &cache.Record[[]giphy.Item]{SavedAt: base.Add(-2 * time.Hour), Data: oldItems},
			durable: &cache.Record[[]giphy.Item]{SavedAt: base.Add(-time.Hour), Data: newItems},
			want:    newItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := mocks.NewMockSource(ctrl)
			src.EXPECT().Trending(gomock.Any()).Return(nil, boom).Times(1)

			slot := newCountingSlot()
			if tt.durable != nil {
				slot.put(t, Key, *tt.durable)
			}
			svc := NewService(src, slot,
				WithTTL(time.Minute),
				WithClock(fixedClock(base)),
				WithPolicy(ServeStale))
			if tt.memory != nil {
				svc.memory.Set(*tt.memory)
			}

			got, err := svc.Trending(context.Background())
			if tt.wantErr {
				require.ErrorIs(t, err, boom)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			_, sets := slot.counts()
			assert.Zero(t, sets)
		})
	}
}

func TestTrending_CorruptDurableFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newCountingSlot()
	slot.data[Key] = []byte(`{"savedAt":"yesterday","data":[`)

	svc := NewService(src, slot, WithTTL(time.Minute))
	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)

	var dur cache.Record[[]giphy.Item]
	require.NoError(t, json.Unmarshal(slot.raw(Key), &dur), "corrupt entry is overwritten")
	assert.Equal(t, newItems, dur.Data)
}

func TestTrending_DurableWriteFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newCountingSlot()
	slot.setErr = errors.New("disk full")

	svc := NewService(src, slot, WithTTL(time.Minute))
	got, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)

	// Memory still answers the next read.
	got, err = svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)
}

func TestTrending_CallerCancelDoesNotCancelFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]giphy.Item, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return newItems, nil
	}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(src, newCountingSlot(), WithTTL(time.Minute))
	got, err := svc.Trending(ctx)
	require.NoError(t, err)
	assert.Equal(t, newItems, got)
}

func TestRefresh_BypassesFreshTiers(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Trending(gomock.Any()).Return(newItems, nil).Times(1)

	slot := newCountingSlot()
	svc := NewService(src, slot, WithTTL(time.Hour), WithClock(fixedClock(base)))
	svc.memory.Set(cache.NewRecord(oldItems, base))

	got, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, newItems, got)

	mem, _ := svc.memory.Get()
	assert.Equal(t, newItems, mem.Data)
}

func TestStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)

	slot := newCountingSlot()
	slot.put(t, Key, cache.NewRecord(newItems, base.Add(-2*time.Minute)))

	svc := NewService(src, slot, WithTTL(time.Minute), WithClock(fixedClock(base)), WithPolicy(ServeStale))
	svc.memory.Set(cache.NewRecord(oldItems, base.Add(-30*time.Second)))

	st := svc.Status(context.Background())
	assert.Equal(t, Key, st.Key)
	assert.Equal(t, time.Minute, st.TTL)
	assert.Equal(t, ServeStale, st.Policy)
	assert.False(t, st.Pending)

	assert.True(t, st.Memory.Present)
	assert.True(t, st.Memory.Fresh)
	assert.Equal(t, 1, st.Memory.Count)
	assert.Equal(t, 30*time.Second, st.Memory.Age)

	assert.True(t, st.Durable.Present)
	assert.False(t, st.Durable.Fresh)
	assert.Equal(t, 2, st.Durable.Count)
	assert.NoError(t, st.Durable.Err)
}

func TestStatus_CorruptDurable(t *testing.T) {
	ctrl := gomock.NewController(t)
	slot := newCountingSlot()
	slot.data[Key] = []byte("not json")

	svc := NewService(mocks.NewMockSource(ctrl), slot)
	st := svc.Status(context.Background())

	assert.False(t, st.Durable.Present)
	var decErr *cache.DecodeError
	assert.ErrorAs(t, st.Durable.Err, &decErr)
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, FailFast, PolicyFor(false))
	assert.Equal(t, ServeStale, PolicyFor(true))
	assert.Equal(t, "serve-stale", ServeStale.String())
	assert.Equal(t, "FailurePolicy(7)", FailurePolicy(7).String())
}
