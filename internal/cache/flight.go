// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Coordinator guarantees at most one outstanding execution per key. Callers
// that arrive while an execution is pending attach to it and receive its
// value or error. The registration is dropped as soon as the execution
// settles, successful or not, so the next call starts a fresh attempt.
// Nothing is retried.
type Coordinator[T any] struct {
	sf singleflight.Group

	mu      sync.Mutex
	pending map[string]int
}

// NewCoordinator returns an idle coordinator.
func NewCoordinator[T any]() *Coordinator[T] {
	return &Coordinator[T]{pending: make(map[string]int)}
}

// Do runs op for key unless an execution for key is already pending, in
// which case it waits for that one. shared reports whether the result was
// handed to more than one caller. A panic in op is raised again in every
// caller.
func (c *Coordinator[T]) Do(key string, op func() (T, error)) (v T, shared bool, err error) {
	ch := c.sf.DoChan(key, func() (res any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &panicError{value: r, stack: debug.Stack()}
			}
		}()
		return op()
	})
	// DoChan has registered the caller, as leader or attached, by now.
	c.track(key, 1)
	defer c.track(key, -1)

	res := <-ch
	var pe *panicError
	if errors.As(res.Err, &pe) {
		panic(pe)
	}
	if res.Val != nil {
		v = res.Val.(T) //nolint:forcetypeassert
	}
	return v, res.Shared, res.Err
}

// panicError carries a panic out of the goroutine DoChan runs op in.
type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("%v\n\n%s", p.value, p.stack)
}

// Pending reports whether an execution for key is in progress.
func (c *Coordinator[T]) Pending(key string) bool {
	return c.Waiting(key) > 0
}

// Waiting is the number of callers registered for key and not yet
// returned, the leader included.
func (c *Coordinator[T]) Waiting(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[key]
}

func (c *Coordinator[T]) track(key string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		c.pending = make(map[string]int)
	}
	c.pending[key] += delta
	if c.pending[key] <= 0 {
		delete(c.pending, key)
	}
}
