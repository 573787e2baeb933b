// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. GIFCTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/gifctl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("GIFCTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "gifctl"), true
	}
	return "", false
}

// Enabled returns true unless GIFCTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("GIFCTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Purge removes files older than the provided number of hours and returns
// how many were removed. If hours <= 0 or the cache dir cannot be resolved,
// it is a no-op.
func Purge(hours int) (int, error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return 0, nil
	}
	base, ok := Dir()
	if !ok {
		return 0, nil
	}
	maxAge := time.Duration(hours) * time.Hour
	removed := 0
	if err := filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				removed++
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	return removed, nil
}

// Slot is the file backend of the durable tier. Each key is one file,
// named by the MD5 of the key, beneath Subdirs of the base directory.
type Slot struct {
	Subdirs []string
}

// NewSlot returns a Slot rooted at base/subdirs.
func NewSlot(subdirs ...string) *Slot {
	return &Slot{Subdirs: subdirs}
}

// Path is the file that holds key. It is false when no base directory can
// be resolved.
func (s *Slot) Path(key string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	parts := append([]string{base}, s.Subdirs...)
	return filepath.Join(append(parts, encodeKey(key))...), true
}

// Get returns the bytes stored under key. A missing file or a disabled cache
// is a miss; any other read failure is an error.
func (s *Slot) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !Enabled() {
		return nil, false, nil
	}
	p, ok := s.Path(key)
	if !ok {
		return nil, false, nil
	}
	b, err := os.ReadFile(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	log.Debugf("cache hit: %s (%d bytes)", p, len(b))
	return b, true, nil
}

// Set stores data under key. The file is written next to its final name and
// renamed into place so a reader never sees a half-written entry.
func (s *Slot) Set(_ context.Context, key string, data []byte) error {
	if !Enabled() {
		return nil
	}
	p, ok := s.Path(key)
	if !ok {
		return nil
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	_, werr := tmp.Write(data)
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmp.Name(), 0o600) //nolint:mnd
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), p)
	}
	if werr != nil {
		return fmt.Errorf("failed to write to cache: %w", werr)
	}
	return nil
}

// encodeKey hashes k with MD5 and returns the hex string.
func encodeKey(k string) string {
	sum := md5.Sum([]byte(k))
	return hex.EncodeToString(sum[:])
}
