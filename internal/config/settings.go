// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultBaseURL  = "https://api.giphy.com/v1/gifs"
	DefaultPageSize = 16
	DefaultRating   = "g"
	DefaultLang     = "en"
	DefaultTTL      = 10 * time.Minute
	DefaultStore    = "file"
)

// ErrMissingAPIKey is wrapped by the ConfigError returned when no API key
// could be resolved from flags, environment or config file.
var ErrMissingAPIKey = errors.New("GIPHY_API_KEY is not set")

// ConfigError is the typed startup failure for an unusable configuration.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Settings is the resolved, validated configuration for a gifctl run.
type Settings struct {
	APIKey        string        `validate:"required"`
	BaseURL       string        `validate:"required,url"`
	PageSize      int           `validate:"gte=1,lte=50"`
	Rating        string        `validate:"oneof=g pg pg-13 r"`
	Lang          string        `validate:"len=2"`
	TTL           time.Duration `validate:"gt=0"`
	StaleFallback bool
	Store         string `validate:"oneof=file s3 none"`
	S3Bucket      string `validate:"required_if=Store s3"`
	S3Prefix      string
	S3Region      string
	S3Profile     string
	S3Endpoint    string `validate:"omitempty,url"`
}

// SettingsOption overrides a resolved setting, typically from a CLI flag.
type SettingsOption func(*Settings)

// WithAPIKey overrides the API key when k is non-empty.
func WithAPIKey(k string) SettingsOption {
	return func(s *Settings) {
		if k != "" {
			s.APIKey = k
		}
	}
}

// offlineAPIKey stands in for a missing key on commands that never call the
// API.
const offlineAPIKey = "offline"

// WithOfflineKey satisfies the API key requirement when no key is
// configured. Commands that only look at the cache use it.
func WithOfflineKey() SettingsOption {
	return func(s *Settings) {
		if s.APIKey == "" {
			s.APIKey = offlineAPIKey
		}
	}
}

// WithBaseURL points the client at another endpoint when u is non-empty.
func WithBaseURL(u string) SettingsOption {
	return func(s *Settings) {
		if u != "" {
			s.BaseURL = u
		}
	}
}

// WithTTL overrides the trending TTL when d is non-zero.
func WithTTL(d time.Duration) SettingsOption {
	return func(s *Settings) {
		if d != 0 {
			s.TTL = d
		}
	}
}

// WithStore overrides the durable store backend when store is non-empty.
func WithStore(store string) SettingsOption {
	return func(s *Settings) {
		if store != "" {
			s.Store = store
		}
	}
}

// WithStaleFallback turns on serving stale data when a refresh fails.
func WithStaleFallback(on bool) SettingsOption {
	return func(s *Settings) {
		if on {
			s.StaleFallback = true
		}
	}
}

var validate = validator.New()

// NewSettings resolves Settings from defaults, the config file, the
// environment and opts, in that order, and validates the result once. A
// failure is always a *ConfigError.
func NewSettings(cfg Type, opts ...SettingsOption) (Settings, error) {
	s := Settings{
		BaseURL:  DefaultBaseURL,
		PageSize: DefaultPageSize,
		Rating:   DefaultRating,
		Lang:     DefaultLang,
		TTL:      DefaultTTL,
		Store:    DefaultStore,
	}

	s.APIKey, _ = cfg.GetString("api_key", s.APIKey)
	s.BaseURL, _ = cfg.GetString("giphy.base_url", s.BaseURL)
	s.PageSize, _ = cfg.GetInt("giphy.page_size", s.PageSize)
	s.Rating, _ = cfg.GetString("giphy.rating", s.Rating)
	s.Lang, _ = cfg.GetString("giphy.lang", s.Lang)
	s.StaleFallback, _ = cfg.GetBool("trending.stale_fallback", s.StaleFallback)
	s.Store, _ = cfg.GetString("cache.store", s.Store)
	s.S3Bucket, _ = cfg.GetString("cache.s3.bucket", s.S3Bucket)
	s.S3Prefix, _ = cfg.GetString("cache.s3.prefix", s.S3Prefix)
	s.S3Region, _ = cfg.GetString("cache.s3.region", s.S3Region)
	s.S3Profile, _ = cfg.GetString("cache.s3.profile", s.S3Profile)
	s.S3Endpoint, _ = cfg.GetString("cache.s3.endpoint", s.S3Endpoint)

	ttl, err := cfg.GetDuration("trending.ttl", s.TTL)
	if err != nil {
		return Settings{}, &ConfigError{Field: "trending.ttl", Reason: err.Error(), Err: err}
	}
	s.TTL = ttl

	if k, ok := os.LookupEnv("GIPHY_API_KEY"); ok && k != "" {
		s.APIKey = k
	}

	for _, opt := range opts {
		opt(&s)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks s and reports the first problem as a *ConfigError.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConfigError{Field: "settings", Reason: err.Error(), Err: err}
	}

	fe := verrs[0]
	if fe.Field() == "APIKey" {
		return &ConfigError{Field: "api_key", Reason: "an API key is required", Err: ErrMissingAPIKey}
	}
	return &ConfigError{
		Field:  fe.Field(),
		Reason: fmt.Sprintf("failed %q check (value %v)", fe.Tag(), fe.Value()),
		Err:    fe,
	}
}
