// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package giphy

//go:generate mockgen -source=fetcher.go -destination=mocks/fetcher.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/apex/log"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tidwall/gjson"
)

// Fetcher performs a GET and returns the body of a 2xx response. Anything
// else is an *ApiError, a failure to talk to the server a *TransportError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher over a pooled, non-shared client.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: cleanhttp.DefaultPooledClient()}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	safe := Redact(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	log.Debugf("GET %s", safe)
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: safe, Err: err}
	}
	defer resp.Body.Close()

	var doc bytes.Buffer
	if _, err := doc.ReadFrom(resp.Body); err != nil {
		return nil, &TransportError{URL: safe, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ApiError{Status: resp.StatusCode, Message: errorMessage(resp, doc.Bytes())}
	}

	return doc.Bytes(), nil
}

// errorMessage digs the provider's message out of an error body, falling
// back to the HTTP status text.
func errorMessage(resp *http.Response, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, path := range []string{"meta.msg", "message"} {
			if m := gjson.GetBytes(body, path); m.Exists() && m.String() != "" {
				return m.String()
			}
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

// Redact masks the api_key query parameter so URLs can be logged.
func Redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
