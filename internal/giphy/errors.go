// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package giphy

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned before any network call for a search that
// cannot be sent.
var ErrInvalidQuery = errors.New("invalid query")

// ApiError is a non-success HTTP response from the API.
type ApiError struct { //nolint:revive
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
}

// TransportError is a failure to get any response at all (DNS, refused
// connection, TLS, truncated body).
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
