// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package aws loads AWS SDK configuration and provides an S3 backed slot for
// the durable cache tier, so a cached trending list can be shared between
// machines.
package aws
