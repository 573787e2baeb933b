// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package browse is an interactive list of gifs. Moving the cursor past the
// last row loads the next page, so a search scrolls without end.
package browse
