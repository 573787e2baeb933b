// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package giphy

// Item is one animated image in a list. ID is the provider's opaque id.
// ImageURL is the full-resolution asset, never a thumbnail.
type Item struct {
	ID       string `json:"id" jsonapi:"primary,gifs"`
	Title    string `json:"title" jsonapi:"attr,title"`
	ImageURL string `json:"imageUrl" jsonapi:"attr,image-url"`
}
