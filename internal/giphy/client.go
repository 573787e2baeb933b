// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package giphy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/tidwall/gjson"

	"github.com/staranto/gifctl/internal/config"
)

// trendingParams is the query for GET {base}/trending.
type trendingParams struct {
	APIKey string `url:"api_key"`
	Limit  int    `url:"limit"`
	Rating string `url:"rating"`
}

// searchParams is the query for GET {base}/search.
type searchParams struct {
	APIKey string `url:"api_key"`
	Q      string `url:"q"`
	Limit  int    `url:"limit"`
	Offset int    `url:"offset"`
	Rating string `url:"rating"`
	Lang   string `url:"lang"`
}

// Client is the remote gif service.
type Client struct {
	settings config.Settings
	fetcher  Fetcher
}

// NewClient returns a Client using s for the endpoint, key, page size and
// filters. A nil fetcher gets the HTTP one.
func NewClient(s config.Settings, f Fetcher) *Client {
	if f == nil {
		f = NewHTTPFetcher()
	}
	return &Client{settings: s, fetcher: f}
}

// PageSize is the number of items requested per call.
func (c *Client) PageSize() int {
	return c.settings.PageSize
}

// TrendingURL builds the trending query.
func (c *Client) TrendingURL() (string, error) {
	return c.endpoint("trending", trendingParams{
		APIKey: c.settings.APIKey,
		Limit:  c.settings.PageSize,
		Rating: c.settings.Rating,
	})
}

// SearchURL builds the keyword query for a zero-based page. The keyword is
// sent as given; a blank one is rejected.
func (c *Client) SearchURL(keyword string, page int) (string, error) {
	if strings.TrimSpace(keyword) == "" {
		return "", fmt.Errorf("keyword is empty: %w", ErrInvalidQuery)
	}
	if page < 0 {
		return "", fmt.Errorf("page %d is negative: %w", page, ErrInvalidQuery)
	}
	return c.endpoint("search", searchParams{
		APIKey: c.settings.APIKey,
		Q:      keyword,
		Limit:  c.settings.PageSize,
		Offset: page * c.settings.PageSize,
		Rating: c.settings.Rating,
		Lang:   c.settings.Lang,
	})
}

// Trending fetches the current trending list.
func (c *Client) Trending(ctx context.Context) ([]Item, error) {
	u, err := c.TrendingURL()
	if err != nil {
		return nil, err
	}
	return c.fetchItems(ctx, u)
}

// Search fetches one page of keyword results. Every call goes to the API.
func (c *Client) Search(ctx context.Context, keyword string, page int) ([]Item, error) {
	u, err := c.SearchURL(keyword, page)
	if err != nil {
		return nil, err
	}
	return c.fetchItems(ctx, u)
}

func (c *Client) endpoint(path string, params any) (string, error) {
	v, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode query: %w", err)
	}
	return strings.TrimRight(c.settings.BaseURL, "/") + "/" + path + "?" + v.Encode(), nil
}

func (c *Client) fetchItems(ctx context.Context, u string) ([]Item, error) {
	body, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	return ParseItems(body)
}

// ParseItems maps a GIPHY list payload ({"data": [...]}) into Items.
func ParseItems(body []byte) ([]Item, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed response: not JSON")
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, fmt.Errorf("malformed response: no data array")
	}

	items := make([]Item, 0, len(data.Array()))
	data.ForEach(func(_, gif gjson.Result) bool {
		items = append(items, Item{
			ID:       gif.Get("id").String(),
			Title:    gif.Get("title").String(),
			ImageURL: gif.Get("images.original.url").String(),
		})
		return true
	})
	return items, nil
}
