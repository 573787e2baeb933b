// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestRecord_WireFormat(t *testing.T) {
	rec := NewRecord([]item{{ID: "a1", Title: "cat"}}, time.UnixMilli(1700000000123))

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"savedAt":1700000000123,"data":[{"id":"a1","title":"cat"}]}`, string(b))

	var back Record[[]item]
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.SavedAt.Equal(rec.SavedAt))
	assert.Equal(t, rec.Data, back.Data)
}

func TestRecord_UnmarshalRejects(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":       `{{{`,
		"null":           `null`,
		"no savedAt":     `{"data":[]}`,
		"string savedAt": `{"savedAt":"yesterday","data":[]}`,
		"wrong data":     `{"savedAt":1,"data":"nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			var rec Record[[]item]
			assert.Error(t, json.Unmarshal([]byte(raw), &rec))
		})
	}
}

func TestRecord_Age(t *testing.T) {
	saved := time.Now()
	rec := NewRecord(1, saved)
	assert.Equal(t, 3*time.Second, rec.Age(saved.Add(3*time.Second)))
}
