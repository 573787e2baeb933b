// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{Writer: &buf}

	e := &log.Entry{
		Logger:    log.Log.(*log.Logger),
		Level:     log.WarnLevel,
		Message:   "durable write failed",
		Timestamp: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		Fields:    log.Fields{"key": "trending", "error": errors.New("boom")},
	}

	assert.NoError(t, h.HandleLog(e))
	assert.Equal(t, "2025-03-01 12:30:00 W durable write failed error=boom key=trending\n", buf.String())
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want log.Level
	}{
		{name: "default", env: "", want: log.ErrorLevel},
		{name: "debug", env: "debug", want: log.DebugLevel},
		{name: "bogus falls back", env: "chatty", want: log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIFCTL_LOG", tt.env)
			InitLogger()
			assert.Equal(t, tt.want, log.Log.(*log.Logger).Level)
		})
	}
}
