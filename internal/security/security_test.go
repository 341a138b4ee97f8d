package security

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := NewLoggerRecorder(slog.New(slog.NewJSONHandler(&buf, nil)))
	rec.Record(context.Background(), Event{Kind: EventLoginFailure, Actor: "a@b.c", IP: "10.0.0.1"})

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"kind":"admin.login.failure"`)
	assert.Contains(t, out, `"component":"audit"`)
}
