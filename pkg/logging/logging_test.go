package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{level: "debug", debugSeen: true, infoSeen: true, warnSeen: true},
		{level: "", infoSeen: true, warnSeen: true},
		{level: "WARN", warnSeen: true},
		{level: "error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewWithWriter(&buf, tt.level)
			ctx := context.Background()

			assert.Equal(t, tt.debugSeen, l.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoSeen, l.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnSeen, l.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").With("service", "techstore")

	ctx := IntoContext(context.Background(), l)
	FromContext(ctx).Info("hello", "order_number", "TS1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "techstore", line["service"])
	assert.Equal(t, "TS1", line["order_number"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
}
