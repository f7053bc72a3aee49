package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logAll(l Logger) {
	ctx := context.Background()
	l.Debug(ctx, "secret returned as stored", "id", "c1")
	l.Info(ctx, "user registered", "user_id", "u1")
	l.Warn(ctx, "suggestion fell back", "reason", "timeout")
	l.Error(ctx, "remote call failed", "op", "list passwords")
}

func TestNewText_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		present []string
		absent  []string
	}{
		{
			name:    "cli default",
			level:   slog.LevelWarn,
			present: []string{"level=WARN", "reason=timeout", "level=ERROR", `op="list passwords"`},
			absent:  []string{"level=DEBUG", "level=INFO"},
		},
		{
			name:    "verbose",
			level:   slog.LevelDebug,
			present: []string{"level=DEBUG", "id=c1", "level=INFO", "user_id=u1", "level=WARN", "level=ERROR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logAll(NewText(&buf, tt.level))

			out := buf.String()
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWith_ChildOnly(t *testing.T) {
	var buf bytes.Buffer
	root := NewText(&buf, slog.LevelInfo)

	creds := root.With("module", "credentials")
	creds.With("user_id", "u1").Info(context.Background(), "listed")
	root.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "module=credentials")
	assert.Contains(t, lines[0], "user_id=u1")
	assert.NotContains(t, lines[1], "module=")
}

type ctxKey struct{}

// ctxHandler records the request id carried by the context of each record.
type ctxHandler struct {
	slog.Handler
	seen *[]string
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		*h.seen = append(*h.seen, v)
	}
	return h.Handler.Handle(ctx, r)
}

func TestSlogLogger_PassesContext(t *testing.T) {
	var seen []string
	var buf bytes.Buffer
	h := ctxHandler{Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}), seen: &seen}

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-7")
	l := NewSlogLogger(slog.New(h))
	l.Debug(ctx, "a")
	l.Error(ctx, "b")

	assert.Equal(t, []string{"req-7", "req-7"}, seen)
}

func TestNewJSON_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSON(&buf, slog.LevelInfo)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "listening", "addr", ":8080")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug is filtered")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "listening", rec["msg"])
	assert.Equal(t, ":8080", rec["addr"])
}

func TestDiscard(t *testing.T) {
	var l Logger = Discard()
	logAll(l)
	logAll(l.With("module", "auth"))
}
