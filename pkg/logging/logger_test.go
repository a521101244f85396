package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"trajplan/pkg/config"
)

func TestInit(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "logs", "planner.log")

	cfg := &config.LogConfig{
		Server: config.LogSettings{
			Path:  serverLog,
			Level: "DEBUG",
		},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	slog.Debug("hello from test")
	cleanup()

	data, err := os.ReadFile(serverLog)
	if err != nil {
		t.Fatalf("Server log file not created: %v", err)
	}
	assert.Contains(t, string(data), "hello from test")
}

func TestInit_RotatesPreviousLog(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	serverLog := filepath.Join(t.TempDir(), "planner.log")
	if err := os.WriteFile(serverLog, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cleanup, err := Init(&config.LogConfig{Server: config.LogSettings{Path: serverLog, Level: "INFO"}})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cleanup()

	old, err := os.ReadFile(serverLog + ".old")
	if err != nil {
		t.Fatalf("expected rotated log: %v", err)
	}
	assert.Equal(t, "previous run\n", string(old))
}

func TestParseLevel(t *testing.T) {
	defer func() { EnableTrace = false }()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"trace", slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
	assert.True(t, EnableTrace, "trace level should enable trace logs")
}

func TestTrace(t *testing.T) {
	defer func() { EnableTrace = false }()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	EnableTrace = false
	Trace(logger, "hidden")
	assert.Empty(t, buf.String())

	EnableTrace = true
	Trace(logger, "visible", "k", 1)
	assert.Contains(t, buf.String(), "visible")
}

func TestMultiHandler_Enabled(t *testing.T) {
	var a, b bytes.Buffer
	m := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}}

	assert.True(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, m.Enabled(context.Background(), slog.LevelDebug))

	slog.New(m).Info("only b")
	assert.Empty(t, a.String())
	assert.Contains(t, b.String(), "only b")
}
