package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/server/config"
	"github.com/stretchr/testify/require"
)

func TestApp_RunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "server.db")
	cfg.EndpointAddr = "127.0.0.1:0"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewApp_BadDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ""

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}
