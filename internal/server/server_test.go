package server

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/reader/internal/app"
	"github.com/emrgen/reader/internal/config"
	"github.com/emrgen/reader/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_RunStopsOnCancel(t *testing.T) {
	cfg := config.Defaults()
	cfg.Files.AudioDir = t.TempDir()
	cfg.Jobs.VerifySchedule = ""

	a, err := app.NewWithDb(cfg, tester.Setup(t))
	require.NoError(t, err)
	defer a.Close()

	s := NewServer(a)
	assert.Len(t, cronJobs(a), 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	_, err = a.Articles.CreateArticle(context.Background(), "Daemon", nil)
	require.NoError(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 0, a.Hub.Subscribers())
}
