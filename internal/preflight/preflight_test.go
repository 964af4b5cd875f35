package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	badge := filepath.Join(dir, "google_play_badge.png")
	require.NoError(t, os.WriteFile(badge, []byte("png"), 0o600))

	core, logs := observer.New(zapcore.DebugLevel)
	res := Run(context.Background(), zap.New(core),
		FileReadable("android badge", badge),
		FileReadable("ios badge", filepath.Join(dir, "app_store_badge.png")),
		Probe("management interface", true, func() error { return nil }),
	)

	assert.True(t, res.OK)
	require.Len(t, res.Checks, 3)
	assert.True(t, res.Checks[0].OK())
	assert.False(t, res.Checks[1].OK())
	assert.ErrorIs(t, res.Checks[1].Err, os.ErrNotExist)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "ios badge", failed[0].Name)
	assert.Equal(t, 1, logs.FilterMessage("Preflight check failed").Len())
}

func TestRunRequiredFailure(t *testing.T) {
	res := Run(context.Background(), nil,
		Probe("management interface", true, func() error { return errors.New("RPC unavailable") }),
		Probe("optional", false, func() error { return nil }),
	)
	assert.False(t, res.OK)
	assert.Len(t, res.Checks, 2)
}

func TestRunRecoversPanic(t *testing.T) {
	res := Run(context.Background(), nil,
		Probe("bad", true, func() error { panic("boom") }),
	)
	assert.False(t, res.OK)
	assert.ErrorContains(t, res.Checks[0].Err, "boom")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	res := Run(ctx, nil, Probe("never", false, func() error { called = true; return nil }))
	assert.False(t, called)
	assert.ErrorIs(t, res.Checks[0].Err, context.Canceled)
	assert.True(t, res.OK)
}
