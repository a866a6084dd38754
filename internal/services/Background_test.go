package services

import (
	"context"
	"errors"
	"mafiabot/internal/providers"
	"mafiabot/internal/testutil"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackground_LogsFailuresAndPanics(t *testing.T) {
	logger := &testutil.MockLogger{}
	b := NewBackground(logger)

	var ran atomic.Int32
	b.Go(providers.TypeApp, "ok", func() error { ran.Add(1); return nil })
	b.Go(providers.TypeApp, "failing", func() error { ran.Add(1); return errors.New("boom") })
	b.Go(providers.TypeApp, "panicking", func() error { ran.Add(1); panic("oops") })

	require.NoError(t, b.Wait(context.Background()))
	assert.Equal(t, int32(3), ran.Load())
	assert.Equal(t, 2, logger.Count("error"))
	assert.True(t, logger.Contains("error", "panicked"))
}

func TestBackground_WaitHonoursContext(t *testing.T) {
	b := NewBackground(&testutil.MockLogger{})
	release := make(chan struct{})
	b.Go(providers.TypeApp, "blocked", func() error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Wait(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, b.Wait(context.Background()))
}

func TestBackground_ShutdownRefusesNewTasks(t *testing.T) {
	logger := &testutil.MockLogger{}
	b := NewBackground(logger)

	var ran atomic.Int32
	require.NoError(t, b.Go(providers.TypeApp, "before", func() error { ran.Add(1); return nil }))
	require.NoError(t, b.Shutdown(context.Background()))

	err := b.Go(providers.TypeApp, "after", func() error { ran.Add(1); return nil })
	assert.ErrorIs(t, err, ErrBackgroundClosed)
	require.NoError(t, b.Wait(context.Background()))
	assert.Equal(t, int32(1), ran.Load())
	assert.Equal(t, 1, logger.Count("debug"))
}

func TestBackground_GoConcurrentWithWait(t *testing.T) {
	b := NewBackground(&testutil.MockLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 500; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = b.Go(providers.TypeApp, "task", func() error { ran.Add(1); return nil })
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Wait(ctx))
		}()
	}
	wg.Wait()

	require.NoError(t, b.Wait(ctx))
	assert.Equal(t, int32(500), ran.Load())
}

func TestBackground_GoConcurrentWithShutdown(t *testing.T) {
	b := NewBackground(&testutil.MockLogger{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var accepted, ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Go(providers.TypeApp, "late", func() error { ran.Add(1); return nil }) == nil {
				accepted.Add(1)
			}
		}()
	}
	require.NoError(t, b.Shutdown(ctx))
	wg.Wait()

	require.NoError(t, b.Wait(ctx))
	assert.Equal(t, accepted.Load(), ran.Load())
}
