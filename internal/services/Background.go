package services

import (
	"context"
	"errors"
	"fmt"
	"mafiabot/internal/providers"
	"sync"
)

var ErrBackgroundClosed = errors.New("background runner is shut down")

// Background runs fire-and-forget work. Failures and panics are logged with
// the task name; Wait lets callers drain whatever is still in flight and
// Shutdown additionally refuses anything submitted afterwards.
type Background struct {
	mu     sync.Mutex
	active int
	idle   chan struct{}
	closed bool
	logger providers.Logger
}

func NewBackground(logger providers.Logger) *Background {
	return &Background{logger: logger}
}

// Go starts fn unless the runner is shut down, in which case the task is
// dropped and ErrBackgroundClosed returned.
func (b *Background) Go(t providers.TypeEnum, name string, fn func() error) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debugf(t, "%s dropped: %s", name, ErrBackgroundClosed)
		return ErrBackgroundClosed
	}
	if b.active == 0 {
		b.idle = make(chan struct{})
	}
	b.active++
	b.mu.Unlock()

	go func() {
		defer b.done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Errorf(t, "%s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			b.logger.Errorf(t, "%s failed: %s", name, err)
		}
	}()
	return nil
}

func (b *Background) done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active--
	if b.active == 0 {
		close(b.idle)
	}
}

// Wait blocks until no task is running or ctx is done.
func (b *Background) Wait(ctx context.Context) error {
	b.mu.Lock()
	if b.active == 0 {
		b.mu.Unlock()
		return nil
	}
	idle := b.idle
	b.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}

// Shutdown stops accepting tasks and drains the ones in flight.
func (b *Background) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.Wait(ctx)
}
