//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func stopWithin(t *testing.T, p *Pool, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestPool(t *testing.T) {
	t.Run("should run every submitted task before Stop returns", func(t *testing.T) {
		p := NewPool(3, 16, newLogger())
		p.Start(context.Background())

		var ran atomic.Int32
		for i := 0; i < 10; i++ {
			if err := p.Submit(func(ctx context.Context) error {
				ran.Add(1)
				return nil
			}); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}
		stopWithin(t, p, 2*time.Second)

		if got := ran.Load(); got != 10 {
			t.Errorf("want 10 tasks run, got %d", got)
		}
	})

	t.Run("should reject when the queue is full", func(t *testing.T) {
		p := NewPool(1, 1, newLogger()) // not started: nothing drains the queue
		noop := func(ctx context.Context) error { return nil }

		if err := p.Submit(noop); err != nil {
			t.Fatalf("first submit: %v", err)
		}
		if err := p.Submit(noop); !errors.Is(err, ErrQueueFull) {
			t.Fatalf("want ErrQueueFull, got %v", err)
		}
	})

	t.Run("should reject after Stop", func(t *testing.T) {
		p := NewPool(1, 1, newLogger())
		p.Start(context.Background())
		stopWithin(t, p, time.Second)

		err := p.Submit(func(ctx context.Context) error { return nil })
		if !errors.Is(err, ErrPoolStopped) {
			t.Fatalf("want ErrPoolStopped, got %v", err)
		}
		// a second Stop is harmless
		stopWithin(t, p, time.Second)
	})

	t.Run("should reject a nil task", func(t *testing.T) {
		p := NewPool(1, 1, newLogger())
		if err := p.Submit(nil); !errors.Is(err, ErrNilTask) {
			t.Fatalf("want ErrNilTask, got %v", err)
		}
	})

	t.Run("should not cancel tasks when the start context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		p := NewPool(1, 1, newLogger())
		p.Start(ctx)
		cancel()

		errCh := make(chan error, 1)
		if err := p.Submit(func(taskCtx context.Context) error {
			errCh <- taskCtx.Err()
			return nil
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("task context should not be canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("task did not run")
		}
		stopWithin(t, p, time.Second)
	})

	t.Run("should survive a panicking task", func(t *testing.T) {
		p := NewPool(1, 4, newLogger())
		p.Start(context.Background())

		var ran atomic.Bool
		_ = p.Submit(func(ctx context.Context) error { panic("boom") })
		_ = p.Submit(func(ctx context.Context) error { return errors.New("logged only") })
		_ = p.Submit(func(ctx context.Context) error { ran.Store(true); return nil })
		stopWithin(t, p, 2*time.Second)

		if !ran.Load() {
			t.Error("task after the panic should still run")
		}
	})

	t.Run("Stop should give up when its context expires", func(t *testing.T) {
		p := NewPool(1, 1, newLogger())
		p.Start(context.Background())
		release := make(chan struct{})
		started := make(chan struct{})
		_ = p.Submit(func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := p.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("want deadline exceeded, got %v", err)
		}
		close(release)
	})
}
