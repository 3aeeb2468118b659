package event_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dhwani/pkg/event"
)

func TestDefault_ListenAndFire(t *testing.T) {
	t.Cleanup(event.Flush)

	var calls atomic.Int32
	off := event.Listen("app.booted", func(ctx context.Context, payload any) error {
		calls.Add(1)
		return nil
	})
	defer off()

	event.FireWait(context.Background(), "app.booted", nil)

	require.Equal(t, int32(1), calls.Load())
}

func TestDefault_ListenAsyncSettlesBeforeFireWaitReturns(t *testing.T) {
	t.Cleanup(event.Flush)

	var done atomic.Bool
	event.ListenAsync("app.booted", func(ctx context.Context, payload any) error {
		time.Sleep(20 * time.Millisecond)
		done.Store(true)
		return nil
	})

	event.FireWait(context.Background(), "app.booted", nil)

	if !done.Load() {
		t.Fatal("FireWait returned before the async listener settled")
	}
}

func TestDefault_ListenOnce(t *testing.T) {
	t.Cleanup(event.Flush)

	var calls atomic.Int32
	event.ListenOnce("app.booted", func(ctx context.Context, payload any) error {
		calls.Add(1)
		return nil
	})

	event.FireWait(context.Background(), "app.booted", nil)
	event.FireWait(context.Background(), "app.booted", nil)

	require.Equal(t, int32(1), calls.Load())
}

func TestDefault_FlushResetsRegistry(t *testing.T) {
	var calls atomic.Int32
	event.Listen("app.booted", func(ctx context.Context, payload any) error {
		calls.Add(1)
		return nil
	})

	event.Flush()
	event.Fire(context.Background(), "app.booted", nil)

	require.Zero(t, calls.Load())
}
