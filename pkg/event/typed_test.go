package event_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dhwani/pkg/event"
	"github.com/shashiranjanraj/dhwani/pkg/eventtest"
)

type orderPlaced struct {
	ID    string
	Total int
}

func TestTopic_TypedRoundTrip(t *testing.T) {
	d := event.New()
	placed := event.NewTopic[orderPlaced](d, "order.placed")

	var got orderPlaced
	off := placed.On(func(ctx context.Context, e orderPlaced) error {
		got = e
		return nil
	})
	defer off()

	placed.FireWait(context.Background(), orderPlaced{ID: "ord_1", Total: 4200})

	require.Equal(t, orderPlaced{ID: "ord_1", Total: 4200}, got)
	require.Equal(t, "order.placed", placed.Name())
}

func TestTopic_SharesRegistryWithUntypedAPI(t *testing.T) {
	d := event.New()
	placed := event.NewTopic[orderPlaced](d, "order.placed")

	var got orderPlaced
	placed.On(func(ctx context.Context, e orderPlaced) error {
		got = e
		return nil
	})

	// Firing the raw name with a correctly typed payload reaches the topic
	// listener.
	d.FireWait(context.Background(), "order.placed", orderPlaced{ID: "ord_2"})
	require.Equal(t, "ord_2", got.ID)
}

func TestTopic_WrongPayloadTypeRoutedToHandler(t *testing.T) {
	handler := &eventtest.Errors{}
	d := event.New(event.WithErrorHandler(handler.Handler()))
	placed := event.NewTopic[orderPlaced](d, "order.placed")

	var calls int
	placed.On(func(ctx context.Context, e orderPlaced) error {
		calls++
		return nil
	})

	d.FireWait(context.Background(), "order.placed", "not an order")

	require.Zero(t, calls, "typed listener must not see a mistyped payload")
	require.Equal(t, 1, handler.Len())
	if msg := handler.Calls()[0].Err.Error(); !strings.Contains(msg, "order.placed") {
		t.Errorf("mismatch error does not name the event: %q", msg)
	}
}

func TestTopic_AsyncErrorReachesHandler(t *testing.T) {
	errShip := errors.New("shipping unavailable")
	handler := &eventtest.Errors{}
	d := event.New(event.WithErrorHandler(handler.Handler()))
	placed := event.NewTopic[orderPlaced](d, "order.placed")

	placed.OnAsync(func(ctx context.Context, e orderPlaced) error {
		time.Sleep(5 * time.Millisecond)
		return errShip
	})

	placed.FireWait(context.Background(), orderPlaced{ID: "ord_3"})

	calls := handler.Calls()
	require.Len(t, calls, 1)
	require.ErrorIs(t, calls[0].Err, errShip)
	require.Equal(t, "order.placed", calls[0].Event)
}

func TestTopic_OnceRunsExactlyOnce(t *testing.T) {
	d := event.New()
	placed := event.NewTopic[orderPlaced](d, "order.placed")

	var calls int
	placed.Once(func(ctx context.Context, e orderPlaced) error {
		calls++
		return nil
	})

	placed.FireWait(context.Background(), orderPlaced{})
	placed.FireWait(context.Background(), orderPlaced{})

	require.Equal(t, 1, calls)
}
