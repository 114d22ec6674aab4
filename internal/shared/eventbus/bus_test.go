package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var called bool
	bus.Subscribe("test", func(ctx context.Context, event Event) error {
		called = true
		assert.Equal(t, "test", event.Type())
		return nil
	})
	err := bus.Publish(context.Background(), NewBasicEvent("test", nil))
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestEventBus_WildcardRunsAfterTyped(t *testing.T) {
	bus := NewEventBus(nil)
	var order []string
	bus.SubscribeAll(func(ctx context.Context, event Event) error {
		order = append(order, "all:"+event.Type())
		return nil
	})
	bus.Subscribe("a", func(ctx context.Context, event Event) error {
		order = append(order, "a")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewBasicEvent("a", nil)))
	require.NoError(t, bus.Publish(context.Background(), NewBasicEvent("b", nil)))
	assert.Equal(t, []string{"a", "all:a", "all:b"}, order)
}

func TestEventBus_AsyncPublish(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{AsyncProcessing: true})
	ch := make(chan struct{}, 1)
	bus.Subscribe("async", func(ctx context.Context, event Event) error {
		ch <- struct{}{}
		return nil
	})
	require.NoError(t, bus.Publish(context.Background(), NewBasicEvent("async", nil)))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async event")
	}
}

func TestEventBus_RetriesThenFails(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	var calls int32
	boom := errors.New("boom")
	bus.Subscribe("ev", func(ctx context.Context, event Event) error {
		atomic.AddInt32(&calls, 1)
		return boom
	})

	err := bus.Publish(context.Background(), NewBasicEvent("ev", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEventBus_FailingHandlerDoesNotSkipOthers(t *testing.T) {
	bus := NewEventBus(nil)
	var second bool
	bus.Subscribe("ev", func(ctx context.Context, event Event) error { return errors.New("first") })
	bus.Subscribe("ev", func(ctx context.Context, event Event) error {
		second = true
		return nil
	})

	assert.Error(t, bus.Publish(context.Background(), NewBasicEvent("ev", nil)))
	assert.True(t, second)
}

func TestBasicEvent(t *testing.T) {
	ev := NewBasicEventWithSource("x", 42, "tests")
	assert.Equal(t, "x", ev.Type())
	assert.Equal(t, 42, ev.Data())
	assert.Equal(t, "tests", ev.Source())
	assert.WithinDuration(t, time.Now(), ev.Timestamp(), time.Second)
}
