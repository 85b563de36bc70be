package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type dummyEvent struct {
	typeStr   string
	data      interface{}
	timestamp time.Time
	source    string
}

func (e *dummyEvent) Type() string         { return e.typeStr }
func (e *dummyEvent) Data() interface{}    { return e.data }
func (e *dummyEvent) Timestamp() time.Time { return e.timestamp }
func (e *dummyEvent) Source() string       { return e.source }

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus(nil)
	var called bool
	bus.Subscribe("job.started", func(ctx context.Context, event Event) error {
		called = true
		assert.Equal(t, "job.started", event.Type())
		return nil
	})
	err := bus.Publish(context.Background(), &dummyEvent{typeStr: "job.started", timestamp: time.Now()})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestEventBus_AsyncPublish(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{AsyncProcessing: true})
	// Publish waits for async handlers, so the handler must not block on
	// the receiver: buffer the channel.
	ch := make(chan struct{}, 1)
	bus.Subscribe("job.step", func(ctx context.Context, event Event) error {
		ch <- struct{}{}
		return nil
	})
	err := bus.Publish(context.Background(), &dummyEvent{typeStr: "job.step", timestamp: time.Now()})
	assert.NoError(t, err)
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for async event")
	}
}

func TestEventBus_PublishAndForgetDoesNotBlock(t *testing.T) {
	bus := NewEventBus(nil)
	release := make(chan struct{})
	done := make(chan struct{})
	bus.Subscribe("job.step", func(ctx context.Context, event Event) error {
		<-release
		close(done)
		return nil
	})

	returned := make(chan struct{})
	go func() {
		bus.PublishAndForget(context.Background(), NewBasicEvent("job.step", nil))
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("PublishAndForget must return before handlers complete")
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestEventBus_RetriesFailingHandler(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 2, RetryDelay: time.Millisecond})
	var attempts int32
	bus.Subscribe("job.failed", func(ctx context.Context, event Event) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	err := bus.Publish(context.Background(), NewBasicEvent("job.failed", nil))
	assert.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestEventBus_ExhaustedRetriesReturnError(t *testing.T) {
	bus := NewEventBusWithConfig(nil, BusConfig{MaxRetries: 1, RetryDelay: time.Millisecond})
	bus.Subscribe("job.completed", func(ctx context.Context, event Event) error {
		return errors.New("permanent")
	})
	err := bus.Publish(context.Background(), NewBasicEvent("job.completed", nil))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe("ev", func(ctx context.Context, event Event) error { return nil })
	assert.Equal(t, 1, bus.GetSubscriberCount("ev"))
	bus.Unsubscribe("ev")
	assert.Equal(t, 0, bus.GetSubscriberCount("ev"))
}

func TestEventBus_GetEventTypes(t *testing.T) {
	bus := NewEventBus(nil)
	bus.Subscribe("a", func(ctx context.Context, event Event) error { return nil })
	bus.Subscribe("b", func(ctx context.Context, event Event) error { return nil })
	assert.ElementsMatch(t, []string{"a", "b"}, bus.GetEventTypes())
}

func TestBasicEvent_Accessors(t *testing.T) {
	ev := NewSourcedEvent("job.step", "pipeline", map[string]int{"in": 4})
	assert.Equal(t, "job.step", ev.Type())
	assert.Equal(t, "pipeline", ev.Source())
	assert.NotZero(t, ev.Timestamp())
	assert.Equal(t, map[string]int{"in": 4}, ev.Data())
}
