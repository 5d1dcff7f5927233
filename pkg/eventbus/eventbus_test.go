package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) Name() string { return "ping" }

func TestBus_PublishCallsEverySubscriber(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32

	for i := 0; i < 3; i++ {
		bus.Subscribe("ping", func(ctx context.Context, e Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		t.Error("чужой подписчик не должен вызываться")
		return nil
	})

	bus.Publish(pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestBus_ListenerErrorDoesNotStopOthers(t *testing.T) {
	bus := New(zap.NewNop())
	var ok int32

	bus.Subscribe("ping", func(ctx context.Context, e Event) error { return errors.New("fail") })
	bus.Subscribe("ping", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})

	bus.Publish(pingEvent{})
	bus.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&ok))
}
