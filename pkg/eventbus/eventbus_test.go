package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEvent struct{ name string }

func (e testEvent) Name() string { return e.name }

func TestBus_PublishCallsOnlySubscribers(t *testing.T) {
	bus := New(zap.NewNop())
	var hits, other int32
	bus.Subscribe("a", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&hits, 1)
		return nil
	})
	bus.Subscribe("a", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&hits, 1)
		return errors.New("listener failed")
	})
	bus.Subscribe("b", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&other, 1)
		return nil
	})

	bus.Publish(context.Background(), testEvent{name: "a"})
	bus.Wait()

	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
	assert.Zero(t, atomic.LoadInt32(&other))
}

func TestBus_ListenerOutlivesCancelledRequest(t *testing.T) {
	bus := New(nil)
	var ctxErr error
	bus.Subscribe("a", func(ctx context.Context, e Event) error {
		ctxErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{name: "a"})
	bus.Wait()

	assert.NoError(t, ctxErr)
}
