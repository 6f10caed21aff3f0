package event

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireIsSynchronous(t *testing.T) {
	bus := New(1, 1)
	defer bus.Close()

	var got []Event
	bus.Listen(OrderCreated, func(e Event) { got = append(got, e) })
	bus.Listen(OrderStatusUpdated, func(Event) { t.Error("wrong listener") })

	bus.Fire(OrderCreated, "o1")

	require.Len(t, got, 1)
	assert.Equal(t, OrderCreated, got[0].Name)
	assert.Equal(t, "o1", got[0].Payload)
	assert.False(t, got[0].At.IsZero())
}

func TestDispatchRunsEveryListener(t *testing.T) {
	bus := New(4, 64)

	const listeners = 3
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(listeners * 10)
	for i := 0; i < listeners; i++ {
		bus.Listen(OrderCreated, func(Event) {
			defer wg.Done()
			count.Add(1)
		})
	}

	for i := 0; i < 10; i++ {
		bus.Dispatch(OrderCreated, i)
	}
	wg.Wait()
	bus.Close()

	assert.Equal(t, int64(listeners*10), count.Load())
}

func TestCloseDrainsQueue(t *testing.T) {
	bus := New(1, 8)

	var count atomic.Int64
	bus.Listen(OrderCreated, func(Event) {
		time.Sleep(time.Millisecond)
		count.Add(1)
	})
	for i := 0; i < 5; i++ {
		bus.Dispatch(OrderCreated, nil)
	}
	bus.Close()

	assert.Equal(t, int64(5), count.Load())
	bus.Dispatch(OrderCreated, nil)
	bus.Close()
}

func TestPoolFull(t *testing.T) {
	p := newPool(1, 2)
	defer p.shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	require.NoError(t, p.submit(func() {}))
	require.NoError(t, p.submit(func() {}))

	err := p.submit(func() {})
	assert.True(t, errors.Is(err, ErrPoolFull), "got %v", err)

	close(blocker)
}

func TestPoolClosed(t *testing.T) {
	p := newPool(2, 4)
	p.shutdown()

	assert.ErrorIs(t, p.submit(func() {}), ErrPoolClosed)
}

func TestPanickingListenerDoesNotKillWorker(t *testing.T) {
	bus := New(1, 4)
	defer bus.Close()

	done := make(chan struct{})
	bus.Listen(OrderCreated, func(Event) { panic("listener failure") })
	bus.Listen(OrderCreated, func(Event) { close(done) })

	bus.Dispatch(OrderCreated, nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second listener never ran after the first panicked")
	}
}
