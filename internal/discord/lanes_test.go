package discord

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanes_SerialPerKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := newLanes(ctx, 8, time.Minute)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.True(t, l.submit("g1", func(context.Context) {
			defer wg.Done()
			// later jobs must not overtake a slow earlier one
			time.Sleep(time.Duration(5-i) * time.Millisecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)

	cancel()
	l.wait()
}

func TestLanes_KeysRunConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := newLanes(ctx, 1, time.Minute)

	block := make(chan struct{})
	require.True(t, l.submit("g1", func(context.Context) { <-block }))

	ran := make(chan struct{})
	require.True(t, l.submit("g2", func(context.Context) { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("g2 blocked behind g1")
	}
	close(block)
}

func TestLanes_StopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := newLanes(ctx, 1, time.Minute)

	started := make(chan struct{})
	seen := make(chan error, 1)
	require.True(t, l.submit("g1", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		seen <- ctx.Err()
	}))
	<-started
	cancel()
	l.wait()

	assert.ErrorIs(t, <-seen, context.Canceled)
	assert.False(t, l.submit("g1", func(context.Context) {}))
	assert.False(t, l.submit("g3", func(context.Context) {}))
}

func TestLanes_IdleWorkerExits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := newLanes(ctx, 4, 20*time.Millisecond)

	done := make(chan struct{})
	require.True(t, l.submit("dm-1", func(context.Context) { close(done) }))
	<-done
	require.True(t, l.submit("dm-2", func(context.Context) {}))

	require.Eventually(t, func() bool { return l.size() == 0 }, time.Second, 5*time.Millisecond)

	again := make(chan struct{})
	require.True(t, l.submit("dm-1", func(context.Context) { close(again) }))
	select {
	case <-again:
	case <-time.After(time.Second):
		t.Fatal("reaped lane did not restart")
	}
}

func TestLanes_BusyLaneIsNotReaped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := newLanes(ctx, 4, 10*time.Millisecond)

	block := make(chan struct{})
	require.True(t, l.submit("g1", func(context.Context) { <-block }))
	ran := make(chan struct{})
	require.True(t, l.submit("g1", func(context.Context) { close(ran) }))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, l.size())
	close(block)
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queued job lost")
	}
}
