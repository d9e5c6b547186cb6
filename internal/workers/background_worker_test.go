package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackgroundWorker_StopDrainsQueue(t *testing.T) {
	w := NewBackgroundWorker(2, 16)
	w.Start()

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		w.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			done.Add(1)
		})
	}

	require.NoError(t, w.Stop(context.Background()))
	assert.Equal(t, int32(10), done.Load())
}

func TestBackgroundWorker_SubmitAfterStopIsDropped(t *testing.T) {
	w := NewBackgroundWorker(1, 1)
	w.Start()
	require.NoError(t, w.Stop(context.Background()))

	var ran atomic.Bool
	assert.NotPanics(t, func() { w.Submit(func() { ran.Store(true) }) })
	assert.False(t, ran.Load())

	// повторная остановка безопасна
	assert.NoError(t, w.Stop(context.Background()))
}

func TestBackgroundWorker_FullQueueStillRunsTask(t *testing.T) {
	w := NewBackgroundWorker(1, 0)

	var ran atomic.Bool
	// обработчики не запущены, очередь без буфера: задача уходит в отдельную горутину
	w.Submit(func() { ran.Store(true) })

	require.NoError(t, w.Stop(context.Background()))
	assert.True(t, ran.Load())
}

func TestBackgroundWorker_PanicDoesNotKillWorker(t *testing.T) {
	w := NewBackgroundWorker(1, 4)
	w.Start()

	var ran atomic.Bool
	w.Submit(func() { panic("boom") })
	w.Submit(func() { ran.Store(true) })

	require.NoError(t, w.Stop(context.Background()))
	assert.True(t, ran.Load())
}

func TestBackgroundWorker_StopHonoursDeadline(t *testing.T) {
	w := NewBackgroundWorker(1, 1)
	w.Start()

	release := make(chan struct{})
	w.Submit(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Stop(ctx), context.DeadlineExceeded)
	close(release)
}
