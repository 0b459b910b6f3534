package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_StartStop(t *testing.T) {
	var runs int64
	s := New(10*time.Millisecond, func() {
		atomic.AddInt64(&runs, 1)
	})

	assert.False(t, s.IsRunning())

	s.Start()
	assert.True(t, s.IsRunning())

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	assert.False(t, s.IsRunning())

	assert.Greater(t, atomic.LoadInt64(&runs), int64(0))

	// No further runs after Stop
	after := atomic.LoadInt64(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&runs))
}

func TestScheduler_StartTwice(t *testing.T) {
	s := New(10*time.Millisecond, func() {})

	s.Start()
	s.Start() // second call is a no-op
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := New(10*time.Millisecond, func() {})

	// Must not panic
	s.Stop()
	assert.False(t, s.IsRunning())
}
