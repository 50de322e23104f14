package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(50*time.Millisecond, func() { calls.Add(1) })
	defer d.stop()

	for i := 0; i < 5; i++ {
		d.trigger()
		time.Sleep(10 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	d.trigger()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerDefersLateChange(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(200*time.Millisecond, func() { calls.Add(1) })
	defer d.stop()

	d.trigger()
	time.Sleep(120 * time.Millisecond)
	d.trigger()
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.trigger()
	d.stop()
	d.trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
