package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCron_StartStopIdempotent(t *testing.T) {
	c := NewCron(nil)
	fn := func() {}

	require.NoError(t, c.Start(time.Minute, fn))
	require.NoError(t, c.Start(time.Minute, fn))
	assert.True(t, c.Running())
	assert.Equal(t, time.Minute, c.Interval())

	c.Stop()
	c.Stop()
	assert.False(t, c.Running())
	assert.Zero(t, c.Interval())
}

func TestCron_RestartsOnIntervalChange(t *testing.T) {
	c := NewCron(nil)
	defer c.Stop()

	require.NoError(t, c.Start(time.Hour, func() {}))
	require.NoError(t, c.Start(30*time.Minute, func() {}))
	assert.True(t, c.Running())
	assert.Equal(t, 30*time.Minute, c.Interval())
}

func TestCron_InvalidInterval(t *testing.T) {
	c := NewCron(nil)
	assert.ErrorIs(t, c.Start(0, func() {}), ErrInvalidInterval)
	assert.False(t, c.Running())
}

func TestCron_Fires(t *testing.T) {
	c := NewCron(nil)
	defer c.Stop()

	var runs atomic.Int32
	require.NoError(t, c.Start(time.Second, func() { runs.Add(1) }))

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestManual(t *testing.T) {
	m := NewManual()
	runs := 0

	assert.False(t, m.Tick())

	require.NoError(t, m.Start(time.Minute, func() { runs++ }))
	require.NoError(t, m.Start(time.Minute, func() { runs += 100 }))
	assert.Equal(t, 1, m.Starts())

	assert.True(t, m.Tick())
	assert.Equal(t, 1, runs)

	require.NoError(t, m.Start(2*time.Minute, func() { runs += 10 }))
	assert.Equal(t, 2, m.Starts())
	m.Tick()
	assert.Equal(t, 11, runs)

	m.Stop()
	assert.False(t, m.Running())
	assert.False(t, m.Tick())
	assert.ErrorIs(t, m.Start(-time.Second, func() {}), ErrInvalidInterval)
}
