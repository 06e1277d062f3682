package pfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerTick(t *testing.T) {
	sched := NewScheduler(0, nil)
	assert.Equal(t, DefaultTickRate, sched.TickRate())

	sys, _ := newTestSystem(t, NopSink{})
	require.NoError(t, sched.Add(sys))
	require.NoError(t, sched.Add(sys))
	assert.Equal(t, 1, sched.Len(), "systems are added once")

	sched.tick()
	assert.Equal(t, uint64(1), sched.TickNumber())
	assert.Equal(t, uint64(1), sys.TickNumber())
	assert.Equal(t, 50.0, sys.Elapsed(), "dt is the tick rate in milliseconds")
}

func TestSchedulerDropsClosedSystems(t *testing.T) {
	sched := NewScheduler(time.Millisecond, nil)
	open, _ := newTestSystem(t, NopSink{})
	closed, _ := newTestSystem(t, NopSink{})
	require.NoError(t, sched.Add(open))
	require.NoError(t, sched.Add(closed))
	require.NoError(t, closed.Close())

	sched.tick()
	assert.Equal(t, 1, sched.Len())
	assert.Equal(t, uint64(1), open.TickNumber())
	assert.ErrorIs(t, sched.Add(closed), ErrClosed)
	assert.ErrorIs(t, sched.Add(nil), ErrInvalidArgument)
}

func TestSchedulerRecoversFromPanics(t *testing.T) {
	sched := NewScheduler(time.Millisecond, nil)
	bad, _ := newTestSystem(t, NopSink{})
	good, _ := newTestSystem(t, NopSink{})
	bad.onError = func(error) { panic("handler") }
	_, err := bad.CreateObject(&marker{})
	require.NoError(t, err)
	failing := NewUpdaterFunc("fail", Query(), func(*Frame, *Object) error { return assert.AnError })
	bad.updaters[Before] = append(bad.updaters[Before], failing)

	require.NoError(t, sched.Add(bad))
	require.NoError(t, sched.Add(good))
	assert.NotPanics(t, sched.tick)
	assert.Equal(t, uint64(1), good.TickNumber())
	assert.Equal(t, 2, sched.Len(), "a panicking system stays registered")

	bad.onError = func(error) {}
	assert.NoError(t, bad.Tick(0), "the tick lock is released after a panic")
}

func TestSchedulerStartStop(t *testing.T) {
	sched := NewScheduler(2*time.Millisecond, nil)
	sys, _ := newTestSystem(t, NopSink{})
	require.NoError(t, sched.Add(sys))

	sched.Start()
	sched.Start()
	assert.Eventually(t, func() bool { return sys.TickNumber() >= 3 }, time.Second, time.Millisecond)
	sched.Stop()
	sched.Stop()

	ticks := sched.TickNumber()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, ticks, sched.TickNumber(), "no ticks after Stop")

	assert.True(t, sched.Remove(sys))
	assert.False(t, sched.Remove(sys))

	sched.Start()
	sched.Stop()
}
