package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopWaitsForInFlightEval(t *testing.T) {
	f := newFake()
	b := newTestBridge(t, f)

	require.NoError(t, b.Start(`sleep(0.05);`, "loop.js"))
	assert.True(t, b.Running())

	select {
	case <-f.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("loop never started an iteration")
	}
	b.Stop()

	assert.Equal(t, int32(0), f.sleeping.Load(), "Stop returned while a script was still running")
	assert.GreaterOrEqual(t, f.slept.Load(), int32(1))
	assert.False(t, b.Running())

	// Joined: no further iterations happen.
	n := f.slept.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, n, f.slept.Load())
}

func TestRunningAnswersWhileStopWaits(t *testing.T) {
	f := newFake()
	b := newTestBridge(t, f)

	require.NoError(t, b.Start(`sleep(0.5);`, "slow.js"))
	select {
	case <-f.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("loop never started an iteration")
	}

	stopped := make(chan struct{})
	go func() {
		b.Stop()
		close(stopped)
	}()

	answered := make(chan bool, 1)
	go func() {
		// Let Stop reach its wait first.
		time.Sleep(20 * time.Millisecond)
		answered <- b.Running()
	}()
	select {
	case running := <-answered:
		assert.True(t, running, "the in-flight iteration is still running")
	case <-time.After(250 * time.Millisecond):
		t.Fatal("Running blocked behind Stop")
	}
	assert.ErrorIs(t, b.Start(`sleep(0.001);`, "other.js"), ErrLoopRunning)

	<-stopped
	assert.False(t, b.Running())
	b.Stop()
}

func TestStartThenStopImmediately(t *testing.T) {
	f := newFake()
	b := newTestBridge(t, f)

	require.NoError(t, b.Start(`sleep(0.01);`, "quick.js"))
	b.Stop()
	assert.Equal(t, int32(0), f.sleeping.Load())
	assert.False(t, b.Running())
}

func TestStartWhileRunning(t *testing.T) {
	b := newTestBridge(t, newFake())
	require.NoError(t, b.Start(`sleep(0.001);`, "a.js"))
	assert.ErrorIs(t, b.Start(`sleep(0.001);`, "b.js"), ErrLoopRunning)
	b.Stop()

	// A stopped bridge accepts a new loop.
	require.NoError(t, b.Start(`sleep(0.001);`, "c.js"))
	b.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	b := newTestBridge(t, newFake())
	b.Stop()
	b.Stop()
	assert.False(t, b.Running())
}

func TestLoopEndsOnScriptError(t *testing.T) {
	errs := make(chan error, 1)
	b := newTestBridge(t, newFake(), WithLoopError(func(err error) { errs <- err }))

	require.NoError(t, b.Start(`throw new Error("loop broke");`, "bad.js"))
	select {
	case err := <-errs:
		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Contains(t, se.Message, "loop broke")
	case <-time.After(5 * time.Second):
		t.Fatal("loop error not reported")
	}

	assert.Eventually(t, func() bool { return !b.Running() }, time.Second, time.Millisecond)
	require.NoError(t, b.Start(`sleep(0.001);`, "again.js"))
	b.Stop()
}

func TestLoopStateCarriesAcrossIterations(t *testing.T) {
	f := newFake()
	b := newTestBridge(t, f)

	require.NoError(t, b.Eval(`var frame = 0;`, "init.js"))
	require.NoError(t, b.Start(`frame++; sleep(0.001);`, "tick.js"))
	assert.Eventually(t, func() bool { return f.slept.Load() >= 3 }, 5*time.Second, time.Millisecond)
	b.Stop()

	require.NoError(t, b.Eval(`print(frame >= 3);`, "read.js"))
	assert.Equal(t, []string{"true"}, f.printed)
}
