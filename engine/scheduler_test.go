package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capbot/broker"
	"capbot/signal"
)

func TestRunSleepsCooldownAfterFailedCycle(t *testing.T) {
	t.Parallel()

	brk := &fakeBroker{
		acctErr: &broker.TransportError{Op: "GET /accounts/acct-1", Err: errors.New("timeout")},
	}
	e := testEngine(t, brk, fixedSource{}, &recJournal{})

	var slept []time.Duration
	e.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
		if len(slept) >= 2 {
			e.Stop()
		}
	}

	e.Run(context.Background())

	require.NotEmpty(t, slept)
	for _, d := range slept {
		assert.Equal(t, 30*time.Second, d, "failed cycles use the error cooldown")
	}
	assert.Equal(t, StateStopped, e.State())
}

func TestRunSleepsIntervalAfterCleanCycle(t *testing.T) {
	t.Parallel()

	brk := &fakeBroker{acct: broker.AccountSnapshot{Balance: 10000, Currency: "EUR"}}
	e := testEngine(t, brk, fixedSource{sig: signal.Signal{Direction: signal.Hold}}, &recJournal{})

	var slept []time.Duration
	e.sleep = func(_ context.Context, d time.Duration) {
		slept = append(slept, d)
		e.Stop()
	}

	e.Run(context.Background())

	require.Len(t, slept, 1)
	assert.Equal(t, time.Minute, slept[0])
}

func TestRunStopsAtCycleBoundary(t *testing.T) {
	t.Parallel()

	brk := &fakeBroker{acct: broker.AccountSnapshot{Balance: 10000, Currency: "EUR"}}
	e := testEngine(t, brk, fixedSource{sig: signal.Signal{Direction: signal.Hold}}, &recJournal{})

	e.Stop()
	e.Run(context.Background())

	assert.Equal(t, StateStopped, e.State())
	assert.Equal(t, 0, e.cycle, "stop before start runs no cycle")
}

func TestRunHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	brk := &fakeBroker{acct: broker.AccountSnapshot{Balance: 10000, Currency: "EUR"}}
	e := testEngine(t, brk, fixedSource{sig: signal.Signal{Direction: signal.Hold}}, &recJournal{})

	ctx, cancel := context.WithCancel(context.Background())
	e.sleep = func(context.Context, time.Duration) { cancel() }

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after context cancellation")
	}
	assert.Equal(t, StateStopped, e.State())
}
