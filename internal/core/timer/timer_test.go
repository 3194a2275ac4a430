package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomify/internal/core/model"
)

type recordingNotifier struct {
	mu       sync.Mutex
	tones    int
	vibrates int
}

func (n *recordingNotifier) PlayTone() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tones++
}

func (n *recordingNotifier) Vibrate() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vibrates++
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tones, n.vibrates
}

type sessionReport struct {
	cycles  int
	focused int
}

func newTestMachine(t *testing.T, settings model.TimerSettings) (*Machine, *clockwork.FakeClock, *[]sessionReport) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	reports := &[]sessionReport{}
	machine := New(settings, Config{
		Clock: clock,
		OnSessionComplete: func(cycles, focusedSeconds int) {
			*reports = append(*reports, sessionReport{cycles: cycles, focused: focusedSeconds})
		},
	})
	t.Cleanup(machine.Close)
	return machine, clock, reports
}

func settings(work, brk int) model.TimerSettings {
	return model.TimerSettings{WorkDuration: work, BreakDuration: brk, SoundEnabled: true}
}

func tickN(machine *Machine, n int) {
	for i := 0; i < n; i++ {
		machine.Tick()
	}
}

// finishPhase ticks the current phase down to zero and through its completion.
func finishPhase(machine *Machine) {
	tickN(machine, machine.State().Remaining+1)
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for timer event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, ch <-chan Event) {
	t.Helper()
	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s", event.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNew_InitialState(t *testing.T) {
	for _, work := range []int{1, 25, 90} {
		machine, _, _ := newTestMachine(t, settings(work, 5))

		state := machine.State()
		assert.Equal(t, work*60, state.Remaining)
		assert.True(t, state.IsWork)
		assert.False(t, state.IsRunning)
		assert.Zero(t, state.Cycles)
		assert.Zero(t, machine.FocusedSeconds())
	}
}

func TestTick_CountsDownToZeroThenCompletesOnNextTick(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(2, 1))
	machine.Start()

	tickN(machine, 120)
	state := machine.State()
	assert.Equal(t, 0, state.Remaining)
	assert.True(t, state.IsWork)
	assert.Zero(t, state.Cycles)

	machine.Tick()
	state = machine.State()
	assert.False(t, state.IsWork)
	assert.Equal(t, 60, state.Remaining)
	assert.Equal(t, 1, state.Cycles)
	assert.True(t, state.IsRunning, "phase completion must not pause the timer")
}

func TestTick_BreakCompletionDoesNotCountCycle(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(1, 1))
	machine.Start()

	finishPhase(machine)
	require.Equal(t, 1, machine.State().Cycles)

	finishPhase(machine)
	state := machine.State()
	assert.True(t, state.IsWork)
	assert.Equal(t, 60, state.Remaining)
	assert.Equal(t, 1, state.Cycles)
}

func TestTick_IgnoredWhilePaused(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(25, 5))

	machine.Tick()
	assert.Equal(t, 1500, machine.State().Remaining)

	machine.Start()
	machine.Tick()
	machine.Pause()
	machine.Tick()
	assert.Equal(t, 1499, machine.State().Remaining)
}

func TestFocusedSeconds_OnlyCountsWorkTicks(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(1, 2))
	machine.Start()

	finishPhase(machine)
	assert.Equal(t, 60, machine.FocusedSeconds())

	tickN(machine, 30)
	assert.Equal(t, 60, machine.FocusedSeconds(), "break ticks are not focused time")
}

func TestScenario_TwentyFiveFive(t *testing.T) {
	machine, _, reports := newTestMachine(t, settings(25, 5))
	require.Equal(t, 1500, machine.State().Remaining)

	machine.Start()
	tickN(machine, 1500)
	machine.Tick()
	state := machine.State()
	assert.False(t, state.IsWork)
	assert.Equal(t, 300, state.Remaining)
	assert.Equal(t, 1, state.Cycles)

	tickN(machine, 300)
	machine.Tick()
	state = machine.State()
	assert.True(t, state.IsWork)
	assert.Equal(t, 1500, state.Remaining)
	assert.Equal(t, 1, state.Cycles)

	machine.Reset()
	require.Len(t, *reports, 1)
	assert.Equal(t, sessionReport{cycles: 1, focused: 1500}, (*reports)[0])
	assert.Equal(t, model.InitialState(settings(25, 5)), machine.State())
}

func TestReset_ReportsThreeCycles(t *testing.T) {
	machine, _, reports := newTestMachine(t, settings(1, 1))
	machine.Start()
	for i := 0; i < 3; i++ {
		finishPhase(machine)
		finishPhase(machine)
	}
	require.Equal(t, 3, machine.State().Cycles)

	machine.Reset()

	require.Len(t, *reports, 1)
	assert.Equal(t, sessionReport{cycles: 3, focused: 180}, (*reports)[0])
	assert.Equal(t, model.TimerState{Remaining: 60, IsRunning: false, IsWork: true, Cycles: 0}, machine.State())
	assert.Zero(t, machine.FocusedSeconds())
}

func TestReset_NoNotificationWithoutCycles(t *testing.T) {
	machine, _, reports := newTestMachine(t, settings(25, 5))
	machine.Start()
	tickN(machine, 100)

	machine.Reset()

	assert.Empty(t, *reports)
	assert.Equal(t, model.InitialState(settings(25, 5)), machine.State())
	assert.Zero(t, machine.FocusedSeconds())
}

func TestReset_EmitsSessionCompleteEvent(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(1, 1))
	machine.Start()
	finishPhase(machine)

	events := machine.Subscribe(4)
	machine.Reset()

	complete := waitEvent(t, events)
	assert.Equal(t, EventSessionComplete, complete.Type)
	assert.Equal(t, 1, complete.State.Cycles)
	assert.Equal(t, 60, complete.Focused)

	reset := waitEvent(t, events)
	assert.Equal(t, EventReset, reset.Type)
	assert.Zero(t, reset.State.Cycles)
}

func TestPhaseCompletion_SideEffects(t *testing.T) {
	tests := []struct {
		name         string
		soundEnabled bool
		wantTones    int
	}{
		{name: "sound enabled", soundEnabled: true, wantTones: 1},
		{name: "sound disabled", soundEnabled: false, wantTones: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			s := settings(1, 1)
			s.SoundEnabled = tt.soundEnabled
			machine := New(s, Config{Clock: clockwork.NewFakeClock(), Notifier: notifier})
			defer machine.Close()

			machine.Start()
			finishPhase(machine)

			assert.Eventually(t, func() bool {
				_, vibrates := notifier.counts()
				return vibrates == 1
			}, time.Second, 5*time.Millisecond)
			tones, _ := notifier.counts()
			assert.Equal(t, tt.wantTones, tones)
		})
	}
}

func TestStart_IsIdempotent(t *testing.T) {
	machine, clock, _ := newTestMachine(t, settings(25, 5))
	events := machine.Subscribe(8)

	machine.Start()
	machine.Start()
	assert.Equal(t, EventStarted, waitEvent(t, events).Type)
	assertNoEvent(t, events)

	clock.Advance(time.Second)
	tick := waitEvent(t, events)
	assert.Equal(t, EventTick, tick.Type)
	assert.Equal(t, 1499, tick.State.Remaining)
	assertNoEvent(t, events)
	assert.Equal(t, 1499, machine.State().Remaining)
}

func TestPause_CancelsTicker(t *testing.T) {
	machine, clock, _ := newTestMachine(t, settings(25, 5))
	events := machine.Subscribe(8)

	machine.Start()
	waitEvent(t, events)
	clock.Advance(time.Second)
	waitEvent(t, events)

	machine.Pause()
	assert.Equal(t, EventPaused, waitEvent(t, events).Type)
	machine.Pause()
	assertNoEvent(t, events)

	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
	}
	assertNoEvent(t, events)
	state := machine.State()
	assert.False(t, state.IsRunning)
	assert.Equal(t, 1499, state.Remaining)
}

func TestTicker_DrivesPhaseCompletion(t *testing.T) {
	machine, clock, _ := newTestMachine(t, settings(1, 1))
	events := machine.Subscribe(8)
	machine.Start()
	waitEvent(t, events)

	var last Event
	for i := 0; i < 61; i++ {
		clock.Advance(time.Second)
		last = waitEvent(t, events)
	}

	assert.Equal(t, EventPhaseComplete, last.Type)
	assert.False(t, last.State.IsWork)
	assert.Equal(t, 60, last.State.Remaining)
	assert.Equal(t, 1, last.State.Cycles)
	assert.Equal(t, 60, last.Focused)
}

func TestUpdateSettings_RebasesActivePhase(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(25, 5))
	machine.Start()
	tickN(machine, 10)

	machine.UpdateSettings(settings(25, 5))
	assert.Equal(t, 1500, machine.State().Remaining, "unchanged durations still re-base")

	machine.UpdateSettings(settings(30, 5))
	state := machine.State()
	assert.Equal(t, 1800, state.Remaining)
	assert.True(t, state.IsRunning)
}

func TestUpdateSettings_KeyedOnCurrentPhase(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(1, 5))
	machine.Start()
	finishPhase(machine)
	tickN(machine, 20)
	require.False(t, machine.State().IsWork)

	machine.UpdateSettings(settings(50, 5))

	assert.Equal(t, 300, machine.State().Remaining)
}

func TestSetSoundEnabled_DoesNotRebase(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(25, 5))
	machine.Start()
	tickN(machine, 10)

	machine.SetSoundEnabled(false)

	assert.Equal(t, 1490, machine.State().Remaining)
	assert.False(t, machine.Settings().SoundEnabled)
}

func TestProgress(t *testing.T) {
	machine, _, _ := newTestMachine(t, settings(1, 1))
	assert.Zero(t, machine.Progress())

	machine.Start()
	tickN(machine, 15)
	assert.InDelta(t, 0.25, machine.Progress(), 0.0001)

	tickN(machine, 45)
	assert.InDelta(t, 1.0, machine.Progress(), 0.0001)
}

func TestClose_StopsTickingAndClosesObservers(t *testing.T) {
	clock := clockwork.NewFakeClock()
	machine := New(settings(25, 5), Config{Clock: clock})
	events := machine.Subscribe(4)

	machine.Start()
	waitEvent(t, events)
	machine.Close()
	machine.Close()

	_, ok := <-events
	assert.False(t, ok)

	clock.Advance(time.Second)
	machine.Start()
	state := machine.State()
	assert.False(t, state.IsRunning)
	assert.Equal(t, 1500, state.Remaining)

	late := machine.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}
