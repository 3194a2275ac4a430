package timer

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"pomify/internal/core/model"
)

// Notifier fires the phase-completion side effects. Implementations must
// tolerate missing audio or haptic hardware by doing nothing.
type Notifier interface {
	PlayTone()
	Vibrate()
}

// SessionCompleteFunc receives the cycle count and focused seconds of a
// session that is being reset with at least one completed cycle.
type SessionCompleteFunc func(cycles, focusedSeconds int)

// Config contains runtime options for Machine.
type Config struct {
	TickInterval      time.Duration
	Clock             clockwork.Clock
	Notifier          Notifier
	OnSessionComplete SessionCompleteFunc
	Logger            *slog.Logger
}

// Machine is the pomodoro countdown state machine.
type Machine struct {
	mu       sync.Mutex
	options  Config
	settings model.TimerSettings
	state    model.TimerState
	// focused counts seconds ticked during work phases since the last reset.
	focused int

	stopCh     chan struct{}
	generation uint64
	events     []chan Event
	closed     bool
}

// New creates an idle Machine in the work phase.
func New(settings model.TimerSettings, options Config) *Machine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Notifier == nil {
		options.Notifier = silentNotifier{}
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Machine{
		options:  options,
		settings: settings,
		state:    model.InitialState(settings),
	}
}

// Subscribe registers a new observer channel. Events are dropped for
// observers whose buffer is full.
func (machine *Machine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if machine.closed {
		close(ch)
		return ch
	}
	machine.events = append(machine.events, ch)
	return ch
}

// State returns a copy of the current state.
func (machine *Machine) State() model.TimerState {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.state
}

// Settings returns the active settings.
func (machine *Machine) Settings() model.TimerSettings {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.settings
}

// FocusedSeconds returns the seconds spent ticking in work phases since the last reset.
func (machine *Machine) FocusedSeconds() int {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.focused
}

// Progress returns the elapsed fraction of the active phase in [0, 1].
func (machine *Machine) Progress() float64 {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	return machine.progressLocked()
}

// FormatTime renders seconds as MM:SS.
func (machine *Machine) FormatTime(seconds int) string {
	return FormatTime(seconds)
}

// Start begins ticking. It is a no-op if the machine is already running.
func (machine *Machine) Start() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if machine.closed || machine.state.IsRunning {
		return
	}
	machine.state.IsRunning = true
	machine.startTickerLocked()
	machine.emitLocked(machine.eventLocked(EventStarted))
}

// Pause stops ticking. It is a no-op if the machine is not running.
func (machine *Machine) Pause() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if !machine.state.IsRunning {
		return
	}
	machine.state.IsRunning = false
	machine.stopTickerLocked()
	machine.emitLocked(machine.eventLocked(EventPaused))
}

// Tick advances the countdown by one second. Ticks while paused are ignored.
func (machine *Machine) Tick() {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if !machine.state.IsRunning {
		return
	}
	machine.tickLocked()
}

// Reset reports a session with at least one completed cycle to the
// OnSessionComplete callback and returns the machine to its initial state.
// The callback runs after the state has been cleared, outside the lock.
func (machine *Machine) Reset() {
	machine.mu.Lock()
	cycles := machine.state.Cycles
	focused := machine.focused
	callback := machine.options.OnSessionComplete

	if cycles > 0 {
		event := machine.eventLocked(EventSessionComplete)
		machine.emitLocked(event)
		machine.options.Logger.Debug("session complete", "cycles", cycles, "focused_seconds", focused)
	}

	machine.stopTickerLocked()
	machine.state = model.InitialState(machine.settings)
	machine.focused = 0
	machine.emitLocked(machine.eventLocked(EventReset))
	machine.mu.Unlock()

	if cycles > 0 && callback != nil {
		callback(cycles, focused)
	}
}

// UpdateSettings replaces the settings and re-bases the remaining time to the
// full duration of the active phase. The re-base happens on every call, also
// while running and also when the durations did not change.
func (machine *Machine) UpdateSettings(settings model.TimerSettings) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.settings = settings
	machine.state.Remaining = settings.PhaseSeconds(machine.state.IsWork)
	machine.emitLocked(machine.eventLocked(EventSettingsChanged))
}

// SetSoundEnabled toggles the completion tone without touching the countdown.
func (machine *Machine) SetSoundEnabled(enabled bool) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	machine.settings.SoundEnabled = enabled
}

// Close cancels the tick handle and closes observers. The machine cannot be
// started again afterwards.
func (machine *Machine) Close() {
	machine.mu.Lock()
	if machine.closed {
		machine.mu.Unlock()
		return
	}
	machine.closed = true
	machine.state.IsRunning = false
	machine.stopTickerLocked()
	events := machine.events
	machine.events = nil
	machine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (machine *Machine) startTickerLocked() {
	machine.generation++
	stopCh := make(chan struct{})
	machine.stopCh = stopCh
	ticker := machine.options.Clock.NewTicker(machine.options.TickInterval)
	go machine.run(ticker, stopCh, machine.generation)
}

func (machine *Machine) stopTickerLocked() {
	if machine.stopCh == nil {
		return
	}
	close(machine.stopCh)
	machine.stopCh = nil
	machine.generation++
}

func (machine *Machine) run(ticker clockwork.Ticker, stopCh <-chan struct{}, generation uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			machine.scheduledTick(generation)
		}
	}
}

// scheduledTick drops ticks from a ticker that was cancelled while its
// tick was already in flight.
func (machine *Machine) scheduledTick(generation uint64) {
	machine.mu.Lock()
	defer machine.mu.Unlock()
	if generation != machine.generation || !machine.state.IsRunning {
		return
	}
	machine.tickLocked()
}

func (machine *Machine) tickLocked() {
	if machine.state.Remaining > 0 {
		machine.state.Remaining--
		if machine.state.IsWork {
			machine.focused++
		}
		machine.emitLocked(machine.eventLocked(EventTick))
		return
	}
	machine.completePhaseLocked()
}

func (machine *Machine) completePhaseLocked() {
	notifier := machine.options.Notifier
	if machine.settings.SoundEnabled {
		go notifier.PlayTone()
	}
	go notifier.Vibrate()

	completedWork := machine.state.IsWork
	if completedWork {
		machine.state.Cycles++
	}
	machine.state.IsWork = !completedWork
	machine.state.Remaining = machine.settings.PhaseSeconds(machine.state.IsWork)

	machine.options.Logger.Debug("phase complete",
		"completed_work", completedWork,
		"cycles", machine.state.Cycles,
		"next_remaining", machine.state.Remaining,
	)
	machine.emitLocked(machine.eventLocked(EventPhaseComplete))
}

func (machine *Machine) progressLocked() float64 {
	total := machine.settings.PhaseSeconds(machine.state.IsWork)
	if total <= 0 {
		return 0
	}
	progress := float64(total-machine.state.Remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (machine *Machine) eventLocked(eventType EventType) Event {
	return Event{
		Type:     eventType,
		State:    machine.state,
		Progress: machine.progressLocked(),
		Focused:  machine.focused,
		At:       machine.options.Clock.Now(),
	}
}

func (machine *Machine) emitLocked(event Event) {
	for _, ch := range machine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

type silentNotifier struct{}

func (silentNotifier) PlayTone() {}

func (silentNotifier) Vibrate() {}
