package timerview

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pomify/internal/core/timer"
	"pomify/internal/models"
	"pomify/internal/tracker"
)

const noEventOption = "No event"

// Callbacks defines the timer window action handlers.
type Callbacks struct {
	OnStart         func()
	OnPause         func()
	OnReset         func()
	OnEventSelected func(eventID string)
	OnAddEvent      func(title string)
}

// Window is the main timer window.
type Window struct {
	window      fyne.Window
	timeLabel   *canvas.Text
	phaseLabel  *canvas.Text
	cyclesLabel *widget.Label
	ring        *canvas.Raster
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	eventSelect *widget.Select
	newEvent    *widget.Entry
	callbacks   Callbacks

	mu         sync.Mutex
	progress   float64
	isWork     bool
	events     []models.Event
	selectedID string
}

// New creates the timer window showing the given initial event.
func New(app fyne.App, initial timer.Event, callbacks Callbacks) *Window {
	window := app.NewWindow("Pomify")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	view := &Window{
		window:    window,
		callbacks: callbacks,
		isWork:    true,
	}

	view.timeLabel = canvas.NewText("--:--", textColor)
	view.timeLabel.Alignment = fyne.TextAlignCenter
	view.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	view.timeLabel.TextSize = 42

	view.phaseLabel = canvas.NewText("", workColor)
	view.phaseLabel.Alignment = fyne.TextAlignCenter
	view.phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	view.phaseLabel.TextSize = 16

	view.cyclesLabel = widget.NewLabel("")
	view.cyclesLabel.Alignment = fyne.TextAlignCenter

	view.ring = canvas.NewRasterWithPixels(func(x, y, w, h int) color.Color {
		view.mu.Lock()
		progress, isWork := view.progress, view.isWork
		view.mu.Unlock()
		return ringPixel(x, y, w, h, progress, isWork)
	})
	view.ring.SetMinSize(fyne.NewSize(220, 220))

	view.startButton = widget.NewButton("Start", func() { call(view.callbacks.OnStart) })
	view.pauseButton = widget.NewButton("Pause", func() { call(view.callbacks.OnPause) })
	view.resetButton = widget.NewButton("Reset", func() { call(view.callbacks.OnReset) })

	view.eventSelect = widget.NewSelect([]string{noEventOption}, func(string) { view.handleSelect() })
	view.eventSelect.SetSelectedIndex(0)

	view.newEvent = widget.NewEntry()
	view.newEvent.SetPlaceHolder("New event title")
	addButton := widget.NewButton("Add", view.handleAdd)
	view.newEvent.OnSubmitted = func(string) { view.handleAdd() }

	dial := container.NewStack(
		view.ring,
		container.NewCenter(container.NewVBox(view.phaseLabel, view.timeLabel, view.cyclesLabel)),
	)
	controls := container.NewGridWithColumns(3, view.startButton, view.pauseButton, view.resetButton)
	tracking := container.NewVBox(
		widget.NewLabelWithStyle("Working on", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		view.eventSelect,
		container.NewBorder(nil, nil, nil, addButton, view.newEvent),
	)

	window.SetContent(container.NewPadded(container.NewBorder(nil, container.NewVBox(controls, tracking), nil, nil, dial)))
	window.Resize(fyne.NewSize(360, 480))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	view.apply(initial)
	return view
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// Render updates the window from a timer event. Safe to call from any goroutine.
func (view *Window) Render(event timer.Event) {
	fyne.Do(func() {
		view.apply(event)
	})
}

// SetEvents replaces the selectable events, keeping the selection when the
// selected event is still present. Safe to call from any goroutine.
func (view *Window) SetEvents(events []models.Event) {
	fyne.Do(func() {
		view.mu.Lock()
		view.events = events
		selected := view.selectedID
		view.mu.Unlock()

		view.eventSelect.Options = eventOptions(events)
		index := 0
		for i, event := range events {
			if event.ID == selected {
				index = i + 1
			}
		}
		view.eventSelect.SetSelectedIndex(index)
		view.eventSelect.Refresh()
	})
}

// SelectedEventID returns the selected event id, or "" for no event.
func (view *Window) SelectedEventID() string {
	view.mu.Lock()
	defer view.mu.Unlock()
	return view.selectedID
}

func (view *Window) apply(event timer.Event) {
	view.mu.Lock()
	view.progress = event.Progress
	view.isWork = event.State.IsWork
	view.mu.Unlock()

	view.timeLabel.Text = timer.FormatTime(event.State.Remaining)
	view.timeLabel.Refresh()

	view.phaseLabel.Text = phaseText(event.State.IsWork)
	if event.State.IsWork {
		view.phaseLabel.Color = workColor
	} else {
		view.phaseLabel.Color = breakColor
	}
	view.phaseLabel.Refresh()

	view.cyclesLabel.SetText(tracker.FormatCycles(event.State.Cycles))

	if event.State.IsRunning {
		view.startButton.Disable()
		view.pauseButton.Enable()
	} else {
		view.startButton.Enable()
		view.pauseButton.Disable()
	}
	view.ring.Refresh()
}

func (view *Window) handleSelect() {
	index := view.eventSelect.SelectedIndex()

	view.mu.Lock()
	id := ""
	if index > 0 && index <= len(view.events) {
		id = view.events[index-1].ID
	}
	changed := id != view.selectedID
	view.selectedID = id
	view.mu.Unlock()

	if changed && view.callbacks.OnEventSelected != nil {
		view.callbacks.OnEventSelected(id)
	}
}

func (view *Window) handleAdd() {
	title := strings.TrimSpace(view.newEvent.Text)
	if title == "" {
		return
	}
	view.newEvent.SetText("")
	if view.callbacks.OnAddEvent != nil {
		view.callbacks.OnAddEvent(title)
	}
}

func phaseText(isWork bool) string {
	if isWork {
		return "Focus"
	}
	return "Break"
}

func eventOptions(events []models.Event) []string {
	options := make([]string, 0, len(events)+1)
	options = append(options, noEventOption)
	for _, event := range events {
		options = append(options, fmt.Sprintf("%s (%s)", event.Title, tracker.FormatFocus(event.TotalFocusTime)))
	}
	return options
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
