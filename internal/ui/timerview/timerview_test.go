package timerview

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomify/internal/core/model"
	"pomify/internal/core/timer"
	"pomify/internal/models"
)

func TestRingPixel(t *testing.T) {
	const size = 100

	// Centre of the dial is inside the inner radius.
	assert.Equal(t, color.Transparent, ringPixel(50, 50, size, size, 0.5, true))
	// Corner is outside the outer radius.
	assert.Equal(t, color.Transparent, ringPixel(0, 0, size, size, 0.5, true))

	top := func(progress float64, isWork bool) color.Color { return ringPixel(50, 2, size, size, progress, isWork) }
	right := func(progress float64) color.Color { return ringPixel(97, 50, size, size, progress, true) }
	left := func(progress float64) color.Color { return ringPixel(2, 50, size, size, progress, true) }

	assert.Equal(t, workColor, top(0.01, true))
	assert.Equal(t, breakColor, top(0.01, false))
	assert.Equal(t, workColor, right(0.5))
	assert.Equal(t, trackColor, left(0.5))
	assert.Equal(t, workColor, left(1))
	assert.Equal(t, trackColor, right(0))
}

func TestRingPixel_DegenerateSize(t *testing.T) {
	assert.Equal(t, color.Transparent, ringPixel(0, 0, 1, 1, 1, true))
}

func TestEventOptions(t *testing.T) {
	options := eventOptions([]models.Event{
		{ID: "a", Title: "Thesis", TotalFocusTime: 3900},
		{ID: "b", Title: "Inbox"},
	})

	require.Len(t, options, 3)
	assert.Equal(t, noEventOption, options[0])
	assert.Equal(t, "Thesis (1h 5m)", options[1])
	assert.Equal(t, "Inbox (0m)", options[2])
}

func TestPhaseText(t *testing.T) {
	assert.Equal(t, "Focus", phaseText(true))
	assert.Equal(t, "Break", phaseText(false))
}

func TestWindow_ApplyAndSelection(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var selected []string
	var added []string
	initial := timer.Event{State: model.InitialState(model.DefaultTimerSettings())}
	view := New(app, initial, Callbacks{
		OnEventSelected: func(id string) { selected = append(selected, id) },
		OnAddEvent:      func(title string) { added = append(added, title) },
	})

	assert.Equal(t, "25:00", view.timeLabel.Text)
	assert.Equal(t, "Focus", view.phaseLabel.Text)
	assert.False(t, view.startButton.Disabled())
	assert.True(t, view.pauseButton.Disabled())

	view.apply(timer.Event{
		State:    model.TimerState{Remaining: 299, IsRunning: true, IsWork: false, Cycles: 2},
		Progress: 0.5,
	})
	assert.Equal(t, "04:59", view.timeLabel.Text)
	assert.Equal(t, "Break", view.phaseLabel.Text)
	assert.Equal(t, "2 cycles", view.cyclesLabel.Text)
	assert.True(t, view.startButton.Disabled())
	assert.False(t, view.pauseButton.Disabled())

	view.events = []models.Event{{ID: "e1", Title: "Thesis"}}
	view.eventSelect.Options = eventOptions(view.events)
	view.eventSelect.SetSelectedIndex(1)
	assert.Equal(t, "e1", view.SelectedEventID())
	view.eventSelect.SetSelectedIndex(0)
	assert.Equal(t, "", view.SelectedEventID())
	assert.Equal(t, []string{"e1", ""}, selected)

	view.newEvent.SetText("  Write report ")
	view.handleAdd()
	view.newEvent.SetText("   ")
	view.handleAdd()
	assert.Equal(t, []string{"Write report"}, added)
	assert.Empty(t, view.newEvent.Text)
}
