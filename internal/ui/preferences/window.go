package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomify/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	prefs     model.Preferences
	onSave    func(model.Preferences)
	work      *widget.Entry
	brk       *widget.Entry
	sound     *widget.Check
	idleCheck *widget.Check
	idleAfter *widget.Entry
}

// New creates a preferences window.
func New(app fyne.App, prefs model.Preferences, onSave func(model.Preferences)) *Window {
	window := app.NewWindow("Pomify Settings")

	work := widget.NewEntry()
	brk := widget.NewEntry()
	idleAfter := widget.NewEntry()
	sound := widget.NewCheck("Play a tone when a phase ends", nil)
	idleCheck := widget.NewCheck("Pause the timer when I'm away", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Focus for"), work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break for"), brk, widget.NewLabel("min")),
		sound,
		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		idleCheck,
		container.NewHBox(widget.NewLabel("Away after"), idleAfter, widget.NewLabel("min")),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	view := &Window{
		window:    window,
		onSave:    onSave,
		work:      work,
		brk:       brk,
		sound:     sound,
		idleCheck: idleCheck,
		idleAfter: idleAfter,
	}
	view.UpdatePreferences(prefs)

	saveButton.OnTapped = view.handleSave
	cancelButton.OnTapped = func() {
		view.UpdatePreferences(view.prefs)
		window.Hide()
	}

	return view
}

// Show displays the preferences window.
func (view *Window) Show() {
	view.window.Show()
	view.window.RequestFocus()
}

// UpdatePreferences replaces window values.
func (view *Window) UpdatePreferences(prefs model.Preferences) {
	view.prefs = prefs
	view.work.SetText(strconv.Itoa(prefs.Timer.WorkDuration))
	view.brk.SetText(strconv.Itoa(prefs.Timer.BreakDuration))
	view.sound.SetChecked(prefs.Timer.SoundEnabled)
	view.idleCheck.SetChecked(prefs.PauseWhenIdle)
	view.idleAfter.SetText(fmt.Sprintf("%d", int(prefs.IdleAfter.Minutes())))
}

func (view *Window) handleSave() {
	view.prefs = view.collect()
	if view.onSave != nil {
		view.onSave(view.prefs)
	}
	view.window.Hide()
}

// collect reads the form. Fields that do not hold a positive whole number
// keep their previous value.
func (view *Window) collect() model.Preferences {
	prefs := view.prefs

	if minutes, ok := parsePositiveInt(view.work.Text); ok {
		prefs.Timer.WorkDuration = minutes
	}
	if minutes, ok := parsePositiveInt(view.brk.Text); ok {
		prefs.Timer.BreakDuration = minutes
	}
	if minutes, ok := parsePositiveInt(view.idleAfter.Text); ok {
		prefs.IdleAfter = time.Duration(minutes) * time.Minute
	}
	prefs.Timer.SoundEnabled = view.sound.Checked
	prefs.PauseWhenIdle = view.idleCheck.Checked

	return prefs
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
