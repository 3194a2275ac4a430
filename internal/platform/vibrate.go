package platform

import (
	"log/slog"
	"time"
)

// VibrationPattern is the on/off haptic pattern fired on phase completion.
var VibrationPattern = []time.Duration{200 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// Vibrator triggers a short haptic pattern.
type Vibrator interface {
	Vibrate(pattern []time.Duration)
}

// NewVibrator returns the vibrator for this platform. Desktop targets have no
// haptic hardware, so the returned vibrator only records the request.
func NewVibrator(logger *slog.Logger) Vibrator {
	if logger == nil {
		logger = slog.Default()
	}
	return noopVibrator{logger: logger}
}

type noopVibrator struct {
	logger *slog.Logger
}

func (vibrator noopVibrator) Vibrate(pattern []time.Duration) {
	vibrator.logger.Debug("vibration unsupported on this platform", "pattern", pattern)
}

// DeviceNotifier fires the tone and haptic pattern for phase completions.
type DeviceNotifier struct {
	Chime    *Chime
	Vibrator Vibrator
}

// PlayTone plays the completion chime.
func (notifier DeviceNotifier) PlayTone() {
	if notifier.Chime != nil {
		notifier.Chime.Play()
	}
}

// Vibrate fires the completion vibration pattern.
func (notifier DeviceNotifier) Vibrate() {
	if notifier.Vibrator != nil {
		notifier.Vibrator.Vibrate(VibrationPattern)
	}
}
