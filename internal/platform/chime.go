package platform

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	chimeSampleRate = beep.SampleRate(44100)
	chimeFrequency  = 880.0
	chimeLength     = 180 * time.Millisecond
	chimeGain       = 0.05
)

// Chime plays a short sine tone on the default audio device. When no audio
// device is available every call is a silent no-op.
type Chime struct {
	once   sync.Once
	ready  bool
	logger *slog.Logger

	initSpeaker func(beep.SampleRate, int) error
	play        func(...beep.Streamer)
}

// NewChime returns a chime backed by the beep speaker.
func NewChime(logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{
		logger:      logger,
		initSpeaker: speaker.Init,
		play:        speaker.Play,
	}
}

// Play queues the tone and returns immediately.
func (chime *Chime) Play() {
	chime.once.Do(func() {
		bufferSize := chimeSampleRate.N(time.Second / 20)
		if err := chime.initSpeaker(chimeSampleRate, bufferSize); err != nil {
			chime.logger.Info("audio unavailable, chime disabled", "error", err)
			return
		}
		chime.ready = true
	})
	if !chime.ready {
		return
	}
	chime.play(toneStreamer(chimeSampleRate, chimeFrequency, chimeGain, chimeLength))
}

// toneStreamer renders a sine wave of the given length.
func toneStreamer(sampleRate beep.SampleRate, frequency, gain float64, length time.Duration) beep.Streamer {
	step := 2 * math.Pi * frequency / float64(sampleRate)
	phase := 0.0
	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := gain * math.Sin(phase)
			samples[i][0] = value
			samples[i][1] = value
			phase += step
		}
		return len(samples), true
	})
	return beep.Take(sampleRate.N(length), sine)
}
