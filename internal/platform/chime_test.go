package platform

import (
	"errors"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChime(initErr error) (*Chime, *int, *[]beep.Streamer) {
	inits := 0
	played := []beep.Streamer{}
	chime := NewChime(nil)
	chime.initSpeaker = func(beep.SampleRate, int) error {
		inits++
		return initErr
	}
	chime.play = func(streamers ...beep.Streamer) {
		played = append(played, streamers...)
	}
	return chime, &inits, &played
}

func TestChime_InitialisesSpeakerOnce(t *testing.T) {
	chime, inits, played := newTestChime(nil)

	chime.Play()
	chime.Play()

	assert.Equal(t, 1, *inits)
	assert.Len(t, *played, 2)
}

func TestChime_SilentWithoutAudioDevice(t *testing.T) {
	chime, inits, played := newTestChime(errors.New("no audio device"))

	chime.Play()
	chime.Play()

	assert.Equal(t, 1, *inits)
	assert.Empty(t, *played)
}

func TestToneStreamer_LengthAndGain(t *testing.T) {
	streamer := toneStreamer(chimeSampleRate, chimeFrequency, chimeGain, chimeLength)

	total := 0
	peak := 0.0
	buffer := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buffer)
		for _, sample := range buffer[:n] {
			assert.Equal(t, sample[0], sample[1])
			if sample[0] > peak {
				peak = sample[0]
			}
		}
		total += n
		if !ok {
			break
		}
	}

	require.Equal(t, chimeSampleRate.N(180*time.Millisecond), total)
	assert.LessOrEqual(t, peak, chimeGain)
	assert.Greater(t, peak, chimeGain*0.9)
}
