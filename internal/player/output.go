package player

import (
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// output is the audio sink the player mixes into.
type output interface {
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// speakerOutput plays through the system audio device.
type speakerOutput struct{}

func openSpeaker(rate beep.SampleRate, buffer time.Duration) (speakerOutput, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return speakerOutput{}, err
	}
	return speakerOutput{}, nil
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Clear()               { speaker.Clear() }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }
