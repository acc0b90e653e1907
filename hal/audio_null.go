package hal

import "github.com/gopxl/beep"

// DefaultSampleRate is used by hosts without a fixed device rate.
const DefaultSampleRate = beep.SampleRate(44100)

type nullAudio struct{}

func (nullAudio) SampleRate() beep.SampleRate          { return DefaultSampleRate }
func (nullAudio) Play(_ beep.Streamer, _ beep.SampleRate) {}

// toPCM16 clamps a beep sample to [-1, 1] and scales it to signed 16 bits.
func toPCM16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
