//go:build !tinygo && cgo

package hal

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// hostAudio mixes every played stream with a beep.Mixer and feeds the mix
// to a single Ebiten audio player.
type hostAudio struct {
	mu    sync.Mutex
	once  sync.Once
	rate  beep.SampleRate
	mixer beep.Mixer

	player *audio.Player
	err    error
}

func newHostAudio() Audio {
	return &hostAudio{rate: DefaultSampleRate}
}

func (a *hostAudio) SampleRate() beep.SampleRate { return a.rate }

// start lazily opens the device; Ebiten allows only one audio context per
// process.
func (a *hostAudio) start() error {
	a.once.Do(func() {
		ctx := audio.CurrentContext()
		if ctx == nil {
			ctx = audio.NewContext(int(a.rate))
		} else {
			a.rate = beep.SampleRate(ctx.SampleRate())
		}
		p, err := ctx.NewPlayer(&hostAudioReader{a: a})
		if err != nil {
			a.err = err
			return
		}
		p.SetBufferSize(50 * time.Millisecond)
		p.Play()
		a.player = p
	})
	return a.err
}

func (a *hostAudio) Play(s beep.Streamer, rate beep.SampleRate) {
	if s == nil {
		return
	}
	if err := a.start(); err != nil {
		return
	}
	if rate != a.rate {
		s = beep.Resample(4, rate, a.rate, s)
	}
	a.mu.Lock()
	a.mixer.Add(s)
	a.mu.Unlock()
}

type hostAudioReader struct {
	a   *hostAudio
	buf [][2]float64
}

func (r *hostAudioReader) Read(p []byte) (int, error) {
	// Ebiten audio expects 16-bit little-endian stereo.
	n := len(p) / 4
	if cap(r.buf) < n {
		r.buf = make([][2]float64, n)
	}
	buf := r.buf[:n]

	r.a.mu.Lock()
	r.a.mixer.Stream(buf)
	r.a.mu.Unlock()

	for i, frame := range buf {
		l := toPCM16(frame[0])
		rr := toPCM16(frame[1])
		p[i*4+0] = byte(l)
		p[i*4+1] = byte(l >> 8)
		p[i*4+2] = byte(rr)
		p[i*4+3] = byte(rr >> 8)
	}
	return n * 4, nil
}
