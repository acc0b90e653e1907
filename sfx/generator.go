// Package sfx synthesizes short retro sound effects from an integer seed
// and caches them by seed.
package sfx

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// SampleRate is the rate every generated effect is rendered at.
const SampleRate = beep.SampleRate(44100)

// Format describes the buffers Generate returns.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 1, Precision: 2}

// Wave selects the oscillator shape.
type Wave int

const (
	WaveSquare Wave = iota
	WaveSaw
	WaveSine
	WaveNoise
	waveCount
)

// Params fully determines one effect.
type Params struct {
	Wave    Wave
	Freq    float64 // starting frequency in Hz
	Slide   float64 // frequency change in Hz per second
	Duty    float64 // square wave duty cycle in (0, 1)
	Attack  time.Duration
	Sustain time.Duration
	Decay   time.Duration
	Volume  float64
	Noise   int64 // seed for the noise wave
}

// ParamsFromSeed derives effect parameters from seed. The same seed always
// yields the same parameters.
func ParamsFromSeed(seed int) Params {
	r := rand.New(rand.NewSource(int64(seed)))
	p := Params{
		Wave:    Wave(r.Intn(int(waveCount))),
		Freq:    110 + r.Float64()*1650,
		Duty:    0.2 + r.Float64()*0.6,
		Attack:  time.Duration(r.Intn(20)) * time.Millisecond,
		Sustain: time.Duration(40+r.Intn(200)) * time.Millisecond,
		Decay:   time.Duration(50+r.Intn(300)) * time.Millisecond,
		Volume:  0.5,
		Noise:   r.Int63(),
	}
	// Mostly downward slides, like pickups and hits.
	p.Slide = (r.Float64()*2 - 1.5) * p.Freq
	return p
}

// Duration is the total length of the effect.
func (p Params) Duration() time.Duration {
	return p.Attack + p.Sustain + p.Decay
}

// Generate renders the effect for seed into a lo-fi buffer.
func Generate(seed int) *beep.Buffer {
	buf := beep.NewBuffer(Format)
	buf.Append(Lofi(NewVoice(ParamsFromSeed(seed)), 6, 2))
	return buf
}

// voice is an oscillator with a frequency slide and a linear
// attack/sustain/decay envelope.
type voice struct {
	p     Params
	rng   *rand.Rand
	phase float64
	pos   int

	attack, sustain, total int
	noise                  float64
}

// NewVoice returns a finite mono-in-stereo stream of p.
func NewVoice(p Params) beep.Streamer {
	attack := SampleRate.N(p.Attack)
	sustain := SampleRate.N(p.Sustain)
	return &voice{
		p:       p,
		rng:     rand.New(rand.NewSource(p.Noise)),
		attack:  attack,
		sustain: sustain,
		total:   attack + sustain + SampleRate.N(p.Decay),
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	if v.pos >= v.total {
		return 0, false
	}
	for i := range samples {
		if v.pos >= v.total {
			return i, true
		}
		val := v.wave() * v.envelope() * v.p.Volume
		samples[i][0] = val
		samples[i][1] = val

		t := float64(v.pos) / float64(SampleRate)
		freq := math.Max(v.p.Freq+v.p.Slide*t, 20)
		prev := v.phase
		v.phase += freq / float64(SampleRate)
		v.phase -= math.Floor(v.phase)
		if v.phase < prev {
			v.noise = v.rng.Float64()*2 - 1
		}
		v.pos++
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

func (v *voice) wave() float64 {
	switch v.p.Wave {
	case WaveSquare:
		if v.phase < v.p.Duty {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (v.phase - 0.5)
	case WaveSine:
		return math.Sin(2 * math.Pi * v.phase)
	default:
		return v.noise
	}
}

func (v *voice) envelope() float64 {
	switch {
	case v.pos < v.attack:
		return float64(v.pos) / float64(v.attack)
	case v.pos < v.attack+v.sustain:
		return 1
	default:
		decay := v.total - v.attack - v.sustain
		if decay <= 0 {
			return 0
		}
		return float64(v.total-v.pos) / float64(decay)
	}
}

// lofi reduces bit depth and holds each sample for several frames.
type lofi struct {
	s     beep.Streamer
	steps float64
	hold  int
	n     int
	last  [2]float64
}

// Lofi quantizes s to the given bit depth and repeats every hold-th frame.
func Lofi(s beep.Streamer, bits, hold int) beep.Streamer {
	if bits < 1 {
		bits = 1
	}
	if hold < 1 {
		hold = 1
	}
	return &lofi{s: s, steps: float64(int(1) << (bits - 1)), hold: hold}
}

func (l *lofi) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = l.s.Stream(samples)
	for i := 0; i < n; i++ {
		if l.n%l.hold == 0 {
			l.last[0] = math.Round(samples[i][0]*l.steps) / l.steps
			l.last[1] = math.Round(samples[i][1]*l.steps) / l.steps
		}
		samples[i] = l.last
		l.n++
	}
	return n, ok
}

func (l *lofi) Err() error { return l.s.Err() }
