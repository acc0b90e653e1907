package hal

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// Framebuffer is the display surface the compositor renders into.
//
// Pixels are RGB565 cells laid out row-major with Stride cells per row
// (Stride >= Width). The framebuffer carries its own lock; writers hold it
// for the duration of a copy. Present publishes the back buffer to the
// display.
type Framebuffer interface {
	sync.Locker
	Width() int
	Height() int
	Stride() int
	Pixels() []uint16
	Present() error
}

// KeyCode identifies a non-text key. Values start above the Unicode BMP
// control range so that a key number can carry either a rune or a code.
type KeyCode uint16

const KeyUnknown KeyCode = 0

const (
	KeyUp KeyCode = 0x100 + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
	KeyHome
	KeyEnd
	KeySpace
	KeyF1
	KeyF2
	KeyF3
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Key folds the event into a single integer: the rune for text input,
// the KeyCode otherwise, 0 for an empty event.
func (e KeyEvent) Key() int {
	if e.Code != KeyUnknown {
		return int(e.Code)
	}
	return int(e.Rune)
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Clock reports time since the HAL was created.
type Clock interface {
	// Ticks returns elapsed milliseconds.
	Ticks() uint64
	Elapsed() time.Duration
}

// Audio plays streams mixed on top of whatever is already playing.
type Audio interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer, rate beep.SampleRate)
}

// HAL provides the only contact point between the engine and the outside world.
type HAL interface {
	Logger() Logger
	Framebuffer() Framebuffer
	Keyboard() Keyboard
	Clock() Clock
	Audio() Audio
}
