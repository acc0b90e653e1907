//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Config sizes the host display and selects optional devices.
type Config struct {
	Width  int
	Height int
	// Stride in pixel cells; 0 means Width.
	Stride int
	Mute   bool
	// Log receives debug-channel lines; nil means stdout.
	Log io.Writer
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = 320
	}
	if c.Height <= 0 {
		c.Height = 240
	}
	if c.Stride < c.Width {
		c.Stride = c.Width
	}
	if c.Log == nil {
		c.Log = os.Stdout
	}
	return c
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	t      *hostTime
	aud    Audio
}

// New returns a host HAL implementation.
func New(cfg Config) HAL {
	return newHost(cfg)
}

func newHost(cfg Config) *hostHAL {
	cfg = cfg.withDefaults()
	var aud Audio = nullAudio{}
	if !cfg.Mute {
		aud = newHostAudio()
	}
	return &hostHAL{
		logger: &hostLogger{w: cfg.Log},
		fb:     newHostFramebuffer(cfg.Width, cfg.Height, cfg.Stride),
		kbd:    newHostKeyboard(),
		t:      newHostTime(),
		aud:    aud,
	}
}

func (h *hostHAL) Logger() Logger           { return h.logger }
func (h *hostHAL) Framebuffer() Framebuffer { return h.fb }
func (h *hostHAL) Keyboard() Keyboard       { return h.kbd }
func (h *hostHAL) Clock() Clock             { return h.t }
func (h *hostHAL) Audio() Audio             { return h.aud }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
