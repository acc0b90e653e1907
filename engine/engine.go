// Package engine ties the sprite store, the display, input, timing and
// sound together behind the typed operations that scripts call.
//
// An Engine owns all of its state; independent engines never share
// anything, which keeps tests isolated.
package engine

import (
	"fmt"
	"time"

	"pz/hal"
	"pz/internal/logging"
	"pz/script"
	"pz/sfx"
	"pz/sprite"
)

var _ script.Natives = (*Engine)(nil)

type Engine struct {
	hal    hal.HAL
	fb     hal.Framebuffer
	store  *sprite.Store
	sounds *sfx.Bank
	bridge *script.Bridge

	sleep func(time.Duration)
}

type Option func(*Engine, *[]script.Option)

// WithScriptOptions passes options through to the script bridge.
func WithScriptOptions(opts ...script.Option) Option {
	return func(_ *Engine, so *[]script.Option) { *so = append(*so, opts...) }
}

// WithSleep replaces time.Sleep for the sleep native.
func WithSleep(fn func(time.Duration)) Option {
	return func(e *Engine, _ *[]script.Option) { e.sleep = fn }
}

// New builds an engine on h and a script bridge bound to it. Fatal script
// engine errors are also written to h's logger.
func New(h hal.HAL, opts ...Option) *Engine {
	e := &Engine{
		hal:    h,
		fb:     h.Framebuffer(),
		store:  sprite.NewStore(),
		sounds: sfx.NewBank(),
		sleep:  time.Sleep,
	}
	sopts := []script.Option{script.WithErrorLog(func(msg string) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(msg)
		}
	})}
	for _, opt := range opts {
		opt(e, &sopts)
	}
	e.bridge = script.New(e, sopts...)
	return e
}

// Bridge returns the engine's script bridge.
func (e *Engine) Bridge() *script.Bridge { return e.bridge }

// Store returns the sprite store, for host-side compositing.
func (e *Engine) Store() *sprite.Store { return e.store }

// Sounds returns the sound bank.
func (e *Engine) Sounds() *sfx.Bank { return e.sounds }

// Close stops any background script loop.
func (e *Engine) Close() {
	e.bridge.Close()
}

// CreateSprite adds a sprite; sizes past sprite.MaxCells are refused.
func (e *Engine) CreateSprite(width, height int) (int, error) {
	h, err := e.store.Create(width, height)
	if err != nil {
		return -1, fmt.Errorf("create sprite: %w", err)
	}
	return int(h), nil
}

func (e *Engine) ClearSprites() {
	e.store.ClearAll()
}

// FillRect parses color and fills; an unknown handle is ignored.
func (e *Engine) FillRect(handle int, color string, x, y, w, h int) error {
	c, err := sprite.ParseWebColor(color)
	if err != nil {
		return err
	}
	if err := e.store.FillRect(sprite.Handle(handle), c, x, y, w, h); err != nil {
		return fmt.Errorf("fill rect on sprite %d: %w", handle, err)
	}
	return nil
}

func (e *Engine) Blit(dst, src, x, y int) error {
	return e.store.Blit(sprite.Handle(dst), sprite.Handle(src), x, y)
}

func (e *Engine) RenderSprite(handle int) error {
	if e.fb == nil {
		return fmt.Errorf("render sprite %d: %w", handle, hal.ErrNotImplemented)
	}
	return e.store.Render(sprite.Handle(handle), e.fb)
}

func (e *Engine) Sleep(d time.Duration) {
	if d > 0 {
		e.sleep(d)
	}
}

func (e *Engine) ElapsedTicks() int64 {
	c := e.hal.Clock()
	if c == nil {
		return 0
	}
	return int64(c.Ticks())
}

func (e *Engine) ElapsedSeconds() float64 {
	c := e.hal.Clock()
	if c == nil {
		return 0
	}
	return c.Elapsed().Seconds()
}

func (e *Engine) ScreenWidth() int {
	if e.fb == nil {
		return 0
	}
	return e.fb.Width()
}

func (e *Engine) ScreenHeight() int {
	if e.fb == nil {
		return 0
	}
	return e.fb.Height()
}

// PollEvent pops one queued key event without blocking. An empty queue
// yields key 0, not pressed.
func (e *Engine) PollEvent() (key int, press bool) {
	kbd := e.hal.Keyboard()
	if kbd == nil {
		return 0, false
	}
	select {
	case ev, ok := <-kbd.Events():
		if !ok {
			return 0, false
		}
		return ev.Key(), ev.Press
	default:
		return 0, false
	}
}

func (e *Engine) PresentFrame() error {
	if e.fb == nil {
		return nil
	}
	return e.fb.Present()
}

func (e *Engine) FillScreen(color string) error {
	c, err := sprite.ParseWebColor(color)
	if err != nil {
		return err
	}
	if e.fb != nil {
		sprite.FillScreen(e.fb, c)
	}
	return nil
}

// GenerateSound renders the effect for seed unless it is cached.
func (e *Engine) GenerateSound(seed int) {
	e.sounds.Generate(seed)
}

// PlaySound starts a cached effect. Unknown seeds are logged and ignored.
func (e *Engine) PlaySound(seed int) {
	buf, ok := e.sounds.Lookup(seed)
	if !ok {
		logging.Logger().Warn("could not find sound", "seed", seed)
		return
	}
	a := e.hal.Audio()
	if a == nil {
		return
	}
	a.Play(buf.Streamer(0, buf.Len()), buf.Format().SampleRate)
}

// Print writes one line to the debug channel.
func (e *Engine) Print(msg string) {
	if l := e.hal.Logger(); l != nil {
		l.WriteLineString(msg)
	}
}
