package app

import (
	"errors"
	"fmt"
	"sync"

	"pz/engine"
	"pz/hal"
	"pz/internal/logging"
	"pz/script"
)

// Config selects what the app runs.
type Config struct {
	// Init is evaluated once, synchronously, before Script starts.
	Init      string
	InitLabel string

	Script string
	Label  string
	// Once evaluates Script a single time instead of looping it.
	Once bool

	// Vars are bound as global strings before any evaluation.
	Vars map[string]string

	// Exit overrides os.Exit for fatal engine errors.
	Exit func(code int)
}

// App runs one engine and its script on a HAL.
type App struct {
	eng *engine.Engine

	mu  sync.Mutex
	err error

	// once is closed when a single-shot script returns.
	once chan struct{}
}

// New builds the engine, binds Vars, runs Init and starts Script.
func New(h hal.HAL, cfg Config) (*App, error) {
	a := &App{}
	sopts := []script.Option{
		script.WithLoopError(a.setErr),
		script.WithFatalHook(func(fe *script.FatalError) { showFatal(h, fe) }),
	}
	if cfg.Exit != nil {
		sopts = append(sopts, script.WithExit(cfg.Exit))
	}
	a.eng = engine.New(h, engine.WithScriptOptions(sopts...))
	b := a.eng.Bridge()

	for name, value := range cfg.Vars {
		if err := b.Set(name, value); err != nil {
			a.eng.Close()
			return nil, fmt.Errorf("set %s: %w", name, err)
		}
	}

	if cfg.Init != "" {
		if err := b.Eval(cfg.Init, cfg.InitLabel); err != nil {
			a.eng.Close()
			return nil, err
		}
	}

	if cfg.Script == "" {
		return a, nil
	}
	if cfg.Once {
		a.once = make(chan struct{})
		go func() {
			defer close(a.once)
			if err := b.Eval(cfg.Script, cfg.Label); err != nil {
				a.setErr(err)
			}
		}()
		return a, nil
	}
	if err := b.Start(cfg.Script, cfg.Label); err != nil {
		a.eng.Close()
		return nil, err
	}
	logging.Logger().Info("script loop running", "label", cfg.Label)
	return a, nil
}

// Engine exposes the underlying engine.
func (a *App) Engine() *engine.Engine { return a.eng }

// Step is called once per host frame. It returns the error that ended the
// script, which stops the host loop.
func (a *App) Step() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Close stops the background script and waits for it. A single-shot
// script is never interrupted; Close waits for it to return.
func (a *App) Close() {
	a.eng.Close()
	if a.once != nil {
		<-a.once
	}
}

func (a *App) setErr(err error) {
	if err == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err == nil {
		a.err = err
	}
}

// ScriptError extracts the script failure from an error returned by Step
// or New.
func ScriptError(err error) (*script.Error, bool) {
	var se *script.Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
