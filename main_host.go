//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"pz/app"
	"pz/hal"
	"pz/internal/buildinfo"
	"pz/internal/logging"
)

// varsFlag collects repeated -set name=value flags.
type varsFlag map[string]string

func (v varsFlag) String() string { return fmt.Sprint(map[string]string(v)) }

func (v varsFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	v[name] = value
	return nil
}

func main() {
	var (
		cfg      hal.Config
		hc       hal.HeadlessConfig
		terminal bool
		scale    int
		logLevel string
		scriptP  string
		initP    string
		label    string
		once     bool
		vars     = varsFlag{}
	)
	flag.StringVar(&scriptP, "script", "", "Script run on the background loop (required).")
	flag.StringVar(&initP, "init", "", "Script evaluated once before the loop starts.")
	flag.StringVar(&label, "label", "", "Name used for the script in stack traces (default: file name).")
	flag.BoolVar(&once, "once", false, "Evaluate the script a single time instead of looping it.")
	flag.Var(vars, "set", "Bind a global string before evaluation: name=value (repeatable).")
	flag.IntVar(&cfg.Width, "width", 320, "Framebuffer width.")
	flag.IntVar(&cfg.Height, "height", 240, "Framebuffer height.")
	flag.BoolVar(&cfg.Mute, "mute", false, "Disable audio output.")
	flag.IntVar(&scale, "scale", 2, "Window scale factor.")
	flag.BoolVar(&hc.Enabled, "headless", false, "Run without a window.")
	flag.BoolVar(&terminal, "terminal", false, "Draw into the terminal instead of a window.")
	flag.IntVar(&hc.Hz, "hz", 60, "Tick rate in headless and terminal mode.")
	flag.Uint64Var(&hc.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&logLevel, "log-level", "info", "debug|info|warn|error.")
	flag.Parse()

	envInt("PZ_SCALE", &scale)
	envInt("PZ_HZ", &hc.Hz)
	if v := os.Getenv("PZ_LOG_LEVEL"); v != "" {
		logLevel = v
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(logLevel),
	})))
	logging.Logger().Info("starting", buildinfo.Attr())

	if scriptP == "" {
		fmt.Fprintln(os.Stderr, "usage: pz -script game.js [-init lib.js] [-headless|-terminal]")
		os.Exit(2)
	}
	ac, err := loadConfig(scriptP, initP, label, once, vars)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var a *app.App
	var startErr error
	newApp := func(h hal.HAL) func() error {
		a, startErr = app.New(h, ac)
		if startErr != nil {
			return func() error { return startErr }
		}
		return a.Step
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case hc.Enabled:
		err = hal.RunHeadless(ctx, cfg, hc, newApp)
	case terminal:
		err = hal.RunTerminal(ctx, cfg, hc.Hz, newApp)
	default:
		err = hal.RunWindow(cfg, scale, newApp)
	}
	if a != nil {
		a.Close()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		if se, ok := app.ScriptError(err); ok {
			logging.Logger().Error("script failed", "label", se.Label)
			fmt.Fprintln(os.Stderr, se.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func loadConfig(scriptPath, initPath, label string, once bool, vars map[string]string) (app.Config, error) {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return app.Config{}, fmt.Errorf("read script: %w", err)
	}
	if label == "" {
		label = scriptPath
	}
	cfg := app.Config{
		Script: string(src),
		Label:  label,
		Once:   once,
		Vars:   vars,
	}
	if initPath != "" {
		init, err := os.ReadFile(initPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("read init script: %w", err)
		}
		cfg.Init = string(init)
		cfg.InitLabel = initPath
	}
	return cfg, nil
}

func envInt(name string, dst *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
