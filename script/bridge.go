// Package script runs JavaScript against the engine.
//
// A Bridge owns one goja runtime with the native table registered as
// globals. All evaluation, and therefore every native call a script makes,
// is serialized by the bridge lock. Host code that calls the engine
// directly does not take that lock.
package script

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"pz/internal/logging"

	"github.com/dop251/goja"
)

// ErrLoopRunning is returned by Start while a background loop is active.
var ErrLoopRunning = errors.New("script: background loop already running")

// Error is a script compile or runtime failure. The runtime stays usable.
type Error struct {
	Label string
	// Message is the exception's stack trace when it has one, otherwise
	// its string form.
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.err }

// FatalError describes a failure of the interpreter itself rather than of
// the script. It only escapes Eval when the exit hook returns.
type FatalError struct {
	Value any
	Stack []byte
}

func (e *FatalError) Error() string { return fmt.Sprintf("script: fatal engine error: %v", e.Value) }

// ExitCode is passed to the exit hook on a fatal engine error.
const ExitCode = 70

type Option func(*Bridge)

// WithErrorLog sets the channel that fatal errors are written to in
// addition to slog and stderr.
func WithErrorLog(fn func(msg string)) Option {
	return func(b *Bridge) { b.errorLog = fn }
}

// WithExit replaces os.Exit as the fatal-error exit hook.
func WithExit(fn func(code int)) Option {
	return func(b *Bridge) { b.exit = fn }
}

// WithFatalHook runs fn after a fatal error is logged and before exit.
func WithFatalHook(fn func(*FatalError)) Option {
	return func(b *Bridge) { b.onFatal = fn }
}

// WithLoopError is called with the error that ended a background loop.
func WithLoopError(fn func(error)) Option {
	return func(b *Bridge) { b.onLoopError = fn }
}

type Bridge struct {
	mu sync.Mutex
	rt *goja.Runtime

	errorLog    func(string)
	exit        func(int)
	onFatal     func(*FatalError)
	onLoopError func(error)

	loopMu sync.Mutex
	stop   chan struct{}
	done   chan struct{}
}

// New creates the runtime and binds every entry of the native table to n.
func New(n Natives, opts ...Option) *Bridge {
	b := &Bridge{
		rt:   goja.New(),
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt(b)
	}
	for _, nt := range nativeTable {
		fn := nt.fn
		if err := b.rt.Set(nt.name, func(call goja.FunctionCall) goja.Value {
			return fn(b.rt, n, call)
		}); err != nil {
			// Set only fails for invalid property names.
			panic(err)
		}
	}
	return b
}

// Eval compiles and runs source under the bridge lock. label names the
// source in stack traces.
func (b *Bridge) Eval(source, label string) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = b.fatal(r)
		}
	}()

	prog, err := goja.Compile(label, source, false)
	if err != nil {
		return &Error{Label: label, Message: err.Error(), err: err}
	}
	if _, err := b.rt.RunProgram(prog); err != nil {
		return b.scriptError(label, err)
	}
	return nil
}

// Set binds a global string variable.
func (b *Bridge) Set(name, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rt.Set(name, value)
}

// scriptError requires b.mu.
func (b *Bridge) scriptError(label string, err error) *Error {
	var msg string
	var ex *goja.Exception
	if errors.As(err, &ex) {
		msg = b.exceptionText(ex)
	} else {
		msg = err.Error()
	}
	logging.Logger().Debug("script error", "label", label, "error", msg)
	return &Error{Label: label, Message: msg, err: err}
}

// exceptionText prefers the thrown value's stack property over its string
// form. Both can run script code that throws again, so they are read
// inside Try.
func (b *Bridge) exceptionText(ex *goja.Exception) string {
	msg := "uncaught exception"
	b.rt.Try(func() {
		v := ex.Value()
		if v == nil {
			return
		}
		if obj, ok := v.(*goja.Object); ok {
			if st := obj.Get("stack"); st != nil && !goja.IsUndefined(st) && !goja.IsNull(st) {
				msg = st.String()
				return
			}
		}
		msg = v.String()
	})
	return msg
}

// fatal logs a non-script failure everywhere it can and exits.
func (b *Bridge) fatal(r any) error {
	fe := &FatalError{Value: r, Stack: debug.Stack()}
	msg := fmt.Sprintf("******* JS ERROR: %v\nFATAL, ABORTING", r)

	// stderr first in case nothing else is wired up.
	fmt.Fprintln(os.Stderr, msg)
	logging.Logger().Error("fatal engine error", "panic", r, "stack", string(fe.Stack))
	if b.errorLog != nil {
		b.errorLog(msg)
	}
	if b.onFatal != nil {
		b.onFatal(fe)
	}
	b.exit(ExitCode)
	return fe
}
