package script

import "pz/internal/logging"

// Start runs source repeatedly on a background goroutine until Stop. A
// script error ends the loop and is passed to the WithLoopError handler.
func (b *Bridge) Start(source, label string) error {
	b.loopMu.Lock()
	defer b.loopMu.Unlock()

	if b.done != nil {
		select {
		case <-b.done:
			// Previous loop ended on its own; allow a new one.
		default:
			return ErrLoopRunning
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	b.stop, b.done = stop, done
	go b.loop(source, label, stop, done)
	logging.Logger().Debug("script loop started", "label", label)
	return nil
}

// Stop asks the loop not to begin another iteration, then waits for the
// in-flight Eval to return and the goroutine to exit. It never interrupts
// a running script. The loop lock is not held while waiting, so Running
// and Start answer immediately during the wait.
func (b *Bridge) Stop() {
	b.loopMu.Lock()
	stop, done := b.stop, b.done
	b.stop = nil
	b.loopMu.Unlock()

	if done == nil {
		return
	}
	if stop != nil {
		close(stop)
	}
	<-done

	b.loopMu.Lock()
	if b.done == done {
		b.done = nil
	}
	b.loopMu.Unlock()
	logging.Logger().Debug("script loop stopped")
}

// Running reports whether a background loop is active.
func (b *Bridge) Running() bool {
	b.loopMu.Lock()
	defer b.loopMu.Unlock()

	if b.done == nil {
		return false
	}
	select {
	case <-b.done:
		return false
	default:
		return true
	}
}

// Close stops the background loop if there is one.
func (b *Bridge) Close() {
	b.Stop()
}

func (b *Bridge) loop(source, label string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}
		if err := b.Eval(source, label); err != nil {
			logging.Logger().Warn("script loop ended", "label", label, "error", err)
			if b.onLoopError != nil {
				b.onLoopError(err)
			}
			return
		}
	}
}
