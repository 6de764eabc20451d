package shell

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

const (
	enterForegroundOnly = "Entering foreground-only mode (& is now ignored)"
	exitForegroundOnly  = "Exiting foreground-only mode"
)

// ModeController holds the foreground-only toggle. It is the only state the
// signal goroutine touches, and it only ever flips the two flags; the loop
// consumes the change notice at the top of an iteration.
type ModeController struct {
	foregroundOnly atomic.Bool
	changed        atomic.Bool
}

// Toggle flips foreground-only mode and marks the change as unreported.
func (m *ModeController) Toggle() {
	for {
		cur := m.foregroundOnly.Load()
		if m.foregroundOnly.CompareAndSwap(cur, !cur) {
			break
		}
	}
	m.changed.Store(true)
}

// ForegroundOnly reports whether a trailing & is currently ignored.
func (m *ModeController) ForegroundOnly() bool {
	return m.foregroundOnly.Load()
}

// Notice returns the mode-change message once per toggle.
func (m *ModeController) Notice() (string, bool) {
	if !m.changed.Swap(false) {
		return "", false
	}
	if m.foregroundOnly.Load() {
		return enterForegroundOnly, true
	}
	return exitForegroundOnly, true
}

func (s *Shell) setupSignalHandling() {
	signal.Notify(s.signalChan, syscall.SIGINT, syscall.SIGTSTP)
	s.signalsActive = true
	go s.handleSignals(s.signalChan)
}

func (s *Shell) stopSignalHandling() {
	signal.Stop(s.signalChan)
	s.signalsActive = false
	close(s.signalChan)
	s.signalChan = make(chan os.Signal, 1)
}

func (s *Shell) handleSignals(ch <-chan os.Signal) {
	for sig := range ch {
		switch sig {
		case syscall.SIGTSTP:
			s.mode.Toggle()
		case syscall.SIGINT:
			// The shell outlives interrupts; only foreground children die.
		}
	}
}

// withChildDispositions runs start with the dispositions a new child must
// inherit. Caught signals revert to the default across exec while ignored
// ones stay ignored, so SIGTSTP (and SIGINT for background children) is
// ignored around start and the shell's handlers are put back afterwards.
// A SIGTSTP arriving inside this window is dropped.
func (s *Shell) withChildDispositions(background bool, start func() error) error {
	ignored := []os.Signal{syscall.SIGTSTP}
	if background {
		ignored = append(ignored, syscall.SIGINT)
	}

	signal.Ignore(ignored...)
	defer func() {
		if s.signalsActive {
			signal.Notify(s.signalChan, ignored...)
		} else {
			signal.Reset(ignored...)
		}
	}()

	return start()
}
