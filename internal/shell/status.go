package shell

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Status is how an external command finished: an exit code or the signal
// that terminated it. The zero value means no foreground command has
// completed yet and reads as exit value 0.
type Status struct {
	known    bool
	signaled bool
	value    int
}

// Exited returns the status of a process that exited with code.
func Exited(code int) Status {
	return Status{known: true, value: code}
}

// Signaled returns the status of a process terminated by sig.
func Signaled(sig syscall.Signal) Status {
	return Status{known: true, signaled: true, value: int(sig)}
}

func statusFromWait(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Signaled(ws.Signal())
	}
	return Exited(ws.ExitStatus())
}

// Known reports whether the status was recorded from a finished command.
func (s Status) Known() bool {
	return s.known
}

// Signal returns the terminating signal, if any.
func (s Status) Signal() (syscall.Signal, bool) {
	if !s.signaled {
		return 0, false
	}
	return syscall.Signal(s.value), true
}

// ExitCode returns the exit code, or -1 for a signal-terminated process.
func (s Status) ExitCode() int {
	if s.signaled {
		return -1
	}
	return s.value
}

func (s Status) String() string {
	if s.signaled {
		return fmt.Sprintf("terminated by signal %d", s.value)
	}
	return fmt.Sprintf("exit value %d", s.value)
}

// waitPID waits for pid with the given wait4 options. The bool is false
// when WNOHANG was requested and the process is still running.
func waitPID(pid int, options int) (Status, bool, error) {
	var ws unix.WaitStatus
	for {
		wpid, err := unix.Wait4(pid, &ws, options, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return Status{}, false, err
		}
		if wpid == 0 {
			return Status{}, false, nil
		}
		return statusFromWait(ws), true, nil
	}
}
