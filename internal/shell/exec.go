package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"syscall"

	"github.com/kballard/go-shellquote"
)

// ErrForkFailed means no child process could be created at all. The shell
// cannot continue after it.
var ErrForkFailed = errors.New("fork failed")

// ExecError is a program that could not be started. It stands for a child
// that exited with status 1.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RedirectError is a redirection file that could not be opened. Like
// ExecError it stands for a child that exited with status 1.
type RedirectError struct {
	Path string
	Err  error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

func newExecError(name string, err error) error {
	var execErr *exec.Error
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &execErr):
		err = execErr.Err
	case errors.As(err, &pathErr):
		err = pathErr.Err
	}
	return &ExecError{Name: name, Err: err}
}

func newRedirectError(path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return &RedirectError{Path: path, Err: err}
}

func isForkFailure(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.ENOMEM)
}

// spawn starts cmd and returns the child's pid. Redirections are opened here,
// background commands read and write the null device unless redirected, and
// the program is looked up on PATH. Anything but a failure to create the
// process comes back as *RedirectError or *ExecError.
func (s *Shell) spawn(cmd Command) (int, error) {
	stdin, stdout := s.stdio.In, s.stdio.Out

	inPath, outPath := cmd.InputPath, cmd.OutputPath
	if cmd.Background {
		null := s.config.NullDevice
		if null == "" {
			null = os.DevNull
		}
		if inPath == "" {
			inPath = null
		}
		if outPath == "" {
			outPath = null
		}
	}

	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return 0, newRedirectError(inPath, err)
		}
		defer f.Close()
		stdin = f
	}
	if outPath != "" {
		f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return 0, newRedirectError(outPath, err)
		}
		defer f.Close()
		stdout = f
	}

	c := exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	if c.Err != nil {
		return 0, newExecError(cmd.Argv[0], c.Err)
	}
	c.Stdin = stdin
	c.Stdout = stdout
	c.Stderr = s.stdio.Err

	err := s.withChildDispositions(cmd.Background, c.Start)
	if err != nil {
		if isForkFailure(err) {
			return 0, fmt.Errorf("%w: %v", ErrForkFailed, err)
		}
		return 0, newExecError(cmd.Argv[0], err)
	}

	pid := c.Process.Pid
	// The child is waited for by pid, not through c.
	_ = c.Process.Release()

	s.logger.Debug("spawned",
		"pid", pid,
		"argv", shellquote.Join(cmd.Argv...),
		"background", cmd.Background,
	)
	return pid, nil
}

// runExternal runs cmd as a child process. Background children are
// registered and left running; foreground children are waited for and
// their status recorded.
func (s *Shell) runExternal(cmd Command) error {
	pid, err := s.spawn(cmd)
	if err != nil {
		if errors.Is(err, ErrForkFailed) {
			return err
		}
		fmt.Fprintln(s.stdio.Err, err)
		if cmd.Background {
			s.jobs.Fail(cmd.Argv[0])
		} else {
			s.lastStatus = Exited(1)
		}
		return nil
	}

	if cmd.Background {
		fmt.Fprintf(s.stdio.Out, "PID %d started in background\n", pid)
		s.jobs.Register(pid)
		return nil
	}

	status, _, err := waitPID(pid, 0)
	if err != nil {
		return fmt.Errorf("wait for %d: %w", pid, err)
	}
	s.lastStatus = status
	s.logger.Debug("foreground done", "pid", pid, "status", status.String())

	if sig, ok := status.Signal(); ok && sig == syscall.SIGINT {
		fmt.Fprintln(s.stdio.Out, status)
	}
	return nil
}
