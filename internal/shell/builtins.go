package shell

import (
	"errors"
	"fmt"
	"os"
)

// errExit is returned up the loop when the shell should terminate with
// status 0.
var errExit = errors.New("exit")

func (s *Shell) executeBuiltin(args []string) (bool, error) {
	switch args[0] {
	case "cd":
		return true, s.changeDirectory(args[1:])
	case "exit":
		return true, s.exit()
	case "status":
		return true, s.printStatus()
	default:
		return false, nil
	}
}

// changeDirectory moves to HOME without arguments, otherwise to the first
// argument. Extra arguments are ignored.
func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 {
		dir = os.Getenv("HOME")
		if dir == "" {
			return fmt.Errorf("cd: HOME not set")
		}
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("cd: %w", err)
	}
	return nil
}

func (s *Shell) exit() error {
	if err := s.jobs.KillAll(); err != nil {
		s.logger.Warn("killing background jobs", "error", err)
	}
	return errExit
}

func (s *Shell) printStatus() error {
	_, err := fmt.Fprintln(s.stdio.Out, s.lastStatus)
	return err
}
