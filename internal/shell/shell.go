package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"smallsh/internal/config"
	"smallsh/internal/logging"
)

// Stdio is the set of files children inherit when not redirected. Notices
// are written to Out and diagnostics to Err.
type Stdio struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

// Shell is the interpreter. All of its state belongs to the goroutine
// running Run except mode, which the signal goroutine flips.
type Shell struct {
	config     *config.Config
	logger     *logging.Logger
	reader     LineReader
	stdio      Stdio
	pid        int
	mode       *ModeController
	jobs       *JobRegistry
	lastStatus Status

	signalChan    chan os.Signal
	signalsActive bool
}

type Option func(*Shell)

// WithReader replaces the interactive line editor.
func WithReader(r LineReader) Option {
	return func(s *Shell) {
		s.reader = r
	}
}

func WithStdio(stdio Stdio) Option {
	return func(s *Shell) {
		s.stdio = stdio
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Shell{
		config:     cfg,
		stdio:      Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
		pid:        os.Getpid(),
		mode:       &ModeController{},
		signalChan: make(chan os.Signal, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}

	if s.reader == nil {
		rl, err := NewLineReader(cfg.Prompt, s.mode)
		if err != nil {
			return nil, fmt.Errorf("error initializing readline: %w", err)
		}
		s.reader = rl
	}

	s.jobs = NewJobRegistry(cfg.MaxJobs, s.stdio.Out, s.logger)
	return s, nil
}

// Mode exposes the foreground-only controller.
func (s *Shell) Mode() *ModeController {
	return s.mode
}

// Jobs exposes the background job registry.
func (s *Shell) Jobs() *JobRegistry {
	return s.jobs
}

// LastStatus returns the status of the most recent foreground command.
func (s *Shell) LastStatus() Status {
	return s.lastStatus
}

// Run reads and executes lines until exit or end of input and returns the
// shell's exit code. A non-nil error means the shell could not go on.
func (s *Shell) Run() (int, error) {
	s.setupSignalHandling()
	defer s.stopSignalHandling()
	defer s.reader.Close()

	for {
		err := s.step()
		switch {
		case err == nil:
			continue
		case errors.Is(err, errExit):
			return 0, nil
		default:
			s.logger.Error("shell stopped", "error", err)
			return 1, err
		}
	}
}

// step is one loop iteration: report a mode change, report finished
// background jobs, then read and execute a line.
func (s *Shell) step() error {
	if notice, ok := s.mode.Notice(); ok {
		fmt.Fprintln(s.stdio.Out, notice)
		s.logger.Debug("mode changed", "foreground_only", s.mode.ForegroundOnly())
	}
	s.jobs.Sweep()

	s.reader.SetPrompt(s.config.Prompt)
	line, err := s.reader.Readline()
	switch {
	case err == readline.ErrInterrupt:
		return nil
	case err == io.EOF:
		return s.exit()
	case err != nil:
		return fmt.Errorf("read input: %w", err)
	}

	if err := s.Execute(line); err != nil {
		if errors.Is(err, errExit) || errors.Is(err, ErrForkFailed) {
			return err
		}
		fmt.Fprintf(s.stdio.Err, "smallsh: %v\n", err)
	}
	return nil
}

// Execute expands, parses and runs one input line.
func (s *Shell) Execute(input string) error {
	line := Expand(input, s.pid)
	tokens := Tokenize(line)
	// Blank and comment lines only echo a newline.
	if len(tokens) == 0 || IsComment(line) {
		fmt.Fprintln(s.stdio.Out)
		return nil
	}

	cmd, err := Build(tokens, s.config.MaxArgs)
	if err != nil {
		return err
	}
	if cmd.Empty() {
		return nil
	}
	if s.mode.ForegroundOnly() {
		cmd.Background = false
	}

	if ok, err := s.executeBuiltin(cmd.Argv); ok {
		return err
	}
	return s.runExternal(cmd)
}
