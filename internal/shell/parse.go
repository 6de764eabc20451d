package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smallsh/internal/config"
)

// DefaultMaxArgs bounds the argument vector of a single command.
const DefaultMaxArgs = config.DefaultMaxArgs

const (
	inputOperator  = "<"
	outputOperator = ">"
	backgroundMark = "&"
)

var (
	ErrMissingRedirectTarget = errors.New("missing redirection target")
	ErrTooManyArgs           = errors.New("too many arguments")
)

// Command is one parsed input line.
type Command struct {
	Argv       []string
	InputPath  string
	OutputPath string
	Background bool
}

// Empty reports whether there is nothing to run.
func (c Command) Empty() bool {
	return len(c.Argv) == 0
}

// Expand replaces every "$$" in line with pid. Pairs are taken left to
// right, so a lone trailing "$" is kept.
func Expand(line string, pid int) string {
	return strings.ReplaceAll(line, "$$", strconv.Itoa(pid))
}

// IsComment reports whether line is a comment: its first non-blank
// character is '#'.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// Tokenize splits line on whitespace. There is no quoting.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// Build turns tokens into a Command. A final "&" marks the command as
// background. The first "<" or ">" ends the argument vector; the token after
// each operator is its path.
func Build(tokens []string, maxArgs int) (Command, error) {
	if maxArgs <= 0 {
		maxArgs = DefaultMaxArgs
	}

	var cmd Command
	if n := len(tokens); n > 0 && tokens[n-1] == backgroundMark {
		cmd.Background = true
		tokens = tokens[:n-1]
	}

	end := len(tokens)
	for i := 0; i < len(tokens); i++ {
		op := tokens[i]
		if !isRedirect(op) {
			continue
		}
		if end == len(tokens) {
			end = i
		}
		if i+1 == len(tokens) || isRedirect(tokens[i+1]) {
			return Command{}, fmt.Errorf("%w after %q", ErrMissingRedirectTarget, op)
		}
		i++
		switch op {
		case inputOperator:
			if cmd.InputPath == "" {
				cmd.InputPath = tokens[i]
			}
		case outputOperator:
			if cmd.OutputPath == "" {
				cmd.OutputPath = tokens[i]
			}
		}
	}

	if end > maxArgs {
		return Command{}, fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyArgs, end, maxArgs)
	}
	if end > 0 {
		cmd.Argv = append([]string(nil), tokens[:end]...)
	}
	return cmd, nil
}

func isRedirect(tok string) bool {
	return tok == inputOperator || tok == outputOperator
}
