package shell

import (
	"github.com/chzyer/readline"
)

// LineReader reads one line of input per call. An interrupted read returns
// readline.ErrInterrupt and the partial line is discarded.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

var _ LineReader = (*readline.Instance)(nil)

// NewLineReader returns a readline instance with history and completion off.
//
// While the editor holds the terminal in raw mode, Ctrl-Z is a keystroke
// rather than SIGTSTP, so the editor performs the toggle itself and then
// aborts the line the same way an interrupted read would.
func NewLineReader(prompt string, mode *ModeController) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		HistoryLimit:           -1,
		DisableAutoSaveHistory: true,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == readline.CharCtrlZ {
				mode.Toggle()
				return readline.CharInterrupt, true
			}
			return r, true
		},
	})
}
