package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// LineReader supplies command lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// NewReadline creates a line editor with the given prompt and optional history file
func NewReadline(prompt, historyFile string, out io.Writer) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          out,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("add"),
			readline.PcItem("del"),
			readline.PcItem("show"),
			readline.PcItem("send"),
			readline.PcItem("load"),
			readline.PcItem("stats"),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize line editor: %w", err)
	}
	return rl, nil
}

// Run prints the help text and executes lines from rl until exit, end of
// input, an interrupt on an empty line, or ctx is cancelled.
func (s *Session) Run(ctx context.Context, rl LineReader) error {
	s.PrintHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		if s.Execute(line) {
			return nil
		}
	}
}
