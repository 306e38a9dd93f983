package main

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const (
	historyFileName = ".linechat_history"
	historySize     = 500
)

// lineReader yields the lines typed by the user. io.EOF ends the session.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// lineEditor reads user input with readline on a terminal and with a plain
// scanner when stdin is piped.
type lineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
}

func newLineEditor(stdin *os.File, log zerolog.Logger) *lineEditor {
	if !term.IsTerminal(int(stdin.Fd())) || os.Getenv("INSIDE_EMACS") != "" {
		return &lineEditor{scanner: bufio.NewScanner(stdin)}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("readline unavailable, using basic input")
		return &lineEditor{scanner: bufio.NewScanner(stdin)}
	}
	return &lineEditor{rl: rl}
}

// GetLine returns the next line. Ctrl-C and Ctrl-D both end input.
func (le *lineEditor) GetLine(prompt string) (string, error) {
	if le.rl == nil {
		if !le.scanner.Scan() {
			if err := le.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return le.scanner.Text(), nil
	}

	le.rl.SetPrompt(prompt)
	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *lineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFileName
	}
	return filepath.Join(home, historyFileName)
}
