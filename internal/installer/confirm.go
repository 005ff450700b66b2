package installer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"haligen/internal/logger"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(question string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// Prompt reads yes/no answers from a terminal.
type Prompt struct {
	In          io.Reader
	Out         io.Writer
	AssumeYes   bool // Skip the question and answer yes
	Interactive bool // False when stdin is not a terminal; the answer is then no
}

// NewPrompt returns a Prompt on stdin/stdout.
func NewPrompt(assumeYes bool) *Prompt {
	fd := os.Stdin.Fd()
	return &Prompt{
		In:          os.Stdin,
		Out:         os.Stdout,
		AssumeYes:   assumeYes,
		Interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Confirm asks question until it gets a yes or no answer. End of input counts as no.
func (p *Prompt) Confirm(question string) (bool, error) {
	if p.AssumeYes {
		logger.Info("[INFO] %s yes (--yes)\n", question)
		return true, nil
	}
	if !p.Interactive {
		logger.Warn("[WARN] %s Not a terminal, assuming no. Re-run with --yes to accept.\n", question)
		return false, nil
	}

	reader := bufio.NewReader(p.In)
	for {
		if _, err := fmt.Fprintf(p.Out, "%s (Yes, or No)? ", question); err != nil {
			return false, err
		}
		answer, err := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if err != nil {
			if err == io.EOF {
				return false, nil
			}
			return false, err
		}
		fmt.Fprintln(p.Out, "Please answer Yes or No.")
	}
}
