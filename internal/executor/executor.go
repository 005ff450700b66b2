// Package executor runs external commands (alr, svd2ada) for haligen.
//
// Every invocation blocks until the child exits. Stdout is streamed line by line
// into a sink while the child runs; stderr is captured for error reporting.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"haligen/internal/logger"
)

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Accumulate keeps every stdout line in the Result. When false, lines are
	// only forwarded to the sink.
	Accumulate bool
}

// String renders the command the way it would be typed in a shell.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is the outcome of a command that was started successfully.
// A non-zero ExitStatus is not an error on its own.
type Result struct {
	ExitStatus int
	Stdout     []string
	Stderr     string
}

// Success reports whether the child exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitStatus == 0
}

// Output returns the captured stdout lines joined back together, followed by stderr.
func (r *Result) Output() string {
	if r == nil {
		return ""
	}
	out := strings.Join(r.Stdout, "\n")
	if r.Stderr != "" {
		if out != "" {
			out += "\n"
		}
		out += strings.TrimRight(r.Stderr, "\n")
	}
	return out
}

// Runner abstracts command execution so callers can be tested without real binaries.
type Runner interface {
	Execute(ctx context.Context, cmd Command) (*Result, error)
}

// Executor is the os/exec backed Runner.
type Executor struct {
	// Sink receives each stdout line as soon as it is read.
	Sink func(line string)
}

// New returns an Executor forwarding child output to sink.
// A nil sink forwards to the console logger.
func New(sink func(line string)) *Executor {
	if sink == nil {
		sink = logger.Line
	}
	return &Executor{Sink: sink}
}

// Execute starts the command, streams its stdout until EOF and waits for it to exit.
//
// It returns *ExecutionError when the process cannot be spawned. When the child
// printed a structured error line, the result is returned together with a
// *StructuredToolError.
func (e *Executor) Execute(ctx context.Context, c Command) (*Result, error) {
	logger.Debug("[DEBUG] Running command: %s (dir: %s)\n", c.String(), c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ExecutionError{Command: c.String(), Dir: c.Dir, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &ExecutionError{Command: c.String(), Dir: c.Dir, Err: err}
	}

	res := &Result{}
	var structured *StructuredToolError

	reader := bufio.NewReader(stdout)
	for {
		line, readErr := reader.ReadString('\n')
		// An empty string together with io.EOF is the end of the stream;
		// a bare "\n" is an empty line and must still be forwarded.
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if e.Sink != nil {
				e.Sink(line)
			}
			if c.Accumulate {
				res.Stdout = append(res.Stdout, line)
			}
			if structured == nil {
				structured = ParseStructuredError(line)
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				logger.Warn("[WARN] Stopped reading output of %s: %v\n", c.Name, readErr)
			}
			break
		}
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &ExecutionError{Command: c.String(), Dir: c.Dir, Err: err}
		}
		res.ExitStatus = exitErr.ExitCode()
	}
	res.Stderr = stderr.String()

	if structured == nil {
		for _, line := range strings.Split(res.Stderr, "\n") {
			if structured = ParseStructuredError(line); structured != nil {
				break
			}
		}
	}
	if structured != nil {
		structured.Command = c.String()
		logger.Debug("[DEBUG] %s exited with status %d and structured error %d\n", c.Name, res.ExitStatus, structured.Code)
		return res, structured
	}

	logger.Debug("[DEBUG] %s exited with status %d\n", c.Name, res.ExitStatus)
	return res, nil
}
