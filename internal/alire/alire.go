// Package alire drives the Alire package manager (`alr`) through the process executor.
package alire

import (
	"context"
	"fmt"
	"strings"

	"haligen/internal/executor"
	"haligen/internal/logger"
)

// CommandError reports an alr invocation that exited non-zero without a structured error.
type CommandError struct {
	Command    string
	ExitStatus int
	Output     string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitStatus)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ":\n" + out
	}
	return msg
}

// Client wraps the alr executable.
type Client struct {
	Bin    string // Executable name or path, usually "alr"
	Runner executor.Runner
}

// New returns a Client running bin through runner.
func New(bin string, runner executor.Runner) *Client {
	if bin == "" {
		bin = "alr"
	}
	return &Client{Bin: bin, Runner: runner}
}

// run executes alr with args in dir. Structured errors and spawn failures are returned
// unchanged; other non-zero exits become *CommandError.
func (c *Client) run(ctx context.Context, dir string, accumulate bool, args ...string) (*executor.Result, error) {
	cmd := executor.Command{Name: c.Bin, Args: args, Dir: dir, Accumulate: accumulate}
	res, err := c.Runner.Execute(ctx, cmd)
	if err != nil {
		return res, err
	}
	if !res.Success() {
		return res, &CommandError{Command: cmd.String(), ExitStatus: res.ExitStatus, Output: res.Output()}
	}
	return res, nil
}

// Init creates a library crate named name inside parentDir (`alr init --lib <name>`).
func (c *Client) Init(ctx context.Context, parentDir, name string) error {
	logger.Debug("[DEBUG] alr init --lib %s in %s\n", name, parentDir)
	_, err := c.run(ctx, parentDir, true, "init", "--lib", name)
	return err
}

// With adds dependency dep to the crate at crateDir (`alr with <dep>`).
func (c *Client) With(ctx context.Context, crateDir, dep string) error {
	_, err := c.run(ctx, crateDir, true, "with", dep)
	return err
}

// Build compiles the crate at crateDir (`alr build`).
func (c *Client) Build(ctx context.Context, crateDir string) error {
	_, err := c.run(ctx, crateDir, true, "build")
	return err
}

// Dirname asks alr for the directory name `alr get` would use for utility.
func (c *Client) Dirname(ctx context.Context, utility string) (string, error) {
	res, err := c.run(ctx, "", true, "get", "--dirname", utility)
	if err != nil {
		return "", err
	}
	// alr may print notices before the answer; the directory name is the last non-empty line.
	for i := len(res.Stdout) - 1; i >= 0; i-- {
		if name := strings.TrimSpace(res.Stdout[i]); name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("alr get --dirname %s printed no directory name", utility)
}

// Get fetches and builds utility inside dir (`alr get -b <utility>`).
func (c *Client) Get(ctx context.Context, dir, utility string) error {
	_, err := c.run(ctx, dir, true, "get", "-b", utility)
	return err
}
