// Package fakerun provides an in-memory executor.Runner for tests.
package fakerun

import (
	"context"
	"strings"
	"sync"

	"haligen/internal/executor"
)

// Handler decides the outcome of one command. Returning a nil result with a nil
// error means success with no output.
type Handler func(cmd executor.Command) (*executor.Result, error)

// Runner records every command and answers through Handler.
type Runner struct {
	mu       sync.Mutex
	Handler  Handler
	Commands []executor.Command
}

// New returns a Runner that delegates to h. A nil h succeeds for every command.
func New(h Handler) *Runner {
	return &Runner{Handler: h}
}

// Execute implements executor.Runner.
func (r *Runner) Execute(_ context.Context, cmd executor.Command) (*executor.Result, error) {
	r.mu.Lock()
	r.Commands = append(r.Commands, cmd)
	r.mu.Unlock()

	if r.Handler == nil {
		return &executor.Result{}, nil
	}
	res, err := r.Handler(cmd)
	if res == nil && err == nil {
		res = &executor.Result{}
	}
	return res, err
}

// Lines renders the recorded commands as shell-like strings without the binary name.
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		out = append(out, strings.Join(c.Args, " "))
	}
	return out
}
