package installer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"haligen/internal/executor"
	"haligen/internal/logger"
	"haligen/internal/state"
)

// ErrDeclined is returned when the operator refuses to install a missing utility.
// It is a normal outcome, not a failure.
var ErrDeclined = errors.New("installation declined by operator")

// InstallationError reports a failed `alr get -b`. Code and Message come from the
// structured error alr printed, when there was one.
type InstallationError struct {
	Tool    string
	Code    int64
	Message string
	Err     error
}

func (e *InstallationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("failed to install %s: error %d: %s", e.Tool, e.Code, e.Message)
	}
	return fmt.Sprintf("failed to install %s: %v", e.Tool, e.Err)
}

func (e *InstallationError) Unwrap() error { return e.Err }

// Getter fetches and builds a utility into a directory.
type Getter interface {
	Get(ctx context.Context, dir, utility string) error
}

// Installer makes sure a utility is available, installing it through alr when needed.
type Installer struct {
	Alire    Getter
	Resolver *Resolver
	Confirm  Confirmer
	Store    *state.Store // Optional; receives resolved tool paths
}

// Ensure resolves tool and installs it when it cannot be found.
func (i *Installer) Ensure(ctx context.Context, tool, installDir string) (string, error) {
	path, found, err := i.Resolver.Resolve(ctx, tool, installDir)
	if err != nil {
		return "", err
	}
	if found {
		i.record(tool, path, false)
		return path, nil
	}
	return i.Install(ctx, tool, installDir)
}

// Install asks the operator for confirmation, then runs `alr get -b <tool>` in installDir
// and returns the path of the built binary.
func (i *Installer) Install(ctx context.Context, tool, installDir string) (string, error) {
	question := fmt.Sprintf("Utility %q is not installed. Would you like to temporarily install it into %s", tool, installDir)
	ok, err := i.Confirm.Confirm(question)
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	if !ok {
		return "", ErrDeclined
	}

	logger.Info("[INFO] Installing %s in %s\n", tool, installDir)
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", &InstallationError{Tool: tool, Err: err}
	}

	if err := i.Alire.Get(ctx, installDir, tool); err != nil {
		var toolErr *executor.StructuredToolError
		if errors.As(err, &toolErr) {
			logger.Error("[ERROR] %d\n", toolErr.Code)
			logger.Error("[ERROR] %s\n", toolErr.Message)
			return "", &InstallationError{Tool: tool, Code: toolErr.Code, Message: toolErr.Message, Err: err}
		}
		return "", &InstallationError{Tool: tool, Err: err}
	}

	i.Resolver.Forget(tool, installDir)
	path, found, err := i.Resolver.Resolve(ctx, tool, installDir)
	if err != nil {
		return "", &InstallationError{Tool: tool, Err: err}
	}
	if !found {
		return "", &InstallationError{Tool: tool, Err: fmt.Errorf("%s not found in %s after installation", tool, installDir)}
	}

	logger.Info("[INFO] Installed %s at %s\n", tool, path)
	i.record(tool, path, true)
	return path, nil
}

func (i *Installer) record(tool, path string, installed bool) {
	if i.Store == nil {
		return
	}
	if prev, ok := i.Store.State.Tools[tool]; ok && prev.Path == path && prev.InstalledByHaligen {
		installed = true
	}
	if err := i.Store.RecordTool(tool, state.ToolState{Path: path, InstalledByHaligen: installed}); err != nil {
		logger.Warn("[WARN] Failed to record %s in state: %v\n", tool, err)
	}
}
