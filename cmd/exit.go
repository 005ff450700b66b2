package cmd

import (
	"errors"

	"haligen/internal/descriptor"
	"haligen/internal/executor"
	"haligen/internal/installer"
	"haligen/internal/logger"
	"haligen/internal/project"
)

// Exit statuses returned by the haligen CLI.
const (
	// ExitSuccess covers completed runs and a declined installation.
	ExitSuccess = 0

	// ExitFailure indicates a failed external step (build, generation, crate creation).
	ExitFailure = 1

	// ExitUsage indicates invalid arguments or configuration, including a target or
	// runtime that differs from the one an existing crate was configured with.
	ExitUsage = 2

	// ExitToolError indicates a structured tool error, a failed toolchain install or an
	// inaccessible project descriptor; later steps cannot run in that state.
	ExitToolError = 3
)

// usageError marks errors caused by arguments or configuration rather than by tools.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exitCode reports err to the operator and maps it to an exit status.
// This is the only place that decides how haligen terminates.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, installer.ErrDeclined) {
		logger.Info("[INFO] User chose not to install the generator. Exiting.\n")
		return ExitSuccess
	}

	logger.Error("[ERROR] %v\n", err)

	var (
		toolErr   *executor.StructuredToolError
		instErr   *installer.InstallationError
		accessErr *descriptor.FileAccessError
		usage     *usageError
		changed   *project.InputChangedError
	)
	switch {
	case errors.As(err, &toolErr):
		logger.Error("[ERROR] code: %d\n", toolErr.Code)
		logger.Error("[ERROR] message: %s\n", toolErr.Message)
		return ExitToolError
	case errors.As(err, &instErr), errors.As(err, &accessErr):
		return ExitToolError
	case errors.As(err, &usage), errors.As(err, &changed):
		return ExitUsage
	default:
		return ExitFailure
	}
}
