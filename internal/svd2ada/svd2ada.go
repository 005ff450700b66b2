// Package svd2ada invokes the SVD-to-Ada generator for a crate.
package svd2ada

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"haligen/internal/executor"
	"haligen/internal/logger"
)

// BaseTypesPackage is the Ada package providing UInt types to generated code.
// It is supplied by the "hal" crate.
const BaseTypesPackage = "HAL"

// GenerationError reports a generator run that exited non-zero.
type GenerationError struct {
	SVD        string
	ExitStatus int
	Output     string
}

func (e *GenerationError) Error() string {
	msg := fmt.Sprintf("svd2ada failed on %s with status %d", filepath.Base(e.SVD), e.ExitStatus)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ":\n" + out
	}
	return msg
}

// Generator runs a resolved svd2ada binary.
type Generator struct {
	Runner executor.Runner
}

// New returns a Generator using runner.
func New(runner executor.Runner) *Generator {
	return &Generator{Runner: runner}
}

// Args returns the generator flags for svdPath, writing package pkg under crateDir/src/<pkg>.
func Args(svdPath, crateDir, pkg string) []string {
	return []string{
		svdPath,
		"--boolean",
		"-o", filepath.Join(crateDir, "src", pkg),
		"-p", pkg,
		"--base-types-package", BaseTypesPackage,
		"--gen-uint-always",
	}
}

// Generate runs toolPath on svdPath inside crateDir.
func (g *Generator) Generate(ctx context.Context, toolPath, svdPath, crateDir, pkg string) error {
	cmd := executor.Command{Name: toolPath, Args: Args(svdPath, crateDir, pkg), Dir: crateDir, Accumulate: true}
	logger.Info("[INFO] Executing command: %s\n", cmd.String())

	res, err := g.Runner.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	if !res.Success() {
		return &GenerationError{SVD: svdPath, ExitStatus: res.ExitStatus, Output: res.Output()}
	}
	return nil
}
