// Package project sequences the lifecycle of a generated HAL crate:
// create, add the compiler, configure target and runtime, build, generate
// sources and build again.
//
// Steps are external invocations and are not rolled back. When one fails, the
// crate stays on disk at the last completed stage; every step is idempotent or
// additive, so a later run can resume from there.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"haligen/internal/descriptor"
	"haligen/internal/logger"
	"haligen/internal/state"
)

// PackageManager is the subset of alr the lifecycle needs.
type PackageManager interface {
	Init(ctx context.Context, parentDir, name string) error
	With(ctx context.Context, crateDir, dep string) error
	Build(ctx context.Context, crateDir string) error
}

// CodeGenerator turns an SVD file into Ada sources.
type CodeGenerator interface {
	Generate(ctx context.Context, toolPath, svdPath, crateDir, pkg string) error
}

// ToolProvider locates or installs an external utility.
type ToolProvider interface {
	Ensure(ctx context.Context, tool, installDir string) (string, error)
}

// Manager drives the crate lifecycle.
type Manager struct {
	Alire      PackageManager
	Generator  CodeGenerator
	Tools      ToolProvider
	Store      *state.Store // Optional; records the last completed stage per crate
	HeaderLine int          // 0-based descriptor line index for the configuration block
}

// Create runs `alr init --lib <name>` in parentDir.
func (m *Manager) Create(ctx context.Context, name, parentDir string) (*Crate, error) {
	crate := NewCrate(name, parentDir)
	logger.Info("[INFO] Initializing crate %q at directory %q\n", name, parentDir)

	if err := m.Alire.Init(ctx, parentDir, name); err != nil {
		return nil, &CrateCreationError{Name: name, Dir: crate.Root, Err: err}
	}
	if info, err := os.Stat(crate.Root); err != nil || !info.IsDir() {
		return nil, &CrateCreationError{Name: name, Dir: crate.Root, Err: fmt.Errorf("alr init did not create %s", crate.Root)}
	}

	crate.Stage = StageCreated
	crate.Refresh()
	return crate, nil
}

// AddDependency runs `alr with <dep>` in the crate. Duplicates are left to alr.
func (m *Manager) AddDependency(ctx context.Context, crate *Crate, dep string) error {
	logger.Info("[INFO] Adding dependency %q to crate %q\n", dep, crate.Name)
	if err := m.Alire.With(ctx, crate.Root, dep); err != nil {
		return err
	}
	crate.Refresh()
	return nil
}

// Configure inserts the target and runtime into the crate descriptor.
// It reports false when the descriptor was already configured.
func (m *Manager) Configure(crate *Crate, target, runtime string) (bool, error) {
	logger.Info("[INFO] Configuring %q runtime and %q target for %q\n", runtime, target, filepath.Base(crate.Descriptor))

	block := descriptor.Block{Target: target, Runtime: runtime}
	changed, err := descriptor.EnsureBlock(crate.Descriptor, descriptor.RuntimeMarker, block.Render(), m.HeaderLine)
	if err != nil {
		return false, err
	}
	if changed {
		logger.Info("[INFO] New configuration has been inserted successfully into %s\n", filepath.Base(crate.Descriptor))
		crate.Target, crate.Runtime = target, runtime
	} else {
		logger.Info("[INFO] %s has already been configured. Skipping configuration.\n", filepath.Base(crate.Descriptor))
	}
	return changed, nil
}

// Build runs `alr build` in the crate.
func (m *Manager) Build(ctx context.Context, crate *Crate) error {
	logger.Info("[INFO] Building crate %q\n", crate.Name)
	return m.Alire.Build(ctx, crate.Root)
}

// Generate runs the SVD generator at toolPath, writing package pkg into the crate.
// A failed generation can leave partial sources behind; the crate is not cleaned up.
func (m *Manager) Generate(ctx context.Context, toolPath, svdPath string, crate *Crate, pkg string) error {
	logger.Info("[INFO] Generating package %q from %s\n", pkg, filepath.Base(svdPath))
	return m.Generator.Generate(ctx, toolPath, svdPath, crate.Root, pkg)
}

// step wraps one lifecycle transition with start, success and failure logging.
func step(name string, fn func() error) error {
	logger.Info("[INFO] ==> %s\n", name)
	if err := fn(); err != nil {
		logger.Error("[ERROR] %s failed: %v\n", name, err)
		return err
	}
	logger.Info("[INFO] <== %s done\n", name)
	return nil
}

// advance marks crate as having completed stage and persists it.
func (m *Manager) advance(crate *Crate, stage Stage, svd string) {
	crate.Stage = stage
	if m.Store == nil {
		return
	}
	err := m.Store.RecordStage(crate.Root, state.CrateState{
		Name:    crate.Name,
		Stage:   stage.String(),
		Target:  crate.Target,
		Runtime: crate.Runtime,
		SVD:     svd,
	})
	if err != nil {
		logger.Warn("[WARN] Failed to record stage %s for %s: %v\n", stage, crate.Name, err)
	}
}
