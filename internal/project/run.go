package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"haligen/internal/logger"
	"haligen/internal/state"
)

// Plan is everything a full generation run needs.
type Plan struct {
	SVD               string // Absolute path of the SVD file
	Package           string // Crate and Ada package name
	ParentDir         string // Directory the crate is created in
	Target            string
	Runtime           string
	Compiler          string // Dependency added right after creation, e.g. gnat_arm_elf
	RuntimeDependency string // Dependency the generated sources need, e.g. hal
	Generator         string // Utility name of the generator, e.g. svd2ada
	InstallDir        string // Where the generator is installed when missing
	Force             bool   // Ignore recorded progress and run every step again
}

// Run executes the full lifecycle:
// resolve or install the generator, create the crate, add the compiler,
// configure target and runtime, sanity build, generate sources, add the
// runtime-support dependency and build again.
//
// A crate recorded as partially done by an earlier run is resumed after its
// last completed stage unless plan.Force is set.
func (m *Manager) Run(ctx context.Context, plan Plan) (*Crate, error) {
	var toolPath string
	err := step(fmt.Sprintf("Resolve %s", plan.Generator), func() error {
		var err error
		toolPath, err = m.Tools.Ensure(ctx, plan.Generator, plan.InstallDir)
		return err
	})
	if err != nil {
		return nil, err
	}

	crate, err := m.open(ctx, plan)
	if err != nil {
		return nil, err
	}

	steps := []struct {
		stage Stage
		name  string
		run   func() error
	}{
		{StageDependencyAdded, fmt.Sprintf("Add compiler %s", plan.Compiler), func() error {
			return m.AddDependency(ctx, crate, plan.Compiler)
		}},
		{StageConfigured, fmt.Sprintf("Configure %s / %s", plan.Target, plan.Runtime), func() error {
			_, err := m.Configure(crate, plan.Target, plan.Runtime)
			return err
		}},
		{StageBuilt, "Sanity build", func() error {
			return m.Build(ctx, crate)
		}},
		{StageGenerated, fmt.Sprintf("Generate sources from %s", filepath.Base(plan.SVD)), func() error {
			return m.Generate(ctx, toolPath, plan.SVD, crate, plan.Package)
		}},
		{StageFinalBuilt, "Final build", func() error {
			if err := m.AddDependency(ctx, crate, plan.RuntimeDependency); err != nil {
				return err
			}
			return m.Build(ctx, crate)
		}},
	}

	for _, s := range steps {
		if s.stage <= crate.Stage {
			logger.Info("[INFO] Skipping %q, crate already at stage %s\n", s.name, crate.Stage)
			continue
		}
		if err := step(s.name, s.run); err != nil {
			return crate, &HaltError{Step: s.name, Crate: crate.Root, Completed: crate.Stage, Err: err}
		}
		m.advance(crate, s.stage, plan.SVD)
	}

	logger.Info("[INFO] Crate %q is ready at %s\n", crate.Name, crate.Root)
	return crate, nil
}

// open creates the crate, or picks up a crate an earlier run left behind.
func (m *Manager) open(ctx context.Context, plan Plan) (*Crate, error) {
	crate := NewCrate(plan.Package, plan.ParentDir)

	if m.Store != nil {
		if recorded, ok := m.Store.Crate(crate.Root); ok {
			if isDir(crate.Root) {
				if err := checkUnchanged(crate.Root, recorded, plan); err != nil {
					return nil, err
				}
			}
			switch {
			case plan.Force:
				logger.Info("[INFO] --force given, ignoring recorded stage %s for %s\n", recorded.Stage, crate.Root)
				crate.Target, crate.Runtime = recorded.Target, recorded.Runtime
				if err := m.Store.ForgetCrate(crate.Root); err != nil {
					logger.Warn("[WARN] Failed to reset state for %s: %v\n", crate.Root, err)
				}
			case isDir(crate.Root):
				crate.Stage = ParseStage(recorded.Stage)
				crate.Target, crate.Runtime = recorded.Target, recorded.Runtime
				if recorded.SVD != "" && recorded.SVD != plan.SVD && crate.Stage > StageBuilt {
					logger.Info("[INFO] SVD file changed from %s, regenerating sources\n", recorded.SVD)
					crate.Stage = StageBuilt
				}
				logger.Info("[INFO] Resuming crate %q after stage %s\n", crate.Name, crate.Stage)
			default:
				logger.Warn("[WARN] Crate %s recorded at stage %s no longer exists, starting over\n", crate.Root, recorded.Stage)
			}
		}
	}

	if crate.Stage >= StageCreated {
		crate.Refresh()
		return crate, nil
	}
	if plan.Force && isDir(crate.Root) {
		// alr refuses to init into an existing crate; reuse it and redo every later step.
		logger.Info("[INFO] Reusing existing crate directory %s\n", crate.Root)
		crate.Stage = StageCreated
		crate.Refresh()
		m.advance(crate, StageCreated, plan.SVD)
		return crate, nil
	}

	var created *Crate
	err := step(fmt.Sprintf("Create crate %s", plan.Package), func() error {
		var err error
		created, err = m.Create(ctx, plan.Package, plan.ParentDir)
		return err
	})
	if err != nil {
		return nil, err
	}
	m.advance(created, StageCreated, plan.SVD)
	return created, nil
}

// checkUnchanged fails when the recorded target or runtime differs from the plan.
// The descriptor is configured once only, so neither resuming nor --force can apply such a change.
func checkUnchanged(root string, recorded state.CrateState, plan Plan) error {
	if recorded.Target != "" && recorded.Target != plan.Target {
		return &InputChangedError{Crate: root, Field: "target", Recorded: recorded.Target, Requested: plan.Target}
	}
	if recorded.Runtime != "" && recorded.Runtime != plan.Runtime {
		return &InputChangedError{Crate: root, Field: "runtime", Recorded: recorded.Runtime, Requested: plan.Runtime}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
