package project

import (
	"fmt"
	"path/filepath"

	"haligen/internal/alire"
	"haligen/internal/logger"
)

// Crate is a generated Alire library crate on disk.
type Crate struct {
	Name         string
	Root         string
	Descriptor   string   // <root>/<name>.gpr
	Dependencies []string // As listed in alire.toml, in order
	Target       string
	Runtime      string
	Stage        Stage
}

// NewCrate describes the crate name rooted at parentDir/name without touching the disk.
func NewCrate(name, parentDir string) *Crate {
	root := filepath.Join(parentDir, name)
	return &Crate{
		Name:       name,
		Root:       root,
		Descriptor: filepath.Join(root, name+".gpr"),
	}
}

// Refresh re-reads the dependency list from the crate manifest.
// A manifest that cannot be read leaves the previous list in place.
func (c *Crate) Refresh() {
	m, err := alire.ReadManifest(c.Root)
	if err != nil {
		logger.Warn("[WARN] Cannot read manifest of %s: %v\n", c.Name, err)
		return
	}
	if m.Name != "" && m.Name != c.Name {
		logger.Warn("[WARN] Manifest in %s names crate %q, expected %q\n", c.Root, m.Name, c.Name)
	}
	c.Dependencies = m.Dependencies
}

// CrateCreationError reports that `alr init` could not create the crate,
// typically because the target directory already exists and is not empty.
type CrateCreationError struct {
	Name string
	Dir  string
	Err  error
}

func (e *CrateCreationError) Error() string {
	return fmt.Sprintf("failed to create crate %q in %s: %v", e.Name, e.Dir, e.Err)
}

func (e *CrateCreationError) Unwrap() error { return e.Err }

// HaltError reports a lifecycle step that failed. The crate stays on disk at Completed.
type HaltError struct {
	Step      string
	Crate     string
	Completed Stage
	Err       error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("%s failed; crate %s left at stage %s: %v", e.Step, e.Crate, e.Completed, e.Err)
}

func (e *HaltError) Unwrap() error { return e.Err }

// InputChangedError reports a re-run whose target or runtime differs from the
// values an earlier run configured the crate with.
type InputChangedError struct {
	Crate     string
	Field     string // "target" or "runtime"
	Recorded  string
	Requested string
}

func (e *InputChangedError) Error() string {
	return fmt.Sprintf("crate %s was configured with %s %q, not %q; remove the crate directory to reconfigure it",
		e.Crate, e.Field, e.Recorded, e.Requested)
}
