package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"haligen/internal/logger"
)

// DirnameQuerier asks the package manager for a utility's install subdirectory.
type DirnameQuerier interface {
	Dirname(ctx context.Context, utility string) (string, error)
}

// Resolver locates an external utility, preferring a copy installed by a previous
// haligen run over one found on PATH. Results are cached for the rest of the run.
type Resolver struct {
	Alire    DirnameQuerier
	LookPath func(file string) (string, error)

	cache map[string]string
}

// NewResolver returns a Resolver that searches PATH with exec.LookPath.
func NewResolver(alr DirnameQuerier) *Resolver {
	return &Resolver{Alire: alr, LookPath: exec.LookPath}
}

// Resolve returns the path of tool and whether it was found.
// Not finding the tool is not an error; the caller decides whether to install it.
func (r *Resolver) Resolve(ctx context.Context, tool, installDir string) (string, bool, error) {
	key := tool + "\x00" + installDir
	if path, ok := r.cache[key]; ok {
		logger.Debug("[DEBUG] Using cached resolution for %s: %q\n", tool, path)
		return path, path != "", nil
	}

	path, err := r.resolve(ctx, tool, installDir)
	if err != nil {
		return "", false, err
	}
	if r.cache == nil {
		r.cache = make(map[string]string)
	}
	r.cache[key] = path
	return path, path != "", nil
}

// Forget drops cached results for tool, e.g. after installing it.
func (r *Resolver) Forget(tool, installDir string) {
	delete(r.cache, tool+"\x00"+installDir)
}

func (r *Resolver) resolve(ctx context.Context, tool, installDir string) (string, error) {
	logger.Info("[INFO] Getting %s directory name from Alire\n", tool)
	dirname, err := r.Alire.Dirname(ctx, tool)
	if err != nil {
		return "", fmt.Errorf("query install directory for %s: %w", tool, err)
	}

	utilityDir := filepath.Join(installDir, dirname)
	logger.Debug("[DEBUG] Checking if %s is installed in %s\n", tool, utilityDir)
	info, err := os.Stat(utilityDir)
	switch {
	case err == nil && info.IsDir():
		logger.Info("[INFO] %s already installed in %s from a previous run\n", tool, utilityDir)
		return filepath.Join(utilityDir, "bin", tool), nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		// An unreadable install dir is treated like a missing one.
		logger.Warn("[WARN] Cannot inspect %s: %v\n", utilityDir, err)
	}

	logger.Debug("[DEBUG] Checking if %s is on PATH\n", tool)
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(tool); err == nil {
		logger.Info("[INFO] %s found on PATH at %s\n", tool, path)
		return path, nil
	}

	logger.Info("[INFO] %s not found\n", tool)
	return "", nil
}
