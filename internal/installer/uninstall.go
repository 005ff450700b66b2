package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"haligen/internal/logger"
	"haligen/internal/state"
)

// RemoveInstallDir deletes the temporary install directory and forgets every tool
// haligen installed inside it. Tools found on PATH are left alone.
func RemoveInstallDir(installDir string, store *state.Store) error {
	logger.Info("[INFO] Cleaning up temporary files in %s\n", installDir)

	if err := os.RemoveAll(installDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", installDir, err)
	}
	logger.Info("[INFO] Successfully removed directory %s\n", installDir)

	if store == nil {
		return nil
	}
	prefix := filepath.Clean(installDir) + string(filepath.Separator)
	for name, ts := range store.State.Tools {
		if ts.InstalledByHaligen && strings.HasPrefix(filepath.Clean(ts.Path), prefix) {
			logger.Debug("[DEBUG] Forgetting %s (%s)\n", name, ts.Path)
			delete(store.State.Tools, name)
		}
	}
	return store.Save()
}
