// Package descriptor edits GPR project files generated by alr.
package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"haligen/internal/logger"
)

// RuntimeMarker identifies a descriptor that already carries a runtime configuration.
// It is deliberately independent of the runtime value so a descriptor is configured once only.
const RuntimeMarker = `for Runtime ("Ada") use`

// FileAccessError reports a descriptor that could not be read or written.
type FileAccessError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot %s descriptor %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Block is the configuration rendered into a descriptor.
type Block struct {
	Target  string
	Runtime string
}

// Render returns the block as GPR attribute lines, indented like alr's generated project files.
func (b Block) Render() string {
	return fmt.Sprintf("   for Target use %s;\n   %s %s;", adaString(b.Target), RuntimeMarker, adaString(b.Runtime))
}

// adaString quotes s as an Ada string literal, where an embedded quote is doubled.
func adaString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EnsureBlock inserts block into the file at path unless marker already appears anywhere in it.
//
// Detection scans the whole file; insertion happens before line index line (0-based,
// clamped to the end of the file). The block may span several lines and takes the
// file's line ending, so CRLF descriptors stay CRLF. The file is
// replaced atomically, so a failed write leaves the original untouched.
// It reports whether the file was changed.
func EnsureBlock(path, marker, block string, line int) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, &FileAccessError{Op: "read", Path: path, Err: err}
	}
	content := string(raw)

	if strings.Contains(content, marker) {
		logger.Debug("[DEBUG] %s already contains %q\n", filepath.Base(path), marker)
		return false, nil
	}

	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	trailingNewline := strings.HasSuffix(content, eol)
	lines := strings.Split(strings.TrimSuffix(content, eol), eol)
	if content == "" {
		lines = nil
	}

	if line < 0 {
		line = 0
	}
	if line > len(lines) {
		logger.Warn("[WARN] Insertion line %d is past the end of %s, appending instead\n", line, filepath.Base(path))
		line = len(lines)
	}

	inserted := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:line]...)
	out = append(out, inserted...)
	out = append(out, lines[line:]...)

	result := strings.Join(out, eol)
	if trailingNewline || content == "" {
		result += eol
	}

	if err := writeAtomic(path, []byte(result)); err != nil {
		return false, &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return true, nil
}

// writeAtomic writes data to a temporary file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
