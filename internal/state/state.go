package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"fmt"
	"os" // For file system operations like reading and writing files
	"path/filepath"
	"time"

	"haligen/internal/logger"
)

// ToolState records where a utility was resolved or installed.
// InstalledByHaligen is true when haligen ran `alr get -b` for it, so cleanup
// knows which entries it owns.
type ToolState struct {
	Path               string `json:"path"`
	InstalledByHaligen bool   `json:"installed_by_haligen"`
}

// CrateState records the lifecycle progress of one generated crate.
type CrateState struct {
	Name      string    `json:"name"`
	Stage     string    `json:"stage"` // Last successfully completed lifecycle stage
	Target    string    `json:"target,omitempty"`
	Runtime   string    `json:"runtime,omitempty"`
	SVD       string    `json:"svd,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// State holds everything haligen persists between runs.
// Crates are keyed by absolute crate root.
type State struct {
	Tools  map[string]ToolState  `json:"tools"`
	Crates map[string]CrateState `json:"crates"`
}

// New returns an empty, initialised State.
func New() *State {
	return &State{
		Tools:  make(map[string]ToolState),
		Crates: make(map[string]CrateState),
	}
}

// LoadState loads the saved state from a JSON file at the given path.
// A missing or unreadable file yields an empty state; a corrupt file is logged and ignored.
func LoadState(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("[DEBUG] No state loaded from %s: %v\n", path, err)
		return New()
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Warn("[WARN] Ignoring corrupt state file %s: %v\n", path, err)
		return New()
	}

	// Ensure maps are initialized if JSON contained null for these fields
	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	if st.Crates == nil {
		st.Crates = make(map[string]CrateState)
	}
	return &st
}

// SaveState writes the given State to a JSON file at the given path, creating the parent directory.
func SaveState(path string, st *State) error {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// Store binds a State to its file so callers can record progress as it happens.
type Store struct {
	Path  string
	State *State
}

// Open loads the state file at path into a Store.
func Open(path string) *Store {
	return &Store{Path: path, State: LoadState(path)}
}

// Save persists the current state. A Store without a path keeps state in memory only.
func (s *Store) Save() error {
	if s.Path == "" {
		return nil
	}
	return SaveState(s.Path, s.State)
}

// RecordTool stores a resolved tool path and saves.
func (s *Store) RecordTool(name string, ts ToolState) error {
	s.State.Tools[name] = ts
	return s.Save()
}

// RecordStage updates the crate entry for root and saves.
func (s *Store) RecordStage(root string, cs CrateState) error {
	cs.UpdatedAt = time.Now().UTC()
	s.State.Crates[root] = cs
	return s.Save()
}

// Crate returns the recorded progress for a crate root.
func (s *Store) Crate(root string) (CrateState, bool) {
	cs, ok := s.State.Crates[root]
	return cs, ok
}

// ForgetCrate drops any recorded progress for a crate root.
func (s *Store) ForgetCrate(root string) error {
	delete(s.State.Crates, root)
	return s.Save()
}
