package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	stateDirName     = ".blueagents"
	manifestFileName = "manifest.json"

	// SchemaVersion is the manifest format written by this version.
	SchemaVersion = "1"
)

// NewManifest returns an empty manifest created at the given time.
func NewManifest(at time.Time) *Manifest {
	return &Manifest{
		SchemaVersion: SchemaVersion,
		CreatedAt:     at.UTC(),
		Agents:        map[string]ManifestEntry{},
	}
}

// clone returns a copy of m whose Agents map can be modified freely.
func (m *Manifest) clone() *Manifest {
	c := *m
	c.Agents = make(map[string]ManifestEntry, len(m.Agents)+1)
	for k, v := range m.Agents {
		c.Agents[k] = v
	}
	return &c
}

// WithEntry returns a copy of m tracking name at the given version.
// An existing entry is overwritten.
func (m *Manifest) WithEntry(name, version string, at time.Time) *Manifest {
	c := m.clone()
	c.Agents[name] = ManifestEntry{InstalledVersion: version, InstalledAt: at.UTC()}
	return c
}

// WithoutEntry returns a copy of m that no longer tracks name.
// Removing an untracked name returns an equal copy.
func (m *Manifest) WithoutEntry(name string) *Manifest {
	c := m.clone()
	delete(c.Agents, name)
	return c
}

// Has reports whether name is tracked.
func (m *Manifest) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Agents[name]
	return ok
}

// Names returns the tracked agent names, sorted.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Agents))
	for name := range m.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InstallOrder returns the tracked names ordered by install time, then
// name. Single-file platforms are rebuilt in this order.
func (m *Manifest) InstallOrder() []string {
	names := m.Names()
	sort.SliceStable(names, func(i, j int) bool {
		a, b := m.Agents[names[i]].InstalledAt, m.Agents[names[j]].InstalledAt
		if !a.Equal(b) {
			return a.Before(b)
		}
		return names[i] < names[j]
	})
	return names
}

// ManifestStore reads and writes a project's manifest file.
type ManifestStore struct {
	dir string
}

// NewManifestStore returns the store for the project rooted at projectDir.
func NewManifestStore(projectDir string) *ManifestStore {
	return &ManifestStore{dir: filepath.Join(projectDir, stateDirName)}
}

// Path returns the full path to the manifest file.
func (s *ManifestStore) Path() string {
	return filepath.Join(s.dir, manifestFileName)
}

// Read parses the manifest.
// Returns nil, nil if the file does not exist.
func (s *ManifestStore) Read() (*Manifest, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", s.Path(), err)
	}
	if m.Agents == nil {
		m.Agents = map[string]ManifestEntry{}
	}
	return &m, nil
}

// Write replaces the manifest file with m, creating the state directory if
// needed. Agents are keyed by name so output is deterministic.
func (s *ManifestStore) Write(m *Manifest) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	// Ensure trailing newline.
	data = append(data, '\n')

	path := s.Path()

	// Atomic write: write to temp file, then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving manifest: %w", err)
	}
	return nil
}
