// Package platform defines how agents are materialised for each supported
// AI coding tool.
//
// A platform is described by a static Definition (output path, file mode,
// header table) registered from its own file. Adapters are created per
// project by New and own installation, removal, sync and scanning of the
// platform's output. Multi-file platforms write one file per agent;
// single-file platforms combine every installed agent into one document.
package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

var (
	// ErrUnknownPlatform is returned when a name has no registered definition.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrSourceUnreadable marks a catalog entry whose source document could
	// not be read. It indicates a corrupt catalog, not a user error.
	ErrSourceUnreadable = errors.New("agent source unreadable")
)

// Mode is the output layout of a platform.
type Mode int

const (
	// MultiFile platforms store one file per agent in a directory.
	MultiFile Mode = iota
	// SingleFile platforms combine all agents into one shared document.
	SingleFile
)

func (m Mode) String() string {
	if m == SingleFile {
		return "single-file"
	}
	return "multi-file"
}

// Source reads catalog documents. *catalog.Catalog implements it.
type Source interface {
	Read(e catalog.Entry) ([]byte, error)
}

// Adapter installs and removes agents for one platform in one project.
type Adapter interface {
	Name() string
	DisplayName() string
	Mode() Mode

	// OutputPath is the agents directory (multi-file) or the combined file
	// (single-file). It performs no I/O.
	OutputPath() string

	// Install writes the agent's content. Re-installing overwrites.
	Install(e catalog.Entry) error

	// Remove deletes the agent's content. Missing content is not an error.
	Remove(e catalog.Entry) error

	// Sync rebuilds the output from entries, in order. Agents whose source
	// cannot be read are skipped and reported in the returned map. known is
	// the full catalog; combined-file content owned by none of it is kept.
	Sync(entries, known []catalog.Entry) (map[string]error, error)

	// Scan returns the names of known agents present in the output.
	Scan(known []catalog.Entry) ([]string, error)
}

// Field is a frontmatter key/value emitted for rendered multi-file output.
type Field struct {
	Key   string
	Value any
}

// Definition is the static configuration of a platform.
type Definition struct {
	Name        string
	DisplayName string
	Mode        Mode

	// Path is project-relative: a directory for multi-file platforms, the
	// combined file for single-file platforms.
	Path string

	// Signals are project files or directories indicating the platform is in use.
	Signals []string

	// Headers renames or drops sections. Used by rendered output only.
	Headers markdown.HeaderMap

	// Frontmatter, when set on a multi-file platform, switches output from a
	// verbatim copy of the source to a rendered document with these fields.
	Frontmatter func(doc *markdown.Document, e catalog.Entry) []Field

	// Preamble opens a newly created combined file (single-file only).
	Preamble string
}

// Verbatim reports whether agent files are copied unmodified.
func (d Definition) Verbatim() bool {
	return d.Mode == MultiFile && d.Frontmatter == nil
}

// --- Registry ---

var definitions []Definition

// Register adds a platform definition.
func Register(d Definition) { definitions = append(definitions, d) }

// All returns every registered platform sorted by name.
func All() []Definition {
	result := make([]Definition, len(definitions))
	copy(result, definitions)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns the names of all registered platforms, sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

// ByName returns the definition with the given name.
func ByName(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Lookup is ByName returning ErrUnknownPlatform with the valid choices.
func Lookup(name string) (Definition, error) {
	d, ok := ByName(name)
	if !ok {
		return Definition{}, fmt.Errorf("%w %q; available: %s",
			ErrUnknownPlatform, name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Detect returns the platforms that appear to be in use in projectDir:
// either a detection signal or the platform's own output exists.
func Detect(projectDir string) []Definition {
	var detected []Definition
	for _, d := range All() {
		if d.activeIn(projectDir) {
			detected = append(detected, d)
		}
	}
	return detected
}

func (d Definition) activeIn(projectDir string) bool {
	if pathExists(filepath.Join(projectDir, d.Path)) {
		return true
	}
	for _, sig := range d.Signals {
		if pathExists(filepath.Join(projectDir, sig)) {
			return true
		}
	}
	return false
}

// New creates the adapter for the named platform rooted at projectDir.
// A nil logger discards log output.
func New(name, projectDir string, src Source, logger *slog.Logger) (Adapter, error) {
	d, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewFromDefinition(d, projectDir, src, logger), nil
}

// NewFromDefinition creates an adapter for an explicit definition.
func NewFromDefinition(d Definition, projectDir string, src Source, logger *slog.Logger) Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("platform", d.Name)
	path := filepath.Join(projectDir, d.Path)

	switch d.Mode {
	case SingleFile:
		return &singleFileAdapter{def: d, path: path, src: src, log: logger}
	default:
		return &multiFileAdapter{def: d, dir: path, src: src, log: logger}
	}
}

// readSource reads and wraps source failures as ErrSourceUnreadable.
func readSource(src Source, e catalog.Entry) ([]byte, error) {
	data, err := src.Read(e)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, e.Name, err)
	}
	return data, nil
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
