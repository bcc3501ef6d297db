// Package catalog resolves the agent documents available for installation.
//
// A Catalog reads a directory of markdown files from any fs.FS: the bundled
// catalog embedded in the binary, a directory on disk, or an in-memory
// filesystem in tests. Only frontmatter is parsed when listing.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/barysiuk/blueagents/internal/bundle"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

var (
	// ErrNotFound is returned when a name does not resolve to a catalog entry.
	ErrNotFound = errors.New("agent not found in catalog")

	// ErrDuplicateName is returned when two documents resolve to the same name.
	ErrDuplicateName = errors.New("duplicate agent name")
)

// excludedFiles are markdown files in a catalog directory that never define agents.
var excludedFiles = map[string]bool{
	"README.md":    true,
	"CHANGELOG.md": true,
}

// Entry describes one agent available for installation.
type Entry struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	SourceFilename string   `json:"source"`
}

// Catalog lists and reads agent documents from a directory of an fs.FS.
type Catalog struct {
	fsys     fs.FS
	dir      string
	profiles string
}

// New creates a Catalog over dir inside fsys. Profiles are read from
// profiles.yaml in the same directory.
func New(fsys fs.FS, dir string) *Catalog {
	return &Catalog{
		fsys:     fsys,
		dir:      dir,
		profiles: path.Join(dir, bundle.ProfilesFile),
	}
}

// Bundled returns the catalog embedded in the binary.
func Bundled() *Catalog {
	c := New(bundle.FS, bundle.AgentsDir)
	c.profiles = bundle.ProfilesFile
	return c
}

// FromDir returns a catalog backed by a directory on disk.
func FromDir(dir string) *Catalog {
	return New(os.DirFS(dir), ".")
}

// ListAvailable returns every agent in the catalog sorted by name.
// Names come from the frontmatter name field, falling back to the file name
// without its extension.
func (c *Catalog) ListAvailable() ([]Entry, error) {
	files, err := fs.ReadDir(c.fsys, c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory: %w", err)
	}

	var entries []Entry
	owners := make(map[string]string)

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") || excludedFiles[f.Name()] {
			continue
		}

		raw, err := fs.ReadFile(c.fsys, path.Join(c.dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name(), err)
		}

		e := entryFromFrontmatter(markdown.ParseFrontmatter(string(raw)), f.Name())
		if prev, ok := owners[e.Name]; ok {
			return nil, fmt.Errorf("%w %q: defined by %s and %s", ErrDuplicateName, e.Name, prev, f.Name())
		}
		owners[e.Name] = f.Name()
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func entryFromFrontmatter(fm markdown.Frontmatter, filename string) Entry {
	name, _ := fm.Get("name")
	if name == "" {
		name = strings.TrimSuffix(filename, path.Ext(filename))
	}
	desc, _ := fm.Get("description")
	category, _ := fm.Get("category")
	return Entry{
		Name:           name,
		Description:    desc,
		Category:       category,
		Tags:           fm.GetList("tags"),
		SourceFilename: filename,
	}
}

// Lookup finds an entry by name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	entries, err := c.ListAvailable()
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Read returns the source document for an entry.
func (c *Catalog) Read(e Entry) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, path.Join(c.dir, e.SourceFilename))
	if err != nil {
		return nil, fmt.Errorf("reading source for %s: %w", e.Name, err)
	}
	return data, nil
}

// ListInstalled returns the catalog entries for the given tracked names,
// in the order given. Names no longer present in the catalog are skipped.
func (c *Catalog) ListInstalled(tracked []string) ([]Entry, error) {
	available, err := c.ListAvailable()
	if err != nil {
		return nil, err
	}
	byName := Index(available)

	var result []Entry
	for _, name := range tracked {
		if e, ok := byName[name]; ok {
			result = append(result, e)
		}
	}
	return result, nil
}

// Search returns entries whose name, description, category or tags contain
// query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) ([]Entry, error) {
	entries, err := c.ListAvailable()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries, nil
	}

	var result []Entry
	for _, e := range entries {
		if e.matches(q) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (e Entry) matches(q string) bool {
	fields := append([]string{e.Name, e.Description, e.Category}, e.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Index maps entries by name.
func Index(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}
