package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

// multiFileAdapter stores each agent as <dir>/<name>.md.
type multiFileAdapter struct {
	def Definition
	dir string
	src Source
	log *slog.Logger
}

func (a *multiFileAdapter) Name() string        { return a.def.Name }
func (a *multiFileAdapter) DisplayName() string { return a.def.DisplayName }
func (a *multiFileAdapter) Mode() Mode          { return MultiFile }
func (a *multiFileAdapter) OutputPath() string  { return a.dir }

func (a *multiFileAdapter) agentPath(name string) string {
	return filepath.Join(a.dir, name+".md")
}

func (a *multiFileAdapter) Install(e catalog.Entry) error {
	raw, err := readSource(a.src, e)
	if err != nil {
		return err
	}

	data := raw
	if !a.def.Verbatim() {
		data, err = renderAgentFile(a.def, markdown.Parse(string(raw)), e)
		if err != nil {
			return fmt.Errorf("rendering %s for %s: %w", e.Name, a.def.DisplayName, err)
		}
	}

	path := a.agentPath(e.Name)
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("installing %s for %s: %w", e.Name, a.def.DisplayName, err)
	}
	a.log.Debug("wrote agent file", "agent", e.Name, "path", path)
	return nil
}

func (a *multiFileAdapter) Remove(e catalog.Entry) error {
	path := a.agentPath(e.Name)
	if err := removeFile(path); err != nil {
		return fmt.Errorf("removing %s for %s: %w", e.Name, a.def.DisplayName, err)
	}
	a.log.Debug("removed agent file", "agent", e.Name, "path", path)

	// Clean up an empty agents directory, then its parent (.claude/agents/ -> .claude/).
	cleanupEmptyDir(a.dir)
	cleanupEmptyDir(filepath.Dir(a.dir))
	return nil
}

func (a *multiFileAdapter) Sync(entries, _ []catalog.Entry) (map[string]error, error) {
	failed := make(map[string]error)
	for _, e := range entries {
		if err := a.Install(e); err != nil {
			failed[e.Name] = err
		}
	}
	return failed, nil
}

func (a *multiFileAdapter) Scan(known []catalog.Entry) ([]string, error) {
	files, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning %s: %w", a.dir, err)
	}

	index := catalog.Index(known)
	var found []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ".md")
		if _, ok := index[name]; ok {
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found, nil
}
