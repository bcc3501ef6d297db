package platform

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/markdown"
)

// singleFileAdapter combines every agent into one document:
//
//	<preamble>
//
//	## <agent A description>
//	...
//
//	---
//
//	## <agent B description>
//	...
type singleFileAdapter struct {
	def  Definition
	path string
	src  Source
	log  *slog.Logger
}

func (a *singleFileAdapter) Name() string        { return a.def.Name }
func (a *singleFileAdapter) DisplayName() string { return a.def.DisplayName }
func (a *singleFileAdapter) Mode() Mode          { return SingleFile }
func (a *singleFileAdapter) OutputPath() string  { return a.path }

func (a *singleFileAdapter) block(e catalog.Entry) (string, error) {
	raw, err := readSource(a.src, e)
	if err != nil {
		return "", err
	}
	return renderBlock(a.def, markdown.Parse(string(raw)), e), nil
}

// Install appends the agent's block, or replaces it in place when the
// agent is already present.
func (a *singleFileAdapter) Install(e catalog.Entry) error {
	text, err := a.block(e)
	if err != nil {
		return err
	}

	doc, err := a.load()
	if err != nil {
		return err
	}

	key := blockKey(e)
	replaced := false
	for i, b := range doc.blocks {
		if b.key == key {
			doc.blocks[i] = newBlock(text)
			replaced = true
			break
		}
	}
	if !replaced {
		doc.blocks = append(doc.blocks, newBlock(text))
	}

	if err := a.save(doc); err != nil {
		return fmt.Errorf("installing %s for %s: %w", e.Name, a.def.DisplayName, err)
	}
	a.log.Debug("wrote agent block", "agent", e.Name, "path", a.path, "replaced", replaced)
	return nil
}

// Remove drops the agent's block and rewrites the file from the remaining
// blocks. Blocks that belong to no known agent are kept verbatim.
func (a *singleFileAdapter) Remove(e catalog.Entry) error {
	doc, err := a.load()
	if err != nil {
		return err
	}

	key := blockKey(e)
	kept := doc.blocks[:0]
	removed := false
	for _, b := range doc.blocks {
		if b.key == key {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	if !removed {
		return nil
	}
	doc.blocks = kept

	if err := a.save(doc); err != nil {
		return fmt.Errorf("removing %s for %s: %w", e.Name, a.def.DisplayName, err)
	}
	a.log.Debug("removed agent block", "agent", e.Name, "path", a.path)
	return nil
}

// Sync regenerates the file from entries in the given order. The preamble
// of an existing file is kept. Blocks belonging to none of the known agents
// are kept verbatim after the rebuilt ones.
func (a *singleFileAdapter) Sync(entries, known []catalog.Entry) (map[string]error, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}

	owned := make(map[string]bool, len(known)+len(entries))
	for _, e := range known {
		owned[blockKey(e)] = true
	}
	for _, e := range entries {
		owned[blockKey(e)] = true
	}
	var opaque []block
	existing := make(map[string]block, len(doc.blocks))
	for _, b := range doc.blocks {
		if !owned[b.key] {
			opaque = append(opaque, b)
			continue
		}
		existing[b.key] = b
	}

	failed := make(map[string]error)
	doc.blocks = nil
	for _, e := range entries {
		text, err := a.block(e)
		if err != nil {
			failed[e.Name] = err
			// Keep what is installed when the source cannot be read.
			if b, ok := existing[blockKey(e)]; ok {
				doc.blocks = append(doc.blocks, b)
			}
			continue
		}
		doc.blocks = append(doc.blocks, newBlock(text))
	}
	doc.blocks = append(doc.blocks, opaque...)

	if err := a.save(doc); err != nil {
		return failed, fmt.Errorf("syncing %s: %w", a.def.DisplayName, err)
	}
	a.log.Debug("rebuilt combined file", "path", a.path, "agents", len(doc.blocks))
	return failed, nil
}

func (a *singleFileAdapter) Scan(known []catalog.Entry) ([]string, error) {
	doc, err := a.load()
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]string, len(known))
	for _, e := range known {
		byKey[blockKey(e)] = e.Name
	}

	var found []string
	for _, b := range doc.blocks {
		if name, ok := byKey[b.key]; ok {
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found, nil
}

// load reads the combined file. A missing file yields the default preamble
// and no blocks.
func (a *singleFileAdapter) load() (*combinedFile, error) {
	content, ok, err := readFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", a.path, err)
	}
	if !ok {
		return &combinedFile{preamble: strings.TrimSpace(a.def.Preamble)}, nil
	}
	return parseCombined(content), nil
}

// save writes the combined file, or deletes it when no blocks remain and
// the preamble is the generated one. A user-written preamble is kept.
func (a *singleFileAdapter) save(doc *combinedFile) error {
	if len(doc.blocks) == 0 && (doc.preamble == "" || doc.preamble == strings.TrimSpace(a.def.Preamble)) {
		if err := removeFile(a.path); err != nil {
			return err
		}
		if filepath.Dir(a.def.Path) != "." {
			cleanupEmptyDir(filepath.Dir(a.path))
		}
		return nil
	}
	return writeFile(a.path, []byte(doc.String()))
}

// --- Combined file format ---

// combinedFile is a parsed single-file platform document.
type combinedFile struct {
	preamble string
	blocks   []block
}

// block is one separator-delimited chunk. key is the text of its leading
// "## " heading, or "" for chunks that do not start with one.
type block struct {
	key  string
	text string
}

func newBlock(text string) block {
	text = strings.TrimSpace(text)
	first, _, _ := strings.Cut(text, "\n")
	var key string
	if strings.HasPrefix(first, "## ") {
		key = strings.TrimSpace(strings.TrimPrefix(first, "## "))
	}
	return block{key: key, text: text}
}

// parseCombined splits content on separator lines. Text before the first
// "## " heading of the first chunk is the preamble. A frontmatter block
// opening the file belongs to the preamble and is not split.
func parseCombined(content string) *combinedFile {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	frontmatter, lines := splitFrontmatter(lines)

	var chunks [][]string
	var cur []string
	for _, line := range lines {
		if line == blockSeparator {
			chunks = append(chunks, cur)
			cur = nil
			continue
		}
		cur = append(cur, line)
	}
	chunks = append(chunks, cur)

	doc := &combinedFile{}
	first := chunks[0]
	split := len(first)
	for i, line := range first {
		if strings.HasPrefix(line, "## ") {
			split = i
			break
		}
	}
	doc.preamble = strings.TrimSpace(strings.Join(first[:split], "\n"))
	if frontmatter != "" {
		doc.preamble = strings.TrimRight(frontmatter+"\n"+doc.preamble, "\n")
	}
	if rest := strings.Join(first[split:], "\n"); strings.TrimSpace(rest) != "" {
		doc.blocks = append(doc.blocks, newBlock(rest))
	}

	for _, chunk := range chunks[1:] {
		text := strings.Join(chunk, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		doc.blocks = append(doc.blocks, newBlock(text))
	}
	return doc
}

// splitFrontmatter separates a leading "---" delimited block from the rest
// of the lines. A block containing a "## " heading is not frontmatter.
func splitFrontmatter(lines []string) (string, []string) {
	if len(lines) == 0 || lines[0] != blockSeparator {
		return "", lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			return "", lines
		}
		if lines[i] == blockSeparator {
			return strings.Join(lines[:i+1], "\n"), lines[i+1:]
		}
	}
	return "", lines
}

// String renders the preamble followed by separator-delimited blocks.
func (c *combinedFile) String() string {
	var parts []string
	if c.preamble != "" {
		parts = append(parts, c.preamble)
	}
	texts := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		texts[i] = b.text
	}
	if len(texts) > 0 {
		parts = append(parts, strings.Join(texts, "\n\n"+blockSeparator+"\n\n"))
	}
	return strings.Join(parts, "\n\n") + "\n"
}
