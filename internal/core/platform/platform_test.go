package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/barysiuk/blueagents/internal/core/catalog"
)

// mapSource serves agent documents from memory, keyed by agent name.
type mapSource map[string]string

func (m mapSource) Read(e catalog.Entry) ([]byte, error) {
	data, ok := m[e.Name]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", e.SourceFilename)
	}
	return []byte(data), nil
}

func agentDoc(name, desc string) string {
	return fmt.Sprintf(`---
name: %s
description: %s
tags: [test]
---
You are %s.

## Core Responsibilities

Do the work. Ask @blue-helper when stuck.

## Delegation Guidelines

Send reviews to @blue-code-reviewer.

## Output Format

Short answers.
`, name, desc, name)
}

func entry(name, desc string) catalog.Entry {
	return catalog.Entry{Name: name, Description: desc, SourceFilename: name + ".md"}
}

var (
	agentA = entry("blue-alpha", "Alpha specialist")
	agentB = entry("blue-beta", "Beta specialist")
	agentC = entry("blue-gamma", "Gamma specialist")
)

func testSource() mapSource {
	return mapSource{
		agentA.Name: agentDoc(agentA.Name, agentA.Description),
		agentB.Name: agentDoc(agentB.Name, agentB.Description),
		agentC.Name: agentDoc(agentC.Name, agentC.Description),
	}
}

func newAdapter(t *testing.T, name, dir string) Adapter {
	t.Helper()
	a, err := New(name, dir, testSource(), nil)
	if err != nil {
		t.Fatalf("New(%q) error: %v", name, err)
	}
	return a
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry(t *testing.T) {
	want := []string{"claude-code", "codex", "cursor", "gemini-cli", "github-copilot", "opencode"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	var multi, single int
	for _, d := range All() {
		switch d.Mode {
		case MultiFile:
			multi++
		case SingleFile:
			single++
			if d.Preamble == "" {
				t.Errorf("single-file platform %q has no preamble", d.Name)
			}
		}
		if d.DisplayName == "" || d.Path == "" {
			t.Errorf("platform %q is missing display name or path", d.Name)
		}
	}
	if multi != 4 || single != 2 {
		t.Errorf("multi=%d single=%d, want 4 and 2", multi, single)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("notepad")
	if !errors.Is(err, ErrUnknownPlatform) {
		t.Fatalf("expected ErrUnknownPlatform, got %v", err)
	}
	if !strings.Contains(err.Error(), "claude-code") {
		t.Errorf("error should list available platforms: %v", err)
	}
	if _, err := New("notepad", t.TempDir(), testSource(), nil); !errors.Is(err, ErrUnknownPlatform) {
		t.Errorf("New: expected ErrUnknownPlatform, got %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	dir := "/project"
	tests := map[string]string{
		"claude-code":    filepath.Join(dir, ".claude/agents"),
		"opencode":       filepath.Join(dir, ".opencode/agent"),
		"cursor":         filepath.Join(dir, ".cursor/rules"),
		"gemini-cli":     filepath.Join(dir, ".gemini/agents"),
		"github-copilot": filepath.Join(dir, ".github/copilot-instructions.md"),
		"codex":          filepath.Join(dir, "AGENTS.md"),
	}
	for name, want := range tests {
		a, err := New(name, dir, testSource(), nil)
		if err != nil {
			t.Fatalf("New(%q) error: %v", name, err)
		}
		if got := a.OutputPath(); got != want {
			t.Errorf("%s OutputPath() = %q, want %q", name, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	if got := Detect(dir); len(got) != 0 {
		t.Fatalf("expected nothing detected in empty dir, got %d", len(got))
	}
	if err := os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "AGENTS.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, d := range Detect(dir) {
		names = append(names, d.Name)
	}
	if !reflect.DeepEqual(names, []string{"claude-code", "codex"}) {
		t.Errorf("Detect() = %v", names)
	}
}

// ---------------------------------------------------------------------------
// Multi-file
// ---------------------------------------------------------------------------

func TestMultiFile_VerbatimInstall(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "claude-code", dir)

	if err := a.Install(agentA); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	got := readString(t, filepath.Join(dir, ".claude/agents/blue-alpha.md"))
	if got != testSource()[agentA.Name] {
		t.Errorf("content differs from source:\n%s", got)
	}
}

func TestMultiFile_InstallIdempotent(t *testing.T) {
	for _, name := range []string{"claude-code", "opencode", "cursor", "gemini-cli"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			a := newAdapter(t, name, dir)

			if err := a.Install(agentA); err != nil {
				t.Fatalf("first Install() error: %v", err)
			}
			first := readString(t, filepath.Join(a.OutputPath(), "blue-alpha.md"))

			if err := a.Install(agentA); err != nil {
				t.Fatalf("second Install() error: %v", err)
			}
			files, err := os.ReadDir(a.OutputPath())
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != 1 {
				t.Fatalf("expected exactly one file, got %d", len(files))
			}
			if second := readString(t, filepath.Join(a.OutputPath(), "blue-alpha.md")); second != first {
				t.Error("re-install changed content")
			}
		})
	}
}

func TestMultiFile_RemoveIdempotent(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "opencode", dir)

	// Removing something never installed is fine.
	if err := a.Remove(agentA); err != nil {
		t.Fatalf("Remove() of missing agent error: %v", err)
	}

	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	if err := a.Install(agentB); err != nil {
		t.Fatal(err)
	}
	if err := a.Remove(agentA); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if err := a.Remove(agentA); err != nil {
		t.Fatalf("second Remove() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(a.OutputPath(), "blue-alpha.md")); !os.IsNotExist(err) {
		t.Error("agent file still present")
	}
	if _, err := os.Stat(filepath.Join(a.OutputPath(), "blue-beta.md")); err != nil {
		t.Error("unrelated agent file was removed")
	}

	if err := a.Remove(agentB); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".opencode")); !os.IsNotExist(err) {
		t.Error("empty platform directories should be cleaned up")
	}
}

func TestMultiFile_RenderedCursor(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "cursor", dir)
	if err := a.Install(agentA); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	got := readString(t, filepath.Join(dir, ".cursor/rules/blue-alpha.md"))

	for _, want := range []string{
		"---\ndescription: Alpha specialist\nalwaysApply: false\n---\n",
		"You are blue-alpha.",
		"## Core Responsibilities",
		"Ask the appropriate specialist when stuck.",
		"## Output Format",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"Delegation Guidelines", "@blue-", "name: blue-alpha"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("output should not contain %q:\n%s", unwanted, got)
		}
	}
}

func TestMultiFile_RenderedGemini(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "gemini-cli", dir)
	if err := a.Install(agentB); err != nil {
		t.Fatalf("Install() error: %v", err)
	}
	got := readString(t, filepath.Join(dir, ".gemini/agents/blue-beta.md"))

	if !strings.HasPrefix(got, "---\nname: blue-beta\ndescription: Beta specialist\ntags:\n") {
		t.Errorf("unexpected frontmatter:\n%s", got)
	}
	if !strings.Contains(got, "- test\n---\n") {
		t.Errorf("tags not rendered as a list:\n%s", got)
	}
	if !strings.Contains(got, "## Responsibilities") || strings.Contains(got, "## Core Responsibilities") {
		t.Errorf("header not renamed:\n%s", got)
	}
}

func TestMarshalFrontmatter(t *testing.T) {
	data, err := marshalFrontmatter([]Field{
		{Key: "name", Value: "blue-alpha"},
		{Key: "description", Value: "true"},
		{Key: "alwaysApply", Value: false},
		{Key: "globs", Value: "**"},
		{Key: "tags", Value: []string{"a", "b c"}},
	})
	if err != nil {
		t.Fatalf("marshalFrontmatter() error: %v", err)
	}
	out := string(data)
	if !(strings.Index(out, "name:") < strings.Index(out, "description:") &&
		strings.Index(out, "description:") < strings.Index(out, "alwaysApply:") &&
		strings.Index(out, "globs:") < strings.Index(out, "tags:")) {
		t.Errorf("field order not kept:\n%s", out)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	want := map[string]any{
		"name":        "blue-alpha",
		"description": "true",
		"alwaysApply": false,
		"globs":       "**",
		"tags":        []any{"a", "b c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded = %#v, want %#v", got, want)
	}

	if _, err := marshalFrontmatter([]Field{{Key: "n", Value: 3}}); err == nil {
		t.Error("expected an error for an unsupported value type")
	}
}

func TestMultiFile_Scan(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "claude-code", dir)

	names, err := a.Scan([]catalog.Entry{agentA, agentB})
	if err != nil || names != nil {
		t.Fatalf("Scan() on missing dir = %v, %v", names, err)
	}

	if err := a.Install(agentB); err != nil {
		t.Fatal(err)
	}
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	// A hand-written file that is not in the catalog is ignored.
	if err := os.WriteFile(filepath.Join(a.OutputPath(), "mine.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err = a.Scan([]catalog.Entry{agentA, agentB, agentC})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"blue-alpha", "blue-beta"}) {
		t.Errorf("Scan() = %v", names)
	}
}

func TestMultiFile_SyncReportsFailures(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "claude-code", dir)
	ghost := entry("blue-ghost", "Ghost")

	failed, err := a.Sync([]catalog.Entry{agentA, ghost, agentB}, nil)
	if err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	if len(failed) != 1 || !errors.Is(failed["blue-ghost"], ErrSourceUnreadable) {
		t.Errorf("failed = %v", failed)
	}
	for _, n := range []string{"blue-alpha", "blue-beta"} {
		if _, err := os.Stat(filepath.Join(a.OutputPath(), n+".md")); err != nil {
			t.Errorf("%s not installed: %v", n, err)
		}
	}
}

func TestSingleFile_SyncKeepsBlockOfUnreadableSource(t *testing.T) {
	for _, name := range []string{"github-copilot", "codex"} {
		t.Run(name, func(t *testing.T) {
			src := testSource()
			a, err := New(name, t.TempDir(), src, nil)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range []catalog.Entry{agentA, agentB} {
				if err := a.Install(e); err != nil {
					t.Fatal(err)
				}
			}
			before := readString(t, a.OutputPath())

			delete(src, agentA.Name)
			known := []catalog.Entry{agentA, agentB}
			failed, err := a.Sync(known, known)
			if err != nil {
				t.Fatalf("Sync() error: %v", err)
			}
			if len(failed) != 1 || !errors.Is(failed[agentA.Name], ErrSourceUnreadable) {
				t.Errorf("failed = %v", failed)
			}
			if got := readString(t, a.OutputPath()); got != before {
				t.Errorf("installed content changed:\ngot:\n%s\nwant:\n%s", got, before)
			}
			names, err := a.Scan(known)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(names, []string{agentA.Name, agentB.Name}) {
				t.Errorf("Scan() = %v", names)
			}
		})
	}
}

func TestInstall_UnreadableSource(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			a := newAdapter(t, name, t.TempDir())
			err := a.Install(entry("blue-ghost", "Ghost"))
			if !errors.Is(err, ErrSourceUnreadable) {
				t.Fatalf("expected ErrSourceUnreadable, got %v", err)
			}
			if _, statErr := os.Stat(a.OutputPath()); !os.IsNotExist(statErr) {
				t.Error("failed install should not create output")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Single-file
// ---------------------------------------------------------------------------

func TestSingleFile_InstallAppends(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "github-copilot", dir)

	if err := a.Install(agentB); err != nil {
		t.Fatal(err)
	}
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}

	got := readString(t, a.OutputPath())
	if !strings.HasPrefix(got, copilotPreamble+"\n\n## Beta specialist\n") {
		t.Errorf("expected preamble followed by first block:\n%s", got)
	}
	betaIdx := strings.Index(got, "## Beta specialist")
	alphaIdx := strings.Index(got, "## Alpha specialist")
	if betaIdx < 0 || alphaIdx < 0 || alphaIdx < betaIdx {
		t.Errorf("blocks should be in append order:\n%s", got)
	}
	if !strings.Contains(got, "\n\n---\n\n## Alpha specialist") {
		t.Errorf("second block should follow a separator:\n%s", got)
	}
	if strings.Count(got, "\n---\n") != 1 {
		t.Errorf("expected exactly one separator:\n%s", got)
	}
}

func TestSingleFile_BlockFormat(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "github-copilot", dir)
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}

	want := copilotPreamble + `

## Alpha specialist

You are blue-alpha.

### Responsibilities

Do the work. Ask the appropriate specialist when stuck.

### Response Format

Short answers.
`
	if got := readString(t, a.OutputPath()); got != want {
		t.Errorf("combined file =\n%s\nwant\n%s", got, want)
	}
}

func TestSingleFile_ReinstallReplacesInPlace(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "codex", dir)
	for _, e := range []catalog.Entry{agentA, agentB} {
		if err := a.Install(e); err != nil {
			t.Fatal(err)
		}
	}
	before := readString(t, a.OutputPath())

	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	if after := readString(t, a.OutputPath()); after != before {
		t.Errorf("re-install changed file:\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestSingleFile_Remove(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "codex", dir)

	if err := a.Remove(agentA); err != nil {
		t.Fatalf("Remove() with no file error: %v", err)
	}
	if _, err := os.Stat(a.OutputPath()); !os.IsNotExist(err) {
		t.Fatal("Remove() should not create the file")
	}

	for _, e := range []catalog.Entry{agentA, agentB, agentC} {
		if err := a.Install(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Remove(agentB); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	got := readString(t, a.OutputPath())
	if strings.Contains(got, "Beta specialist") {
		t.Errorf("removed block still present:\n%s", got)
	}
	if !strings.Contains(got, "## Alpha specialist") || !strings.Contains(got, "## Gamma specialist") {
		t.Errorf("remaining blocks lost:\n%s", got)
	}

	// Removing again is a no-op.
	if err := a.Remove(agentB); err != nil {
		t.Fatal(err)
	}
	if again := readString(t, a.OutputPath()); again != got {
		t.Error("second Remove() changed the file")
	}

	if err := a.Remove(agentA); err != nil {
		t.Fatal(err)
	}
	if err := a.Remove(agentC); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(a.OutputPath()); !os.IsNotExist(err) {
		t.Error("file should be deleted once no blocks remain")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Error("project directory must never be removed")
	}
}

func TestSingleFile_RemovePreservesUnknownBlocks(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "codex", dir)
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}

	// Hand-edited content: an unknown agent block and a chunk with no heading.
	content := readString(t, a.OutputPath()) +
		"\n---\n\n## My own notes\n\nKeep this.\n\n---\n\nLoose paragraph.\n"
	if err := os.WriteFile(a.OutputPath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := a.Remove(agentA); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	got := readString(t, a.OutputPath())
	want := codexPreamble + "\n\n## My own notes\n\nKeep this.\n\n---\n\nLoose paragraph.\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSingleFile_UserPreambleKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "AGENTS.md")
	if err := os.WriteFile(path, []byte("# Project notes\n\nRun make test.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newAdapter(t, "codex", dir)

	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	if got := readString(t, path); !strings.HasPrefix(got, "# Project notes\n\nRun make test.\n\n## Alpha specialist") {
		t.Errorf("user content not kept as preamble:\n%s", got)
	}

	if err := a.Remove(agentA); err != nil {
		t.Fatal(err)
	}
	if got := readString(t, path); got != "# Project notes\n\nRun make test.\n" {
		t.Errorf("user preamble should survive removal of the last block:\n%q", got)
	}
}

func TestSingleFile_ExistingFrontmatterPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".github", "copilot-instructions.md")
	original := "---\napplyTo: \"**\"\n---\n# Team rules\n\nUse tabs.\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newAdapter(t, "github-copilot", dir)

	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	got := readString(t, path)
	if !strings.HasPrefix(got, "---\napplyTo: \"**\"\n---\n# Team rules\n\nUse tabs.\n\n## Alpha specialist") {
		t.Errorf("frontmatter not kept at the top:\n%s", got)
	}
	if strings.Count(got, "\n---\n") != 1 {
		t.Errorf("unexpected separators:\n%s", got)
	}

	if _, err := a.Sync([]catalog.Entry{agentA, agentB}, nil); err != nil {
		t.Fatal(err)
	}
	if err := a.Remove(agentA); err != nil {
		t.Fatal(err)
	}
	if err := a.Remove(agentB); err != nil {
		t.Fatal(err)
	}
	if got := readString(t, path); got != original {
		t.Errorf("file not restored:\ngot:  %q\nwant: %q", got, original)
	}
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"frontmatter", "---\na: b\n---\nrest", "---\na: b\n---"},
		{"no frontmatter", "# Title\n---\n## A", ""},
		{"unclosed", "---\na: b\n", ""},
		{"leading separator before block", "---\n## A\n\nbody\n---\n## B", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := splitFrontmatter(strings.Split(tt.content, "\n"))
			if got != tt.want {
				t.Errorf("splitFrontmatter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSingleFile_SyncDeterministic(t *testing.T) {
	for _, name := range []string{"github-copilot", "codex"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			a := newAdapter(t, name, dir)

			// Incremental installs in a different order.
			for _, e := range []catalog.Entry{agentC, agentA} {
				if err := a.Install(e); err != nil {
					t.Fatal(err)
				}
			}

			list := []catalog.Entry{agentA, agentB, agentC}
			if failed, err := a.Sync(list, list); err != nil || len(failed) != 0 {
				t.Fatalf("Sync() = %v, %v", failed, err)
			}
			first := readString(t, a.OutputPath())

			if failed, err := a.Sync(list, list); err != nil || len(failed) != 0 {
				t.Fatalf("second Sync() = %v, %v", failed, err)
			}
			second := readString(t, a.OutputPath())

			if first != second {
				t.Errorf("sync output differs between runs:\n%s\n----\n%s", first, second)
			}

			doc := parseCombined(second)
			var keys []string
			for _, b := range doc.blocks {
				keys = append(keys, b.key)
			}
			want := []string{"Alpha specialist", "Beta specialist", "Gamma specialist"}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("blocks = %v, want %v", keys, want)
			}
		})
	}
}

func TestSingleFile_SyncKeepsUnknownBlocks(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "codex", dir)
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	content := readString(t, a.OutputPath()) + "\n---\n\n## My own notes\n\nKeep this.\n"
	if err := os.WriteFile(a.OutputPath(), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Sync([]catalog.Entry{agentB}, []catalog.Entry{agentA, agentB, agentC}); err != nil {
		t.Fatalf("Sync() error: %v", err)
	}
	var keys []string
	for _, b := range parseCombined(readString(t, a.OutputPath())).blocks {
		keys = append(keys, b.key)
	}
	want := []string{"Beta specialist", "My own notes"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("blocks = %v, want %v", keys, want)
	}
}

func TestSingleFile_SyncEmptyDeletesFile(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "github-copilot", dir)
	if err := a.Install(agentA); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Sync(nil, []catalog.Entry{agentA}); err != nil {
		t.Fatalf("Sync(nil) error: %v", err)
	}
	if _, err := os.Stat(a.OutputPath()); !os.IsNotExist(err) {
		t.Error("file should be removed after syncing an empty list")
	}
	if _, err := os.Stat(filepath.Join(dir, ".github")); !os.IsNotExist(err) {
		t.Error("empty .github directory should be cleaned up")
	}
}

func TestSingleFile_Scan(t *testing.T) {
	dir := t.TempDir()
	a := newAdapter(t, "codex", dir)
	for _, e := range []catalog.Entry{agentC, agentA} {
		if err := a.Install(e); err != nil {
			t.Fatal(err)
		}
	}
	names, err := a.Scan([]catalog.Entry{agentA, agentB, agentC})
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"blue-alpha", "blue-gamma"}) {
		t.Errorf("Scan() = %v", names)
	}
}

func TestSingleFile_SeparatorInContent(t *testing.T) {
	dir := t.TempDir()
	src := mapSource{
		agentA.Name: "---\nname: blue-alpha\ndescription: Alpha specialist\n---\nPrompt\n\n## Notes\n\nBefore\n\n---\n\nAfter\n",
		agentB.Name: agentDoc(agentB.Name, agentB.Description),
	}
	a, err := New("codex", dir, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []catalog.Entry{agentA, agentB} {
		if err := a.Install(e); err != nil {
			t.Fatal(err)
		}
	}

	got := readString(t, a.OutputPath())
	if !strings.Contains(got, "Before\n\n***\n\nAfter") {
		t.Errorf("separator in content should be escaped:\n%s", got)
	}
	if n := len(parseCombined(got).blocks); n != 2 {
		t.Errorf("expected 2 blocks, got %d", n)
	}
}

// ---------------------------------------------------------------------------
// Header omission across platforms
// ---------------------------------------------------------------------------

func TestHeaderOmission(t *testing.T) {
	for _, d := range All() {
		if _, keep := d.Headers.Transform("Delegation Guidelines"); keep {
			continue
		}
		t.Run(d.Name, func(t *testing.T) {
			dir := t.TempDir()
			a := NewFromDefinition(d, dir, testSource(), nil)
			for _, e := range []catalog.Entry{agentA, agentB} {
				if err := a.Install(e); err != nil {
					t.Fatal(err)
				}
			}

			var outputs []string
			if a.Mode() == SingleFile {
				outputs = append(outputs, readString(t, a.OutputPath()))
			} else {
				for _, e := range []catalog.Entry{agentA, agentB} {
					outputs = append(outputs, readString(t, filepath.Join(a.OutputPath(), e.Name+".md")))
				}
			}
			for _, out := range outputs {
				if strings.Contains(out, "Delegation Guidelines") {
					t.Errorf("omitted section present:\n%s", out)
				}
				if strings.Contains(out, "Send reviews to") {
					t.Errorf("omitted section content present:\n%s", out)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Combined file parsing
// ---------------------------------------------------------------------------

func TestParseCombined_RoundTrip(t *testing.T) {
	content := "# Title\n\nIntro.\n\n## A\n\nbody a\n\n---\n\n## B\n\nbody b\n"
	doc := parseCombined(content)
	if doc.preamble != "# Title\n\nIntro." {
		t.Errorf("preamble = %q", doc.preamble)
	}
	if len(doc.blocks) != 2 || doc.blocks[0].key != "A" || doc.blocks[1].key != "B" {
		t.Fatalf("blocks = %+v", doc.blocks)
	}
	if got := doc.String(); got != content {
		t.Errorf("String() = %q, want %q", got, content)
	}
}
