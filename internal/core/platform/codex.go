package platform

import "github.com/barysiuk/blueagents/internal/core/markdown"

const codexPreamble = `# AGENTS.md

Agent personas installed by blueagents. Each section below describes a
specialist; follow the one whose description matches the current task.`

// Codex reads AGENTS.md from the project root.
func Codex() Definition {
	return Definition{
		Name:        "codex",
		DisplayName: "Codex",
		Mode:        SingleFile,
		Path:        "AGENTS.md",
		Signals:     []string{"AGENTS.md", "codex.md", ".codex"},
		Headers: markdown.HeaderMap{
			"Delegation Guidelines": markdown.Omit(),
			"Tools & Commands":      markdown.Rename("Commands"),
		},
		Preamble: codexPreamble,
	}
}

func init() { Register(Codex()) }
