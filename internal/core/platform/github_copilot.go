package platform

import "github.com/barysiuk/blueagents/internal/core/markdown"

const copilotPreamble = `# Copilot Instructions

This file is managed by blueagents. Each section below describes a specialist
persona. Adopt the persona that best matches the task you are asked to do.`

// GitHubCopilot reads a single instructions file for the whole repository.
func GitHubCopilot() Definition {
	return Definition{
		Name:        "github-copilot",
		DisplayName: "GitHub Copilot",
		Mode:        SingleFile,
		Path:        ".github/copilot-instructions.md",
		Signals:     []string{".github/copilot-instructions.md", ".vscode"},
		Headers: markdown.HeaderMap{
			"Delegation Guidelines": markdown.Omit(),
			"Core Responsibilities": markdown.Rename("Responsibilities"),
			"Output Format":         markdown.Rename("Response Format"),
		},
		Preamble: copilotPreamble,
	}
}

func init() { Register(GitHubCopilot()) }
