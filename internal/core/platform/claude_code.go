package platform

// ClaudeCode understands @-mentions and subagent files natively, so agent
// documents are copied unmodified.
func ClaudeCode() Definition {
	return Definition{
		Name:        "claude-code",
		DisplayName: "Claude Code",
		Mode:        MultiFile,
		Path:        ".claude/agents",
		Signals:     []string{"CLAUDE.md", ".claude", ".mcp.json"},
	}
}

func init() { Register(ClaudeCode()) }
