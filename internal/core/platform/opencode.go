package platform

// OpenCode reads agent markdown from .opencode/agent/ as-is.
func OpenCode() Definition {
	return Definition{
		Name:        "opencode",
		DisplayName: "OpenCode",
		Mode:        MultiFile,
		Path:        ".opencode/agent",
		Signals:     []string{"opencode.json", "opencode.jsonc", ".opencode"},
	}
}

func init() { Register(OpenCode()) }
