package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "blueagents",
	Short: "Install blue agent personas into AI coding tools",
	Long: `blueagents installs a catalog of specialist agent personas into a project
for Claude Code, OpenCode, Cursor, Gemini CLI, GitHub Copilot or Codex,
and keeps track of what is installed in .blueagents/manifest.json.

Mention an installed agent with @blue-<name> in your coding tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blueagents %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("dir", "d", "", "Project directory (default: current directory)")
	pf.StringP("platform", "p", "", "Target platform (e.g. claude-code, cursor, codex)")
	pf.String("catalog", "", "Agent catalog directory (default: bundled catalog)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
