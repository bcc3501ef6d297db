package cmd

import (
	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core/platform"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List supported platforms",
	Long: `List the platforms blueagents can install agents for, where each one
writes its output, and which ones appear to be in use in the project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		detected := make(map[string]bool)
		for _, def := range platform.Detect(d.dir) {
			detected[def.Name] = true
		}
		flag, _ := cmd.Flags().GetString("platform")
		active, _ := d.settings.ResolvePlatform(flag, d.dir)

		for _, def := range platform.All() {
			marks := ""
			if def.Name == active.Name {
				marks += " " + d.out.OK("(active: "+active.Source+")")
			}
			if detected[def.Name] {
				marks += " " + d.out.Muted("(detected)")
			}
			d.out.Printf("%-16s %-16s %-12s %s%s\n", def.Name, def.DisplayName, def.Mode, def.Path, marks)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(platformsCmd)
}
