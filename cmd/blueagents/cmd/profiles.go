package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List agent profiles",
	Long: `List the named groups of agents that can be installed together with
'blueagents add --profile <name>'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		profiles, err := d.catalog.Profiles()
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(profiles)
		}
		if len(profiles) == 0 {
			d.out.Println("No profiles defined.")
			return nil
		}
		for _, p := range profiles {
			d.out.Printf("%-12s %s\n", d.out.Bold(p.Name), p.Description)
			d.out.Printf("  %s\n", d.out.Muted(strings.Join(p.Agents, ", ")))
		}
		return nil
	},
}

func init() {
	profilesCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(profilesCmd)
}
