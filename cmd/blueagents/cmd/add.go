package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [names...]",
	Short: "Install agents into the project",
	Long: `Install one or more catalog agents for the project's platform.

Names may omit the blue- prefix. Unknown names are reported and skipped;
the remaining agents are still installed. Adding an installed agent
re-installs it from the current catalog.

Examples:
  blueagents add blue-go-developer code-reviewer
  blueagents add --profile backend
  blueagents add -i`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTerminal(cmd); err != nil {
			return err
		}
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		orch, err := d.orchestrator(cmd)
		if err != nil {
			return err
		}

		names := append([]string(nil), args...)

		profileName, _ := cmd.Flags().GetString("profile")
		if profileName != "" {
			p, err := d.catalog.Profile(profileName)
			if err != nil {
				return err
			}
			names = append(names, p.Agents...)
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive {
			available, err := d.catalog.ListAvailable()
			if err != nil {
				return err
			}
			st, err := orch.Status()
			if err != nil {
				return err
			}
			installed := make([]string, len(st.Installed))
			for i, a := range st.Installed {
				installed[i] = a.Name
			}
			picked, ok, err := pickAgents(tui.PickerOptions{
				Title:     "Add agents to " + orch.Adapter().DisplayName(),
				Entries:   available,
				Checked:   names,
				Installed: installed,
				Source:    entrySource(d.catalog),
			})
			if err != nil {
				return err
			}
			if !ok {
				d.out.Println("Cancelled.")
				return nil
			}
			names = picked
			d.out.Printf("Selected: %s\n", tui.Summary(names))
		}

		if len(names) == 0 {
			return errors.New("no agents given: pass agent names, --profile or --interactive")
		}

		d.out.Printf("Installing for %s...\n", orch.Adapter().DisplayName())
		results, err := orch.Add(names)
		printResults(d.out, results)
		if err != nil {
			return err
		}
		return resultsError(results)
	},
}

// entrySource adapts a catalog to the picker's preview source.
func entrySource(c *catalog.Catalog) func(catalog.Entry) (string, error) {
	return func(e catalog.Entry) (string, error) {
		data, err := c.Read(e)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

func init() {
	addCmd.Flags().String("profile", "", "Install every agent of a named profile")
	addCmd.Flags().BoolP("interactive", "i", false, "Choose agents in an interactive picker")
	rootCmd.AddCommand(addCmd)
}
