package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core"
	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/tui"
)

var removeCmd = &cobra.Command{
	Use:     "remove [names...]",
	Aliases: []string{"rm"},
	Short:   "Remove installed agents from the project",
	Long: `Remove agents that blueagents installed in the project.

Names not tracked in the manifest are reported and leave the project
untouched. Content of other tools in shared files is never removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		interactive, _ := cmd.Flags().GetBool("interactive")
		if all && len(args) > 0 {
			return errors.New("--all cannot be combined with agent names")
		}
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

		var results []core.ItemResult
		switch {
		case all:
			results, err = orch.RemoveAll()

		case interactive:
			st, serr := orch.Status()
			if serr != nil {
				return serr
			}
			entries := make([]catalog.Entry, 0, len(st.Installed)+len(st.Stale))
			for _, a := range st.Installed {
				entries = append(entries, a.Entry)
			}
			for _, name := range st.Stale {
				entries = append(entries, catalog.Entry{Name: name, Description: "no longer in catalog"})
			}
			picked, ok, perr := pickAgents(tui.PickerOptions{
				Title:   "Remove agents from " + orch.Adapter().DisplayName(),
				Entries: entries,
				Checked: args,
			})
			if perr != nil {
				return perr
			}
			if !ok {
				d.out.Println("Cancelled.")
				return nil
			}
			if len(picked) == 0 {
				d.out.Println("Nothing selected.")
				return nil
			}
			d.out.Printf("Selected: %s\n", tui.Summary(picked))
			results, err = orch.Remove(picked)

		case len(args) == 0:
			return errors.New("no agents given: pass agent names, --all or --interactive")

		default:
			results, err = orch.Remove(args)
		}

		if len(results) == 0 && err == nil {
			d.out.Println("No agents installed.")
			return nil
		}
		printResults(d.out, results)
		return err
	},
}

func init() {
	removeCmd.Flags().Bool("all", false, "Remove every installed agent")
	removeCmd.Flags().BoolP("interactive", "i", false, "Choose agents in an interactive picker")
	rootCmd.AddCommand(removeCmd)
}
