package cmd

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reinstall tracked agents from the current catalog",
	Long: `Rebuild the platform output for every agent in the manifest, in the
order they were installed, using the current catalog. Use it after
upgrading blueagents or after editing the output by hand.

Tracked agents that are no longer in the catalog are reported and kept in
the manifest until removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		orch, err := d.orchestrator(cmd)
		if err != nil {
			return err
		}

		d.out.Printf("Syncing %s...\n", orch.Adapter().DisplayName())
		results, err := orch.Sync()
		if err != nil {
			printResults(d.out, results)
			return err
		}
		if len(results) == 0 {
			d.out.Println("Nothing to sync.")
			return nil
		}
		failed := printResults(d.out, results)
		d.out.Printf("\nSynced %d agent(s).\n", countOK(results))
		if failed > 0 {
			return resultsError(results)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
