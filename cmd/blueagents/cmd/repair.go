package cmd

import (
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Reconcile the manifest with the installed files",
	Long: `Scan the platform output and update the manifest to match it: agents
found on disk but not tracked are added, and tracked agents with nothing on
disk are dropped. Files are never changed.`,
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

		res, err := orch.Repair()
		if err != nil {
			return err
		}
		if !res.Changed() {
			d.out.Println("Manifest is up to date.")
			return nil
		}
		for _, name := range res.Readded {
			d.out.Printf("%s %s\n", d.out.OK("Tracked:"), name)
		}
		for _, name := range res.Dropped {
			d.out.Printf("%s %s\n", d.out.Warn("Dropped:"), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
