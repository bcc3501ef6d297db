package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the agent catalog",
	Long: `Search agent names, descriptions, categories and tags. Matching ignores
case.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")
		results, err := d.catalog.Search(query)
		if err != nil {
			return err
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(results)
		}
		if len(results) == 0 {
			d.out.Printf("No agents match %q.\n", query)
			return nil
		}
		for _, e := range results {
			d.out.Println(d.out.Truncate(fmt.Sprintf("%-28s %s", e.Name, e.Description), 0))
			if len(e.Tags) > 0 {
				d.out.Printf("  %s\n", d.out.Muted("tags: "+strings.Join(e.Tags, ", ")))
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
}
