package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core"
	"github.com/barysiuk/blueagents/internal/core/catalog"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "status"},
	Short:   "List installed agents",
	Long: `List the agents installed in the project for its platform.

With --available, list every agent in the catalog and mark the installed
ones instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		available, _ := cmd.Flags().GetBool("available")
		jsonOut, _ := cmd.Flags().GetBool("json")

		orch, err := d.orchestrator(cmd)
		if err != nil {
			// The catalog listing makes sense without a platform.
			if available && errors.Is(err, core.ErrNoPlatform) {
				return listCatalog(d, nil, jsonOut)
			}
			return err
		}
		st, err := orch.Status()
		if err != nil {
			return err
		}

		if available {
			return listCatalog(d, st, jsonOut)
		}
		if jsonOut {
			return printJSON(st)
		}

		adapter := orch.Adapter()
		d.out.Printf("Platform: %s (%s)\n", adapter.DisplayName(), adapter.Name())
		d.out.Printf("Output:   %s\n\n", adapter.OutputPath())

		if len(st.Installed) == 0 && len(st.Stale) == 0 {
			d.out.Println("No agents installed. Run 'blueagents add' to install some.")
		} else {
			d.out.Section(fmt.Sprintf("Installed (%d)", len(st.Installed)+len(st.Stale)))
			for _, a := range st.Installed {
				line := fmt.Sprintf("  %-28s %-10s %s", a.Name, a.Version, a.Description)
				d.out.Println(d.out.Truncate(line, 0))
				if !a.OnDisk {
					d.out.Printf("    %s\n", d.out.Warn("missing from "+adapter.OutputPath()+"; run 'blueagents sync' or 'blueagents repair'"))
				}
			}
			for _, name := range st.Stale {
				d.out.Printf("  %-28s %s\n", name, d.out.Warn("no longer in catalog"))
			}
		}

		if len(st.Orphaned) > 0 {
			d.out.Println()
			d.out.Section("Untracked")
			for _, name := range st.Orphaned {
				d.out.Printf("  %s\n", name)
			}
			d.out.Println(d.out.Muted("Run 'blueagents repair' to track them."))
		}
		return nil
	},
}

// catalogItem is the JSON shape of one --available entry.
type catalogItem struct {
	catalog.Entry
	Installed bool `json:"installed"`
}

func listCatalog(d *deps, st *core.ProjectStatus, jsonOut bool) error {
	entries, err := d.catalog.ListAvailable()
	if err != nil {
		return err
	}
	installed := make(map[string]bool)
	if st != nil {
		for _, a := range st.Installed {
			installed[a.Name] = true
		}
	}

	if jsonOut {
		items := make([]catalogItem, len(entries))
		for i, e := range entries {
			items[i] = catalogItem{Entry: e, Installed: installed[e.Name]}
		}
		return printJSON(items)
	}

	d.out.Section(fmt.Sprintf("Available agents (%d)", len(entries)))
	for _, e := range entries {
		mark := " "
		if installed[e.Name] {
			mark = d.out.OK("✓")
		}
		d.out.Println(d.out.Truncate(fmt.Sprintf("%s %-28s %s", mark, e.Name, e.Description), 0))
	}
	return nil
}

func init() {
	listCmd.Flags().Bool("available", false, "List every catalog agent")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
