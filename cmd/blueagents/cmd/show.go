package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a catalog agent",
	Long: `Print an agent's source document. On a terminal the markdown is
rendered; use --raw for the unmodified file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		name := args[0]
		e, err := d.catalog.Lookup(name)
		if errors.Is(err, catalog.ErrNotFound) && !strings.HasPrefix(name, "blue-") {
			e, err = d.catalog.Lookup("blue-" + name)
		}
		if err != nil {
			return err
		}
		data, err := d.catalog.Read(e)
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetBool("raw")
		if raw || !isatty.IsTerminal(os.Stdout.Fd()) {
			_, err = os.Stdout.Write(data)
			return err
		}
		out, err := tui.RenderMarkdown(string(data), d.out.Width())
		if err != nil {
			return err
		}
		d.out.Printf("%s", out)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the source without rendering")
	rootCmd.AddCommand(showCmd)
}
