package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core"
	"github.com/barysiuk/blueagents/internal/core/platform"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage blueagents configuration",
	Long: `Show and change configuration. Project settings live in
.blueagents/config.json, user settings in ~/.blueagents/config.json.
Both files accept comments and trailing commas.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the project and user configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return printJSON(d.settings)
		}
		d.out.Printf("Project (%s):\n", core.NewProjectConfigManager(d.dir).ConfigPath())
		printConfig(d, d.settings.Project)
		d.out.Printf("User (%s):\n", d.user.ConfigPath())
		printConfig(d, d.settings.User)
		return nil
	},
}

func printConfig(d *deps, cfg *core.Config) {
	d.out.Printf("  platform:   %s\n", valueOrUnset(cfg.Platform))
	d.out.Printf("  catalogDir: %s\n", valueOrUnset(cfg.CatalogDir))
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: fmt.Sprintf(`Set a configuration value in the project config, or the user config with
--user. Omitting the value removes the key.

Keys: %s`, strings.Join(core.ConfigKeys(), ", ")),
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], ""
		if len(args) == 2 {
			value = args[1]
		}
		if key == "platform" && value != "" {
			if _, err := platform.Lookup(value); err != nil {
				return err
			}
		}
		return setConfig(cmd, key, value)
	},
}

var configSetPlatformCmd = &cobra.Command{
	Use:   "set-platform <name>",
	Short: "Set the default platform for the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := platform.Lookup(args[0])
		if err != nil {
			return err
		}
		return setConfig(cmd, "platform", def.Name)
	},
}

// setConfig writes key to the project config, or the user config with --user.
func setConfig(cmd *cobra.Command, key, value string) error {
	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	cm := core.NewProjectConfigManager(d.dir)
	if user, _ := cmd.Flags().GetBool("user"); user {
		cm = d.user
	}
	if err := cm.Set(key, value); err != nil {
		return err
	}
	if value == "" {
		d.out.Printf("Unset %s in %s\n", key, cm.ConfigPath())
		return nil
	}
	d.out.Printf("Set %s = %s in %s\n", key, value, cm.ConfigPath())
	return nil
}

func init() {
	configShowCmd.Flags().Bool("json", false, "Output as JSON")
	configSetCmd.Flags().Bool("user", false, "Write the user config instead of the project config")
	configSetPlatformCmd.Flags().Bool("user", false, "Write the user config instead of the project config")

	configCmd.AddCommand(configShowCmd, configSetCmd, configSetPlatformCmd)
	rootCmd.AddCommand(configCmd)
}
