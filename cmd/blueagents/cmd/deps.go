package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core"
	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/platform"
	"github.com/barysiuk/blueagents/internal/tui"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	dir      string
	user     *core.ConfigManager
	settings *core.Settings
	catalog  *catalog.Catalog
	log      *slog.Logger
	out      *tui.Output
}

// newDeps resolves the project directory, configuration and catalog.
// Called lazily by commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	dir, err := resolveTargetDir(cmd)
	if err != nil {
		return nil, err
	}

	user, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	settings, err := core.LoadSettings(dir, user)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := newLogger(os.Stderr, verbose)

	cat := catalog.Bundled()
	flag, _ := cmd.Flags().GetString("catalog")
	if catDir := settings.ResolveCatalogDir(flag, dir); catDir != "" {
		log.Debug("using catalog directory", "dir", catDir)
		cat = catalog.FromDir(catDir)
	}

	return &deps{
		dir:      dir,
		user:     user,
		settings: settings,
		catalog:  cat,
		log:      log,
		out:      tui.NewOutput(os.Stdout),
	}, nil
}

// platform resolves the platform for the project from flags, environment,
// configuration or detection.
func (d *deps) platform(cmd *cobra.Command) (platform.Adapter, error) {
	flag, _ := cmd.Flags().GetString("platform")
	choice, err := d.settings.ResolvePlatform(flag, d.dir)
	if err != nil {
		return nil, err
	}
	d.log.Debug("resolved platform", "platform", choice.Name, "source", choice.Source)
	return platform.New(choice.Name, d.dir, d.catalog, d.log)
}

// orchestrator builds the orchestrator for the resolved platform.
func (d *deps) orchestrator(cmd *cobra.Command) (*core.Orchestrator, error) {
	adapter, err := d.platform(cmd)
	if err != nil {
		return nil, err
	}
	return core.NewOrchestrator(core.OrchestratorOptions{
		Catalog: d.catalog,
		Adapter: adapter,
		Store:   core.NewManifestStore(d.dir),
		Version: Version,
		Logger:  d.log,
	}), nil
}
