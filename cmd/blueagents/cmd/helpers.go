package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/barysiuk/blueagents/internal/core"
	"github.com/barysiuk/blueagents/internal/tui"
)

// ExitCoder is implemented by errors that carry a process exit code.
type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

// exitCodeCorrupt is returned when every requested agent failed because the
// catalog could not be read.
const exitCodeCorrupt = 2

// resolveTargetDir resolves the --dir flag or falls back to cwd.
func resolveTargetDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return cwd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", dir)
	}
	return abs, nil
}

// printResults prints one line per item result and returns the failure count.
func printResults(out *tui.Output, results []core.ItemResult) int {
	failed := 0
	for _, r := range results {
		switch r.Status {
		case core.StatusInstalled:
			out.Printf("%s %s\n", out.OK("Installed:"), r.Name)
		case core.StatusRemoved:
			out.Printf("%s %s\n", out.OK("Removed:"), r.Name)
		case core.StatusSynced:
			out.Printf("%s %s\n", out.OK("Synced:"), r.Name)
		case core.StatusNotFound:
			failed++
			out.Printf("%s %s (not in catalog)\n", out.Warn("Not found:"), r.Name)
		case core.StatusNotInstalled:
			out.Printf("%s %s\n", out.Muted("Not installed:"), r.Name)
		case core.StatusStale:
			out.Printf("%s %s (no longer in catalog; run 'blueagents remove %s')\n", out.Warn("Stale:"), r.Name, r.Name)
		case core.StatusFailed:
			failed++
			out.Printf("%s %s: %v\n", out.Error("Failed:"), r.Name, r.Err)
		}
	}
	return failed
}

// resultsError applies the exit policy: only a batch in which every item
// failed on an unreadable catalog source is an error.
func resultsError(results []core.ItemResult) error {
	if !core.AllFailed(results) {
		return nil
	}
	return &exitError{
		code: exitCodeCorrupt,
		msg:  fmt.Sprintf("all %d agent(s) failed: catalog sources could not be read", len(results)),
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}

// requireTerminal rejects --interactive when stdin or stdout is not a terminal.
func requireTerminal(cmd *cobra.Command) error {
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive && !tui.Interactive() {
		return errors.New("interactive mode requires a terminal")
	}
	return nil
}

// pickAgents runs the interactive picker. The bool is false when the user
// cancelled.
func pickAgents(opts tui.PickerOptions) ([]string, bool, error) {
	names, err := tui.Pick(opts)
	if errors.Is(err, tui.ErrCancelled) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return names, true, nil
}

func countOK(results []core.ItemResult) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}
