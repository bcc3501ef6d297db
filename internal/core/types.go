// Package core provides the project-level business logic for blueagents:
// configuration, the install manifest and the orchestrator that ties the
// agent catalog to a platform adapter.
// It has zero UI dependencies and is independently testable.
package core

import (
	"time"

	"github.com/barysiuk/blueagents/internal/core/catalog"
)

// Config is stored at ~/.blueagents/config.json (user) and
// <project>/.blueagents/config.json (project). Both accept JSONC.
type Config struct {
	Platform   string `json:"platform,omitempty"`
	CatalogDir string `json:"catalogDir,omitempty"`
}

// Manifest records which agents are installed in a project. It is stored at
// <project>/.blueagents/manifest.json regardless of the active platform.
type Manifest struct {
	SchemaVersion string                   `json:"schemaVersion"`
	CreatedAt     time.Time                `json:"createdAt"`
	Agents        map[string]ManifestEntry `json:"agents"`
}

// ManifestEntry is a single tracked agent.
type ManifestEntry struct {
	InstalledVersion string    `json:"installedVersion"`
	InstalledAt      time.Time `json:"installedAt"`
}

// Status is the outcome of one item in a batch operation.
type Status string

const (
	StatusInstalled    Status = "installed"
	StatusRemoved      Status = "removed"
	StatusSynced       Status = "synced"
	StatusNotFound     Status = "not-found"     // name is not in the catalog
	StatusNotInstalled Status = "not-installed" // name is not tracked in the manifest
	StatusStale        Status = "stale"         // tracked, but gone from the catalog
	StatusFailed       Status = "failed"
)

// ItemResult reports what happened to one requested agent.
type ItemResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Err    error  `json:"-"`
}

// OK reports whether the item was applied.
func (r ItemResult) OK() bool {
	switch r.Status {
	case StatusInstalled, StatusRemoved, StatusSynced:
		return true
	}
	return false
}

// InstalledAgent is a tracked agent that still exists in the catalog.
type InstalledAgent struct {
	catalog.Entry
	Version     string    `json:"installedVersion"`
	InstalledAt time.Time `json:"installedAt"`
	// OnDisk is false when the manifest tracks the agent but the platform
	// output does not contain it (repair drops such entries).
	OnDisk bool `json:"onDisk"`
}

// ProjectStatus compares the manifest, the catalog and the platform output.
type ProjectStatus struct {
	Platform  string           `json:"platform"`
	Installed []InstalledAgent `json:"installed"`
	Available []catalog.Entry  `json:"available"`
	Orphaned  []string         `json:"orphaned"` // on disk, not tracked
	Stale     []string         `json:"stale"`    // tracked, not in the catalog
}

// RepairResult lists the manifest changes made by a repair.
type RepairResult struct {
	Readded []string `json:"readded"`
	Dropped []string `json:"dropped"`
}

// Changed reports whether repair modified the manifest.
func (r RepairResult) Changed() bool {
	return len(r.Readded) > 0 || len(r.Dropped) > 0
}
