package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/barysiuk/blueagents/internal/core/catalog"
	"github.com/barysiuk/blueagents/internal/core/platform"
)

// mentionPrefix is the common prefix of catalog agent names. Users may omit it.
const mentionPrefix = "blue-"

// Orchestrator coordinates the catalog, one platform adapter and the
// manifest for add, remove, sync, status and repair. Batch operations are
// per item: a failure for one name never stops the others.
type Orchestrator struct {
	catalog *catalog.Catalog
	adapter platform.Adapter
	store   *ManifestStore
	version string
	log     *slog.Logger
	now     func() time.Time
}

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	Catalog *catalog.Catalog
	Adapter platform.Adapter
	Store   *ManifestStore

	// Version stamps manifest entries.
	Version string

	Logger *slog.Logger      // nil discards
	Now    func() time.Time // nil uses time.Now
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	o := &Orchestrator{
		catalog: opts.Catalog,
		adapter: opts.Adapter,
		store:   opts.Store,
		version: opts.Version,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.version == "" {
		o.version = "unknown"
	}
	return o
}

// Adapter returns the platform adapter in use.
func (o *Orchestrator) Adapter() platform.Adapter { return o.adapter }

// loadManifest reads the manifest, returning a fresh one when none exists.
func (o *Orchestrator) loadManifest() (*Manifest, bool, error) {
	m, err := o.store.Read()
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return NewManifest(o.now()), false, nil
	}
	return m, true, nil
}

// resolveName maps a user-supplied name to a catalog name, accepting the
// name without its "blue-" prefix.
func resolveName(index map[string]catalog.Entry, name string) (catalog.Entry, bool) {
	if e, ok := index[name]; ok {
		return e, true
	}
	if !strings.HasPrefix(name, mentionPrefix) {
		e, ok := index[mentionPrefix+name]
		return e, ok
	}
	return catalog.Entry{}, false
}

// Add installs the named agents and tracks them in the manifest. Re-adding
// refreshes the version and keeps installedAt. Unknown names are reported
// as StatusNotFound. The error is non-nil only when the
// catalog or manifest cannot be read or written.
func (o *Orchestrator) Add(names []string) ([]ItemResult, error) {
	available, err := o.catalog.ListAvailable()
	if err != nil {
		return nil, err
	}
	index := catalog.Index(available)

	m, _, err := o.loadManifest()
	if err != nil {
		return nil, err
	}

	var results []ItemResult
	changed := false
	seen := make(map[string]bool)
	for _, name := range names {
		e, ok := resolveName(index, name)
		if !ok {
			o.log.Info("agent not in catalog", "agent", name)
			results = append(results, ItemResult{Name: name, Status: StatusNotFound})
			continue
		}
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true

		if err := o.adapter.Install(e); err != nil {
			o.log.Info("install failed", "agent", e.Name, "error", err)
			results = append(results, ItemResult{Name: e.Name, Status: StatusFailed, Err: err})
			continue
		}
		// A re-added agent keeps its place in the install order.
		at := o.now()
		if cur, ok := m.Agents[e.Name]; ok {
			at = cur.InstalledAt
		}
		m = m.WithEntry(e.Name, o.version, at)
		changed = true
		o.log.Info("installed agent", "agent", e.Name, "platform", o.adapter.Name())
		results = append(results, ItemResult{Name: e.Name, Status: StatusInstalled})
	}

	if changed {
		if err := o.store.Write(m); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Remove uninstalls the named agents and stops tracking them. Names not in
// the manifest are reported as StatusNotInstalled and leave the filesystem
// untouched.
func (o *Orchestrator) Remove(names []string) ([]ItemResult, error) {
	m, exists, err := o.loadManifest()
	if err != nil {
		return nil, err
	}

	available, err := o.catalog.ListAvailable()
	if err != nil {
		return nil, err
	}
	index := catalog.Index(available)

	var results []ItemResult
	changed := false
	for _, name := range names {
		tracked := name
		if !m.Has(tracked) && !strings.HasPrefix(name, mentionPrefix) && m.Has(mentionPrefix+name) {
			tracked = mentionPrefix + name
		}
		if !m.Has(tracked) {
			results = append(results, ItemResult{Name: name, Status: StatusNotInstalled})
			continue
		}

		// Agents gone from the catalog are removed by name only.
		e, ok := index[tracked]
		if !ok {
			e = catalog.Entry{Name: tracked}
		}
		if err := o.adapter.Remove(e); err != nil {
			o.log.Info("remove failed", "agent", tracked, "error", err)
			results = append(results, ItemResult{Name: tracked, Status: StatusFailed, Err: err})
			continue
		}
		m = m.WithoutEntry(tracked)
		changed = true
		o.log.Info("removed agent", "agent", tracked, "platform", o.adapter.Name())
		results = append(results, ItemResult{Name: tracked, Status: StatusRemoved})
	}

	if changed && exists {
		if err := o.store.Write(m); err != nil {
			return results, err
		}
	}
	return results, nil
}

// RemoveAll uninstalls every tracked agent.
func (o *Orchestrator) RemoveAll() ([]ItemResult, error) {
	m, err := o.store.Read()
	if err != nil {
		return nil, err
	}
	return o.Remove(m.Names())
}

// Sync rebuilds the platform output from the manifest in install order and
// refreshes entry versions. Tracked agents missing from the catalog are
// reported as StatusStale and left in the manifest.
func (o *Orchestrator) Sync() ([]ItemResult, error) {
	m, exists, err := o.loadManifest()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	available, err := o.catalog.ListAvailable()
	if err != nil {
		return nil, err
	}
	index := catalog.Index(available)

	var (
		entries []catalog.Entry
		results []ItemResult
	)
	for _, name := range m.InstallOrder() {
		e, ok := index[name]
		if !ok {
			o.log.Info("tracked agent no longer in catalog", "agent", name)
			results = append(results, ItemResult{Name: name, Status: StatusStale})
			continue
		}
		entries = append(entries, e)
	}

	failed, err := o.adapter.Sync(entries, available)
	if err != nil {
		return results, err
	}

	changed := false
	for _, e := range entries {
		if ferr, ok := failed[e.Name]; ok {
			o.log.Info("sync failed", "agent", e.Name, "error", ferr)
			results = append(results, ItemResult{Name: e.Name, Status: StatusFailed, Err: ferr})
			continue
		}
		// Keep installedAt so the install order survives a sync.
		if cur := m.Agents[e.Name]; cur.InstalledVersion != o.version {
			m = m.WithEntry(e.Name, o.version, cur.InstalledAt)
			changed = true
		}
		results = append(results, ItemResult{Name: e.Name, Status: StatusSynced})
	}
	o.log.Info("synced platform output", "platform", o.adapter.Name(), "agents", len(entries)-len(failed))

	if changed {
		if err := o.store.Write(m); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Status compares the manifest with the catalog and the platform output.
func (o *Orchestrator) Status() (*ProjectStatus, error) {
	available, err := o.catalog.ListAvailable()
	if err != nil {
		return nil, err
	}
	index := catalog.Index(available)

	m, err := o.store.Read()
	if err != nil {
		return nil, err
	}

	onDisk, err := o.adapter.Scan(available)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(onDisk))
	for _, name := range onDisk {
		present[name] = true
	}

	st := &ProjectStatus{Platform: o.adapter.Name()}
	for _, name := range m.Names() {
		e, ok := index[name]
		if !ok {
			st.Stale = append(st.Stale, name)
			continue
		}
		entry := m.Agents[name]
		st.Installed = append(st.Installed, InstalledAgent{
			Entry:       e,
			Version:     entry.InstalledVersion,
			InstalledAt: entry.InstalledAt,
			OnDisk:      present[name],
		})
	}
	for _, e := range available {
		if !m.Has(e.Name) {
			st.Available = append(st.Available, e)
		}
	}
	for _, name := range onDisk {
		if !m.Has(name) {
			st.Orphaned = append(st.Orphaned, name)
		}
	}
	return st, nil
}

// Repair reconciles the manifest with the platform output: agents found on
// disk but untracked are readded at the current version, and tracked agents
// with nothing on disk are dropped. Running it twice is a no-op the second
// time.
func (o *Orchestrator) Repair() (RepairResult, error) {
	var res RepairResult

	available, err := o.catalog.ListAvailable()
	if err != nil {
		return res, err
	}

	m, exists, err := o.loadManifest()
	if err != nil {
		return res, err
	}

	onDisk, err := o.adapter.Scan(available)
	if err != nil {
		return res, fmt.Errorf("scanning %s: %w", o.adapter.DisplayName(), err)
	}
	present := make(map[string]bool, len(onDisk))
	for _, name := range onDisk {
		present[name] = true
		if !m.Has(name) {
			m = m.WithEntry(name, o.version, o.now())
			res.Readded = append(res.Readded, name)
		}
	}
	for _, name := range m.Names() {
		if !present[name] {
			m = m.WithoutEntry(name)
			res.Dropped = append(res.Dropped, name)
		}
	}
	sort.Strings(res.Readded)
	sort.Strings(res.Dropped)

	if !res.Changed() {
		return res, nil
	}
	if !exists && len(m.Agents) == 0 {
		return res, nil
	}
	for _, name := range res.Readded {
		o.log.Info("readded untracked agent", "agent", name)
	}
	for _, name := range res.Dropped {
		o.log.Info("dropped missing agent", "agent", name)
	}
	if err := o.store.Write(m); err != nil {
		return res, err
	}
	return res, nil
}

// AllFailed reports whether every result failed because its catalog source
// could not be read. Commands exit non-zero only in that case.
func AllFailed(results []ItemResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Status != StatusFailed || !errors.Is(r.Err, platform.ErrSourceUnreadable) {
			return false
		}
	}
	return true
}
