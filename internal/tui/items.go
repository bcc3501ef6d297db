package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/barysiuk/blueagents/internal/core/catalog"
)

// agentItem wraps a catalog entry for the picker list.
type agentItem struct {
	entry     catalog.Entry
	checked   bool
	installed bool
}

// FilterValue matches on name, category and tags.
func (i agentItem) FilterValue() string {
	return strings.Join(append([]string{i.entry.Name, i.entry.Category}, i.entry.Tags...), " ")
}

// agentDelegate renders one agent per line:
//
//	> [x] blue-architect (installed)  Designs systems…
type agentDelegate struct{}

func (d agentDelegate) Height() int                             { return 1 }
func (d agentDelegate) Spacing() int                            { return 0 }
func (d agentDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d agentDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(agentItem)
	if !ok {
		return
	}

	cursor := "    "
	name := normalItemStyle.Render(it.entry.Name)
	if index == m.Index() {
		cursor = "  > "
		name = selectedItemStyle.Render(it.entry.Name)
	}

	box := "[ ]"
	if it.checked {
		box = checkStyle.Render("[x]")
	}

	line := cursor + box + " " + name
	if it.installed {
		line += " " + installedStyle.Render("(installed)")
	}

	if desc := it.entry.Description; desc != "" {
		avail := m.Width() - lipgloss.Width(line) - 2
		if avail > 10 {
			line += "  " + mutedStyle.Render(ansi.Truncate(desc, avail, "…"))
		}
	}
	_, _ = fmt.Fprint(w, line)
}

// entriesToItems builds list items, marking checked and installed names.
func entriesToItems(entries []catalog.Entry, checked, installed map[string]bool) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = agentItem{entry: e, checked: checked[e.Name], installed: installed[e.Name]}
	}
	return items
}
