// Package tui holds the terminal UI pieces of blueagents: the interactive
// agent picker, markdown previews and styled command output.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barysiuk/blueagents/internal/core/catalog"
)

// ErrCancelled is returned by Pick when the user quits without confirming.
var ErrCancelled = errors.New("selection cancelled")

// PickerOptions configures Pick.
type PickerOptions struct {
	Title     string
	Entries   []catalog.Entry
	Checked   []string // names checked initially
	Installed []string // names shown as installed

	// Source returns an agent's markdown for the preview pane. Nil disables
	// previews.
	Source func(catalog.Entry) (string, error)
}

// previewMsg carries a rendered preview.
type previewMsg struct {
	name string
	text string
	err  error
}

// pickerModel is a multi-select list of catalog agents.
type pickerModel struct {
	width  int
	height int

	title   string
	list    list.Model
	entries []catalog.Entry
	checked map[string]bool
	source  func(catalog.Entry) (string, error)

	// Preview overlay.
	previewing    bool
	previewName   string
	previewText   string
	previewOffset int
	err           error

	confirmed bool
	quitting  bool
}

func newPickerModel(opts PickerOptions) pickerModel {
	checked := make(map[string]bool, len(opts.Checked))
	for _, n := range opts.Checked {
		checked[n] = true
	}
	installed := make(map[string]bool, len(opts.Installed))
	for _, n := range opts.Installed {
		installed[n] = true
	}

	l := list.New(entriesToItems(opts.Entries, checked, installed), agentDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetShowPagination(false)

	return pickerModel{
		title:   opts.Title,
		list:    l,
		entries: opts.Entries,
		checked: checked,
		source:  opts.Source,
	}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(1, msg.Height-4))
		return m, nil

	case previewMsg:
		m.previewName = msg.name
		m.previewText = msg.text
		m.err = msg.err
		m.previewOffset = 0
		return m, nil

	case tea.KeyMsg:
		if m.previewing {
			return m.updatePreview(msg)
		}
		// Don't intercept keys while filtering.
		if m.list.SettingFilter() {
			break
		}

		switch {
		case key.Matches(msg, keys.Quit), key.Matches(msg, keys.Back) && !m.list.IsFiltered():
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Confirm):
			m.confirmed = true
			return m, tea.Quit

		case key.Matches(msg, keys.Toggle):
			m = m.toggleSelected()
			return m, nil

		case key.Matches(msg, keys.ToggleAll):
			m = m.toggleAll()
			return m, nil

		case key.Matches(msg, keys.Preview):
			return m.openPreview()
		}
	}

	// Forward to list for navigation + filtering.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Preview):
		m.previewing = false
		m.previewText = ""
		m.err = nil
	case key.Matches(msg, keys.Down):
		m.previewOffset++
	case key.Matches(msg, keys.Up):
		m.previewOffset = max(0, m.previewOffset-1)
	case key.Matches(msg, keys.Toggle):
		m = m.toggleSelected()
	}
	return m, nil
}

// toggleSelected flips the check mark of the agent under the cursor.
func (m pickerModel) toggleSelected() pickerModel {
	it, ok := m.list.SelectedItem().(agentItem)
	if !ok {
		return m
	}
	it.checked = !it.checked
	m.checked[it.entry.Name] = it.checked
	m.list.SetItem(m.list.GlobalIndex(), it)
	return m
}

// toggleAll checks every agent, or clears all when all are checked.
func (m pickerModel) toggleAll() pickerModel {
	all := true
	for _, e := range m.entries {
		if !m.checked[e.Name] {
			all = false
			break
		}
	}
	for i, item := range m.list.Items() {
		it, ok := item.(agentItem)
		if !ok {
			continue
		}
		it.checked = !all
		m.checked[it.entry.Name] = !all
		m.list.SetItem(i, it)
	}
	return m
}

func (m pickerModel) openPreview() (tea.Model, tea.Cmd) {
	it, ok := m.list.SelectedItem().(agentItem)
	if !ok || m.source == nil {
		return m, nil
	}
	m.previewing = true
	m.previewName = it.entry.Name
	m.previewText = ""

	src, width := m.source, m.width-4
	entry := it.entry
	return m, func() tea.Msg {
		md, err := src(entry)
		if err != nil {
			return previewMsg{name: entry.Name, err: err}
		}
		out, err := RenderMarkdown(md, width)
		return previewMsg{name: entry.Name, text: out, err: err}
	}
}

// Selection returns the checked names in catalog order.
func (m pickerModel) Selection() []string {
	var names []string
	for _, e := range m.entries {
		if m.checked[e.Name] {
			names = append(names, e.Name)
		}
	}
	return names
}

func (m pickerModel) View() string {
	if m.quitting || m.confirmed {
		return ""
	}

	header := logoStyle.Render("blueagents") + headerTitleStyle.Render(m.title) + "\n"

	if m.previewing {
		return header + m.previewView()
	}

	if len(m.entries) == 0 {
		return header + mutedStyle.Render("  No agents to choose from.") + "\n"
	}

	count := mutedStyle.Render(fmt.Sprintf("  %d selected", len(m.Selection())))
	help := renderHelp(pickerHelp())

	// Render-then-measure: size the list to what the chrome leaves.
	chromeH := lipgloss.Height(header) + lipgloss.Height(count) + lipgloss.Height(help)
	if m.height > 0 {
		m.list.SetSize(m.width, max(1, m.height-chromeH))
	}
	return header + m.list.View() + "\n" + count + "\n" + help
}

func (m pickerModel) previewView() string {
	title := previewTitleStyle.Render(m.previewName)
	help := renderHelp([]key.Binding{keys.Up, keys.Down, keys.Back})
	if m.err != nil {
		return title + "\n" + errorStyle.Render("  "+m.err.Error()) + "\n" + help
	}
	if m.previewText == "" {
		return title + "\n" + mutedStyle.Render("  Rendering…") + "\n" + help
	}
	bodyH := m.height - lipgloss.Height(title) - lipgloss.Height(help) - 2
	body := clipLines(m.previewText, m.previewOffset, m.width, bodyH)
	return title + "\n" + body + "\n" + help
}

// Pick runs the picker full-screen and returns the checked names. Quitting
// without confirming returns ErrCancelled.
func Pick(opts PickerOptions) ([]string, error) {
	p := tea.NewProgram(newPickerModel(opts), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || !m.confirmed {
		return nil, ErrCancelled
	}
	return m.Selection(), nil
}

// Summary renders a one-line summary of names for confirmation messages.
func Summary(names []string) string {
	if len(names) == 0 {
		return mutedStyle.Render("nothing selected")
	}
	return strings.Join(names, ", ")
}
