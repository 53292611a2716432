package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
)

// Chip styles
var (
	chipSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")).
				Background(colorAccent).
				Padding(0, 1)
	chipNormalStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// FilterModel - Interactive type filter
// =============================================================================

// FilterModel is the bubbletea model for picking which types the mindmap
// shows. Each type is a chip; selecting none shows every type.
type FilterModel struct {
	Types  []model.Type
	Filter mindmap.FilterState
	Cursor int

	// Saved is set when the user confirmed with enter.
	Saved bool
}

// NewFilterModel creates a picker starting from the current filter.
func NewFilterModel(types []model.Type, current mindmap.FilterState) FilterModel {
	return FilterModel{Types: types, Filter: current}
}

func (m FilterModel) Init() tea.Cmd {
	return nil
}

func (m FilterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k", "left", "h":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "right", "l", "tab":
		if m.Cursor < len(m.Types)-1 {
			m.Cursor++
		}
	case " ", "x":
		if len(m.Types) > 0 {
			m.Filter = m.Filter.Toggle(m.Types[m.Cursor].ID)
		}
	case "a":
		m.Filter = mindmap.NewFilter()
	case "enter":
		m.Saved = true
		return m, tea.Quit
	}
	return m, nil
}

func (m FilterModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Filter Types"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  space toggle  a all  ⏎ save  q quit"))
	b.WriteString("\n\n")

	if len(m.Types) == 0 {
		b.WriteString(listDimStyle.Render("  no types defined"))
		b.WriteString("\n")
	}
	for i, t := range m.Types {
		cursor := "  "
		if i == m.Cursor {
			cursor = listCursorStyle.Render("▸ ")
		}
		chip := chipNormalStyle.Render(t.Name)
		if m.Filter.Has(t.ID) {
			chip = chipSelectedStyle.Render(t.Name)
		}
		b.WriteString(cursor + chip + " " + listDimStyle.Render(t.ID) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("  " + describeFilter(m.Filter, m.Types)))
	b.WriteString("\n")
	return b.String()
}

// describeFilter summarises a filter as type names.
func describeFilter(f mindmap.FilterState, types []model.Type) string {
	if f.Empty() {
		return "showing all types"
	}
	names := make([]string, 0, len(f.IDs()))
	for _, t := range types {
		if f.Has(t.ID) {
			names = append(names, t.Name)
		}
	}
	return fmt.Sprintf("showing %s", strings.Join(names, ", "))
}
