// Package components holds reusable bubbletea widgets.
package components

import (
	"strings"

	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PickerModel is a vertical list of catalog types with a cursor.
type PickerModel struct {
	theme   themes.Theme
	title   string
	labels  []model.CategoryLabel
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// NewPickerModel creates a picker over labels.
func NewPickerModel(title string, labels []model.CategoryLabel, theme themes.Theme) PickerModel {
	return PickerModel{
		title:  title,
		labels: labels,
		theme:  theme,
		width:  24,
		height: 10,
	}
}

// SetLabels replaces the list, keeping the cursor on the same label when it
// still exists.
func (m *PickerModel) SetLabels(labels []model.CategoryLabel) {
	current, _ := m.Selected()
	m.labels = labels
	m.cursor = 0
	m.offset = 0
	for i, l := range labels {
		if l == current {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// Select moves the cursor to label. It returns false when label is not listed.
func (m *PickerModel) Select(label model.CategoryLabel) bool {
	for i, l := range m.labels {
		if l == label {
			m.cursor = i
			m.scroll()
			return true
		}
	}
	return false
}

// Selected returns the label under the cursor.
func (m PickerModel) Selected() (model.CategoryLabel, bool) {
	if len(m.labels) == 0 {
		return "", false
	}
	return m.labels[m.cursor], true
}

// Focus gives the picker keyboard input.
func (m *PickerModel) Focus() { m.focused = true }

// Blur removes keyboard input.
func (m *PickerModel) Blur() { m.focused = false }

// Focused reports whether the picker receives keys.
func (m PickerModel) Focused() bool { return m.focused }

// Resize sets the picker size.
func (m *PickerModel) Resize(width, height int) {
	m.width = max(width, 8)
	m.height = max(height, 3)
	m.scroll()
}

// Update handles navigation keys when focused.
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.labels) == 0 {
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		if m.cursor < len(m.labels)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.labels) - 1
	}
	m.scroll()
	return m, nil
}

func (m *PickerModel) scroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m PickerModel) visibleRows() int {
	// title line plus a blank line
	return max(m.height-2, 1)
}

// View renders the picker.
func (m PickerModel) View() string {
	title := m.theme.Subtitle.Render(m.title)
	if m.focused {
		title = m.theme.Bold.Render(m.title)
	}

	if len(m.labels) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "",
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render("(タイプなし)"))
	}

	end := min(m.offset+m.visibleRows(), len(m.labels))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		text := runewidth.Truncate(m.labels[i].String(), m.width-2, "…")
		text = runewidth.FillRight(text, m.width-2)
		switch {
		case i == m.cursor && m.focused:
			rows = append(rows, m.theme.Selected.Render("› "+text))
		case i == m.cursor:
			rows = append(rows, m.theme.Highlighted.Render("  "+text))
		default:
			rows = append(rows, m.theme.Normal.Render("  "+text))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", strings.Join(rows, "\n"))
}
