package components

import (
	"testing"

	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func testLabels() []model.CategoryLabel {
	return []model.CategoryLabel{"共感", "調和", "依存", "刺激", "信頼"}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPickerModel_Navigation(t *testing.T) {
	tests := []struct {
		name string
		want model.CategoryLabel
		keys []string
	}{
		{name: "starts at first", keys: nil, want: "共感"},
		{name: "down", keys: []string{"down"}, want: "調和"},
		{name: "j twice", keys: []string{"j", "j"}, want: "依存"},
		{name: "up stops at top", keys: []string{"up", "k"}, want: "共感"},
		{name: "down stops at bottom", keys: []string{"G", "j", "down"}, want: "信頼"},
		{name: "home", keys: []string{"G", "g"}, want: "共感"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPickerModel("あなた", testLabels(), themes.Default)
			m.Focus()
			for _, k := range tt.keys {
				m, _ = m.Update(keyMsg(k))
			}
			got, ok := m.Selected()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPickerModel_IgnoresKeysWhenBlurred(t *testing.T) {
	m := NewPickerModel("あなた", testLabels(), themes.Default)
	m, _ = m.Update(keyMsg("down"))

	got, _ := m.Selected()
	assert.Equal(t, model.CategoryLabel("共感"), got)
}

func TestPickerModel_SetLabelsKeepsSelection(t *testing.T) {
	m := NewPickerModel("あなた", testLabels(), themes.Default)
	assert.True(t, m.Select("刺激"))

	m.SetLabels([]model.CategoryLabel{"刺激", "共感"})
	got, _ := m.Selected()
	assert.Equal(t, model.CategoryLabel("刺激"), got)

	m.SetLabels([]model.CategoryLabel{"調和"})
	got, _ = m.Selected()
	assert.Equal(t, model.CategoryLabel("調和"), got)

	assert.False(t, m.Select("未知"))
}

func TestPickerModel_Empty(t *testing.T) {
	m := NewPickerModel("あなた", nil, themes.Default)
	m.Focus()
	m, _ = m.Update(keyMsg("down"))

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "タイプなし")
}

func TestPickerModel_ViewScrolls(t *testing.T) {
	m := NewPickerModel("あなた", testLabels(), themes.Default)
	m.Focus()
	m.Resize(20, 4)

	for range 4 {
		m, _ = m.Update(keyMsg("down"))
	}
	view := m.View()
	assert.Contains(t, view, "信頼")
	assert.NotContains(t, view, "共感")
}
