package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/lovetype/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateLoading:
		content = m.renderLoading("タイプ一覧を読み込み中...")
	case StateSelect:
		content = m.renderSelect()
	case StateDiagnosing:
		content = m.renderLoading("診断中... (Esc でキャンセル)")
	case StateResult:
		content = m.renderResult()
	case StateDetail:
		content = m.renderDetail()
	case StateEndpoint:
		content = m.renderEndpoint()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.renderStatusBar(),
		m.help.View(m.keymap),
	)
}

// renderLoading renders a spinner with a caption.
func (m Model) renderLoading(caption string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.spinner.View(),
		" ",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render(caption),
	)
}

// renderSelect renders the two type lists side by side.
func (m Model) renderSelect() string {
	title := m.theme.Title.Render("ふたりの相性診断")
	lists := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.primary.View(),
		m.theme.Normal.Render("  ×  "),
		m.partner.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, lists)
}

// renderResult renders the main result view.
func (m Model) renderResult() string {
	header := ""
	if m.shown != nil {
		header = m.theme.Subtitle.Render(pairText(m.shown.Request))
	}
	return m.theme.RoundedBox.
		Width(max(m.width-2, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, m.resultView.View()))
}

// renderDetail renders the detail view with the candidate list.
func (m Model) renderDetail() string {
	sections := []string{}
	if m.detailed != nil {
		sections = append(sections, m.theme.Subtitle.Render(pairText(m.detailed.Request)))
	}
	sections = append(sections, m.detailView.View())
	if m.detailed != nil && len(m.detailed.Result.Candidates) > 0 {
		sections = append(sections, "", m.theme.Subtitle.Render("候補"), m.renderCandidates(m.detailed.Result.Candidates))
	}
	return m.theme.RoundedBox.
		Width(max(m.width-2, 20)).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderCandidates(candidates []model.Candidate) string {
	lines := make([]string, 0, len(candidates))
	for i, c := range candidates {
		distance := "—"
		if c.Distance.Valid {
			distance = strconv.FormatFloat(c.Distance.Value, 'f', -1, 64)
		}
		lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, m.theme.Bold.Render(c.Name), distance))
	}
	return strings.Join(lines, "\n")
}

// renderEndpoint renders the API URL editor.
func (m Model) renderEndpoint() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render("API URL"),
		m.endpoint.View(),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("Enter で保存 / Esc で戻る"),
	)
}

// renderStatusBar renders the state and inline status message.
func (m Model) renderStatusBar() string {
	if m.status == "" {
		return ""
	}
	style := m.theme.StatusInfo
	if m.lastError != nil {
		style = m.theme.StatusError
	}
	return style.Width(max(m.width-2, 20)).Render(m.status)
}

func pairText(r model.CompatibilityRequest) string {
	return r.Primary.String() + " × " + r.Partner.String()
}
