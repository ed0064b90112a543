package tui

import (
	"errors"
	"fmt"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/render"
	"github.com/Veraticus/lovetype/internal/tui/components"
	"github.com/Veraticus/lovetype/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

const (
	StateLoading State = iota
	StateSelect
	StateDiagnosing
	StateResult
	StateDetail
	StateEndpoint
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSelect:
		return "select"
	case StateDiagnosing:
		return "diagnosing"
	case StateResult:
		return "result"
	case StateDetail:
		return "detail"
	case StateEndpoint:
		return "endpoint"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Model holds the main TUI state.
type Model struct {
	theme      themes.Theme
	lastError  error
	settings   SettingsWriter
	engine     *engine.Engine
	runtime    *config.Runtime
	result     *render.Renderer
	resultView *render.Terminal
	detail     *render.Renderer
	detailView *render.Terminal
	shown      *model.Diagnosis
	detailed   *model.Diagnosis
	config     Config
	status     string
	keymap     KeyMap
	help       help.Model
	endpoint   textinput.Model
	spinner    spinner.Model
	primary    components.PickerModel
	partner    components.PickerModel
	pending    uint64
	height     int
	width      int
	state      State
	back       State
	quitting   bool
	ready      bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) (Model, error) {
	resultView := render.NewTerminalFor(cfg.Theme, cfg.Width, render.ResultLayout)
	result, err := render.NewRenderer(resultView, render.ResultLayout, resultView)
	if err != nil {
		return Model{}, err
	}
	detailView := render.NewTerminalFor(cfg.Theme, cfg.Width, render.DetailLayout)
	detail, err := render.NewRenderer(detailView, render.DetailLayout, nil)
	if err != nil {
		return Model{}, err
	}

	input := textinput.New()
	input.Placeholder = "https://example.com/api"
	input.CharLimit = 256
	input.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = sp.Style.Foreground(cfg.Theme.Primary)

	primary := components.NewPickerModel("あなたのタイプ", nil, cfg.Theme)
	primary.Focus()
	partner := components.NewPickerModel("相手のタイプ", nil, cfg.Theme)

	h := help.New()
	h.ShowAll = false

	m := Model{
		config:     cfg,
		theme:      cfg.Theme,
		engine:     cfg.Engine,
		runtime:    cfg.Runtime,
		settings:   cfg.Settings,
		keymap:     DefaultKeyMap(),
		help:       h,
		endpoint:   input,
		spinner:    sp,
		primary:    primary,
		partner:    partner,
		result:     result,
		resultView: resultView,
		detail:     detail,
		detailView: detailView,
		width:      cfg.Width,
		height:     cfg.Height,
		state:      StateLoading,
	}
	m.handleResize()
	return m, nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCategories(), m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading && m.state != StateDiagnosing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case categoriesLoadedMsg:
		return m.handleCategories(msg)

	case diagnosisMsg:
		return m.handleDiagnosis(msg)

	case detailLoadedMsg:
		return m.handleDetail(msg)

	case endpointSavedMsg:
		return m.handleEndpointSaved(msg)
	}

	if m.state == StateEndpoint {
		var cmd tea.Cmd
		m.endpoint, cmd = m.endpoint.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey routes a key press by state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		return m.quit()
	}

	if m.state == StateEndpoint {
		return m.handleEndpointKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.state {
	case StateLoading:
		if key.Matches(msg, m.keymap.Endpoint) {
			return m.openEndpoint()
		}

	case StateDiagnosing:
		// Only cancellation is accepted while a request is pending.
		if key.Matches(msg, m.keymap.Back) {
			m.engine.Abandon()
			m.pending = 0
			m.state = StateSelect
			m.setStatus("キャンセルしました", nil)
		}

	case StateSelect:
		return m.handleSelectKey(msg)

	case StateResult:
		switch {
		case key.Matches(msg, m.keymap.Detail):
			return m, m.loadDetail()
		case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.Diagnose):
			m.state = StateSelect
		case key.Matches(msg, m.keymap.Endpoint):
			return m.openEndpoint()
		}

	case StateDetail:
		if key.Matches(msg, m.keymap.Back) {
			m.state = StateResult
			if m.shown == nil {
				m.state = StateSelect
			}
		}
	}
	return m, nil
}

func (m Model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.NextField):
		if m.primary.Focused() {
			m.primary.Blur()
			m.partner.Focus()
		} else {
			m.partner.Blur()
			m.primary.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Swap):
		a, okA := m.primary.Selected()
		b, okB := m.partner.Selected()
		if okA && okB {
			m.primary.Select(b)
			m.partner.Select(a)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Diagnose):
		return m.startDiagnosis()

	case key.Matches(msg, m.keymap.Detail):
		return m, m.loadDetail()

	case key.Matches(msg, m.keymap.Endpoint):
		return m.openEndpoint()

	case key.Matches(msg, m.keymap.Reload):
		m.state = StateLoading
		m.setStatus("", nil)
		return m, tea.Batch(m.loadCategories(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	if m.primary.Focused() {
		m.primary, cmd = m.primary.Update(msg)
	} else {
		m.partner, cmd = m.partner.Update(msg)
	}
	return m, cmd
}

func (m Model) handleEndpointKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.endpoint.Blur()
		m.state = m.back
		return m, nil
	case tea.KeyEnter:
		return m, m.saveEndpoint(m.endpoint.Value())
	}

	var cmd tea.Cmd
	m.endpoint, cmd = m.endpoint.Update(msg)
	return m, cmd
}

// startDiagnosis reserves an engine run for the selected pair. While it is
// pending the selection is locked.
func (m Model) startDiagnosis() (tea.Model, tea.Cmd) {
	primary, okA := m.primary.Selected()
	partner, okB := m.partner.Selected()
	if !okA || !okB {
		m.setStatus("", common.ErrInvalidSelection)
		return m, nil
	}

	seq, err := m.engine.Begin()
	if err != nil {
		m.setStatus("", err)
		return m, nil
	}

	m.pending = seq
	m.state = StateDiagnosing
	m.setStatus("", nil)
	return m, tea.Batch(m.runDiagnosis(seq, primary, partner), m.spinner.Tick)
}

func (m Model) openEndpoint() (tea.Model, tea.Cmd) {
	m.back = m.state
	if m.back == StateLoading {
		m.back = StateSelect
	}
	current := ""
	if m.runtime != nil {
		current = m.runtime.Settings().BaseURL
	}
	m.endpoint.SetValue(current)
	m.endpoint.CursorEnd()
	m.state = StateEndpoint
	cmd := m.endpoint.Focus()
	return m, cmd
}

func (m Model) handleCategories(msg categoriesLoadedMsg) (tea.Model, tea.Cmd) {
	if m.state == StateLoading {
		m.state = StateSelect
	}
	m.ready = true
	if msg.err != nil {
		// Labels from a previous endpoint are no longer selectable.
		m.primary.SetLabels(nil)
		m.partner.SetLabels(nil)
		m.setStatus("", msg.err)
		return m, nil
	}

	m.primary.SetLabels(msg.labels)
	m.partner.SetLabels(msg.labels)
	if m.config.Primary != "" {
		m.primary.Select(model.CategoryLabel(m.config.Primary))
	}
	if m.config.Partner != "" {
		m.partner.Select(model.CategoryLabel(m.config.Partner))
	}
	m.setStatus(fmt.Sprintf("%d タイプを読み込みました", len(msg.labels)), nil)
	return m, nil
}

func (m Model) handleDiagnosis(msg diagnosisMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pending || errors.Is(msg.err, common.ErrStaleResponse) {
		return m, nil
	}
	m.pending = 0

	if msg.err != nil {
		m.state = StateSelect
		m.setStatus("", msg.err)
		return m, nil
	}

	if err := m.result.Render(msg.diagnosis.Result); err != nil {
		m.state = StateSelect
		m.setStatus("", err)
		return m, nil
	}
	m.shown = msg.diagnosis
	m.state = StateResult
	m.setStatus("", nil)
	return m, nil
}

func (m Model) handleDetail(msg detailLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Nothing to show: send the user back to type selection.
		m.state = StateSelect
		m.setStatus("", msg.err)
		return m, nil
	}
	if err := m.detail.Render(msg.diagnosis.Result); err != nil {
		m.setStatus("", err)
		return m, nil
	}
	m.detailed = msg.diagnosis
	m.state = StateDetail
	return m, nil
}

func (m Model) handleEndpointSaved(msg endpointSavedMsg) (tea.Model, tea.Cmd) {
	if msg.baseURL == "" {
		m.setStatus("", msg.err)
		return m, nil
	}

	m.endpoint.Blur()
	m.state = StateLoading
	if msg.err != nil {
		m.setStatus("API URLを適用しましたが保存できませんでした", msg.err)
	} else {
		m.setStatus("API URLを更新しました: "+msg.baseURL, nil)
	}
	return m, tea.Batch(m.loadCategories(), m.spinner.Tick)
}

func (m *Model) setStatus(text string, err error) {
	m.lastError = err
	if err != nil && text == "" {
		text = common.Diagnose(err)
	}
	m.status = text
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.state == StateDiagnosing && m.engine != nil {
		m.engine.Abandon()
	}
	m.result.Close()
	m.detail.Close()
	m.quitting = true
	return m, tea.Quit
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	half := max((m.width-6)/2, 12)
	listHeight := max(m.height-8, 4)
	m.primary.Resize(half, listHeight)
	m.partner.Resize(half, listHeight)
	m.resultView.SetWidth(m.width - 4)
	m.detailView.SetWidth(m.width - 4)
	m.help.Width = m.width
}

// State returns the current state.
func (m Model) State() State {
	return m.state
}

// Status returns the inline status line.
func (m Model) Status() string {
	return m.status
}
