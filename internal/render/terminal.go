package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// slotTitles are the headings printed before each slot.
var slotTitles = map[Slot]string{
	SlotTypeName:   "ふたりの関係タイプ",
	SlotHybrid:     "ハイブリッド",
	SlotCatch:      "キャッチ",
	SlotFeature:    "特徴",
	SlotAdvice:     "アドバイス",
	SlotConfidence: "信頼度",
	SlotMacro:      "マクロ分類",
	SlotRatios:     "比率",
}

// Terminal is a Surface and ChartFactory that lays a view out as styled
// terminal text. It hosts at most one live chart per renderer; LiveCharts
// exposes the count so leaks are observable.
type Terminal struct {
	theme  themes.Theme
	texts  map[Slot]string
	charts []*RadarChart
	slots  []Slot
	width  int
	mu     sync.Mutex
}

// NewTerminal creates a surface with the given slots.
func NewTerminal(theme themes.Theme, width int, slots ...Slot) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{
		theme: theme,
		texts: make(map[Slot]string, len(slots)),
		slots: slots,
		width: width,
	}
}

// NewTerminalFor creates a surface providing exactly the slots of layout.
func NewTerminalFor(theme themes.Theme, width int, layout Layout) *Terminal {
	return NewTerminal(theme, width, layout.Slots...)
}

// Slots implements Surface.
func (t *Terminal) Slots() []Slot {
	return t.slots
}

// SetText implements Surface.
func (t *Terminal) SetText(slot Slot, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.texts[slot] = text
}

// Text returns what was last written to slot.
func (t *Terminal) Text(slot Slot) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.texts[slot]
}

// NewChart implements ChartFactory.
func (t *Terminal) NewChart(labels []string, values []float64) (Chart, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("chart has %d labels but %d values", len(labels), len(values))
	}
	chart := newRadarChart(t, labels, values)

	t.mu.Lock()
	t.charts = append(t.charts, chart)
	t.mu.Unlock()
	return chart, nil
}

// LiveCharts is the number of charts created and not yet destroyed.
func (t *Terminal) LiveCharts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.charts)
}

func (t *Terminal) release(chart *RadarChart) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range t.charts {
		if c == chart {
			t.charts = append(t.charts[:i], t.charts[i+1:]...)
			return
		}
	}
}

// SetWidth changes the layout width.
func (t *Terminal) SetWidth(width int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if width > 0 {
		t.width = width
	}
}

// View lays the surface out.
func (t *Terminal) View() string {
	t.mu.Lock()
	slots := t.slots
	texts := make(map[Slot]string, len(t.texts))
	for k, v := range t.texts {
		texts[k] = v
	}
	charts := append([]*RadarChart(nil), t.charts...)
	width := t.width
	t.mu.Unlock()

	body := lipgloss.NewStyle().Width(max(width-4, 20))

	var sections []string
	for _, slot := range slots {
		text, ok := texts[slot]
		if !ok {
			continue
		}
		if slot == SlotTypeName {
			sections = append(sections, t.theme.Title.Render(text))
			continue
		}
		style := body
		switch slot {
		case SlotCatch:
			style = style.Inherit(t.theme.Catch)
		case SlotHybrid:
			style = style.Inherit(t.theme.Hybrid)
		}
		heading := t.theme.Subtitle.Render(slotTitles[slot])
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, heading, style.Render(text)))

		// The chart sits right after the hybrid line, before the copy.
		if slot == SlotHybrid {
			for _, c := range charts {
				sections = append(sections, c.View())
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// WriteTo writes the view to w.
func (t *Terminal) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.View()+"\n")
	return int64(n), err
}

// axisFraction places v on the fixed 0–MaxDimensionScore axis.
func axisFraction(v float64) float64 {
	return max(0, min(1, v/model.MaxDimensionScore))
}

// RadarChart draws the five dimensions on a fixed 0–200 axis, one bar per
// axis in radar order.
type RadarChart struct {
	host      *Terminal
	bar       progress.Model
	labels    []string
	values    []float64
	destroyed bool
	mu        sync.Mutex
}

func newRadarChart(host *Terminal, labels []string, values []float64) *RadarChart {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
	c := &RadarChart{host: host, bar: bar}
	c.Update(labels, values)
	return c
}

// Update implements Chart.
func (c *RadarChart) Update(labels []string, values []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels[:0], labels...)
	c.values = append(c.values[:0], values...)
}

// Destroy implements Chart.
func (c *RadarChart) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()

	if c.host != nil {
		c.host.release(c)
	}
}

// Values returns a copy of the bound data.
func (c *RadarChart) Values() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.values...)
}

// View renders the chart.
func (c *RadarChart) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	labelWidth := 0
	for _, l := range c.labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	var b strings.Builder
	for i, label := range c.labels {
		v := c.values[i]
		b.WriteString(runewidth.FillRight(label, labelWidth))
		b.WriteString(" ")
		b.WriteString(c.bar.ViewAs(axisFraction(v)))
		b.WriteString(fmt.Sprintf(" %3.0f", v))
		if i < len(c.labels)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
