// Package render applies interpreted results to a presentation surface.
package render

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Veraticus/lovetype/internal/model"
)

// NoValue is shown for an optional field that has no value.
const NoValue = "—"

// Slot names a text field on a surface.
type Slot string

// Surface slots.
const (
	SlotTypeName   Slot = "type_name"
	SlotHybrid     Slot = "hybrid"
	SlotCatch      Slot = "catch"
	SlotFeature    Slot = "feature"
	SlotAdvice     Slot = "advice"
	SlotConfidence Slot = "confidence"
	SlotMacro      Slot = "macro"
	SlotRatios     Slot = "ratios"
)

// ErrMissingSlot is returned when a surface lacks a slot its layout needs.
var ErrMissingSlot = errors.New("surface is missing a required slot")

// ErrNoChart is returned when a layout needs a chart but no factory was given.
var ErrNoChart = errors.New("layout requires a chart factory")

// Surface is where text fields are written.
type Surface interface {
	Slots() []Slot
	SetText(slot Slot, text string)
}

// Chart is a live radar chart widget. Update rebinds data in place; Destroy
// releases it. A destroyed chart must not be used again.
type Chart interface {
	Update(labels []string, values []float64)
	Destroy()
}

// ChartFactory creates chart widgets.
type ChartFactory interface {
	NewChart(labels []string, values []float64) (Chart, error)
}

// Layout describes which slots a view fills and whether it draws a chart.
type Layout struct {
	Name  string
	Slots []Slot
	Chart bool
}

// ResultLayout is the main result view.
var ResultLayout = Layout{
	Name:  "result",
	Slots: []Slot{SlotTypeName, SlotHybrid, SlotCatch, SlotFeature, SlotAdvice, SlotConfidence},
	Chart: true,
}

// DetailLayout is the detail view reached from the result view.
var DetailLayout = Layout{
	Name:  "detail",
	Slots: []Slot{SlotTypeName, SlotMacro, SlotRatios, SlotFeature, SlotAdvice},
}

// Renderer binds results to one surface. It owns at most one chart at a
// time: the first Render creates it, later calls update it in place.
type Renderer struct {
	surface Surface
	factory ChartFactory
	chart   Chart
	layout  Layout
}

// NewRenderer checks that surface provides every slot of layout.
func NewRenderer(surface Surface, layout Layout, factory ChartFactory) (*Renderer, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrMissingSlot)
	}
	have := surface.Slots()
	for _, slot := range layout.Slots {
		if !slices.Contains(have, slot) {
			return nil, fmt.Errorf("%w: %s view needs %q", ErrMissingSlot, layout.Name, slot)
		}
	}
	if layout.Chart && factory == nil {
		return nil, fmt.Errorf("%w: %s view", ErrNoChart, layout.Name)
	}
	return &Renderer{surface: surface, layout: layout, factory: factory}, nil
}

// Render writes result to the surface. Calling it again with new data
// updates the existing chart rather than creating another.
func (r *Renderer) Render(result model.InterpretedResult) error {
	for _, slot := range r.layout.Slots {
		r.surface.SetText(slot, slotText(slot, result))
	}

	if !r.layout.Chart {
		return nil
	}

	labels := model.Dimensions[:]
	values := result.RadarSeries[:]
	if r.chart != nil {
		r.chart.Update(labels, values)
		return nil
	}

	chart, err := r.factory.NewChart(labels, values)
	if err != nil {
		return fmt.Errorf("failed to create chart: %w", err)
	}
	r.chart = chart
	return nil
}

// Replace destroys the current chart and renders result with a new one.
func (r *Renderer) Replace(result model.InterpretedResult) error {
	r.Reset()
	return r.Render(result)
}

// Reset destroys the current chart so the next Render starts fresh.
func (r *Renderer) Reset() {
	if r.chart != nil {
		r.chart.Destroy()
		r.chart = nil
	}
}

// Close releases the renderer's chart.
func (r *Renderer) Close() {
	r.Reset()
}

// Chart returns the live chart, if any.
func (r *Renderer) Chart() Chart {
	return r.chart
}

// slotText formats one field of result.
func slotText(slot Slot, result model.InterpretedResult) string {
	switch slot {
	case SlotTypeName:
		return orNoValue(result.DisplayMicroType)
	case SlotHybrid:
		return orNoValue(result.HybridLabel)
	case SlotCatch:
		return orNoValue(result.Catch)
	case SlotFeature:
		return orNoValue(result.Feature)
	case SlotAdvice:
		return orNoValue(result.Advice)
	case SlotConfidence:
		return strconv.Itoa(result.ConfidencePercent) + "%"
	case SlotMacro:
		return macroText(result)
	case SlotRatios:
		return ratiosText(result.Ratios)
	default:
		return NoValue
	}
}

func macroText(result model.InterpretedResult) string {
	if result.MacroTop == "" {
		return NoValue
	}
	text := result.MacroTop
	if result.Quadrant != "" {
		text += " / 象限 " + result.Quadrant
	}
	return text
}

func ratiosText(ratios map[string]float64) string {
	parts := make([]string, 0, len(model.RatioKeys))
	for _, key := range model.RatioKeys {
		if v, ok := ratios[key]; ok {
			parts = append(parts, key+" "+strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	if len(parts) == 0 {
		return NoValue
	}
	return strings.Join(parts, "  ")
}

func orNoValue(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoValue
	}
	return s
}
