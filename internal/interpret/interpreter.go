// Package interpret turns raw compatibility payloads into presentable results.
//
// Everything here is pure: no I/O, no shared state, and arguments are never
// mutated. An InterpretedResult can be re-derived from its payload at any
// time with the same Options.
package interpret

import (
	"math"
	"slices"

	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/model"
)

const (
	// HybridMarginThreshold is the inclusive margin at or below which the
	// macro classification is presented as hybrid.
	HybridMarginThreshold = 0.06

	// MicroTypeSuffix terminates every displayed micro type name.
	MicroTypeSuffix = "タイプ"

	// EmptyLabelMarker is shown for a missing micro type under the
	// placeholder policy.
	EmptyLabelMarker = "-"
)

// EmptyLabelPolicy selects what a missing micro type renders as.
type EmptyLabelPolicy int

const (
	// EmptyAsPlaceholder renders EmptyLabelMarker.
	EmptyAsPlaceholder EmptyLabelPolicy = iota
	// EmptyAsBlank renders the empty string.
	EmptyAsBlank
)

// SegmentOptions are the policy thresholds of the body segmentation
// fallback. They are tuning values, not algorithmic requirements.
type SegmentOptions struct {
	MinRunes  int
	MinLines  int
	LineRatio float64
}

// Options configures an Interpreter.
type Options struct {
	Segment           SegmentOptions
	EmptyLabel        EmptyLabelPolicy
	ShowHybridDetails bool
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		EmptyLabel: EmptyAsPlaceholder,
		Segment: SegmentOptions{
			MinRunes:  140,
			MinLines:  3,
			LineRatio: 0.45,
		},
	}
}

// OptionsFromSettings maps configuration onto interpreter options.
func OptionsFromSettings(s config.Settings) Options {
	opts := Options{
		ShowHybridDetails: s.ShowHybridDetails,
		Segment: SegmentOptions{
			MinRunes:  s.SegmentMinRunes,
			MinLines:  s.SegmentMinLines,
			LineRatio: s.SegmentLineRatio,
		},
	}
	if s.EmptyLabelPolicy == config.EmptyLabelBlank {
		opts.EmptyLabel = EmptyAsBlank
	}
	return opts
}

// Interpreter applies a fixed set of Options to payloads.
type Interpreter struct {
	opts Options
}

// New creates an Interpreter.
func New(opts Options) *Interpreter {
	return &Interpreter{opts: opts}
}

// Options returns the interpreter's options.
func (i *Interpreter) Options() Options {
	return i.opts
}

// Interpret derives the presentable result for p.
func (i *Interpreter) Interpret(p model.CompatibilityPayload) model.InterpretedResult {
	feature, advice := SegmentBody(p.Copy, i.opts.Segment)

	result := model.InterpretedResult{
		DisplayMicroType:  NormalizeMicroLabel(p.Micro.Type, i.opts.EmptyLabel),
		HybridLabel:       ComputeHybridLabel(p.Macro, i.opts.ShowHybridDetails),
		Feature:           feature,
		Advice:            advice,
		ConfidencePercent: ClampConfidence(p.Confidence),
		RadarSeries:       ExtractRadarSeries(p.Scores),
		MacroTop:          p.Macro.Top,
		Quadrant:          p.Micro.Quadrant,
		Candidates:        slices.Clone(p.Macro.Candidates),
	}
	if p.Copy.Catch != nil {
		result.Catch = *p.Copy.Catch
	}
	if len(p.Ratios) > 0 {
		result.Ratios = make(map[string]float64, len(p.Ratios))
		for k, n := range p.Ratios {
			if n.Valid {
				result.Ratios[k] = n.Value
			}
		}
	}
	return result
}

// ClampConfidence coerces the reported confidence into an integer
// percentage. Missing or non-numeric input yields 0.
func ClampConfidence(n model.Number) int {
	if !n.Valid || math.IsNaN(n.Value) {
		return 0
	}
	v := math.Max(0, math.Min(100, n.Value))
	return int(math.Trunc(v))
}

// ExtractRadarSeries reads the five dimension scores in radar order.
func ExtractRadarSeries(scores map[string]model.Number) [5]float64 {
	var series [5]float64
	for i, key := range model.Dimensions {
		series[i] = scores[key].Or(0)
	}
	return series
}
