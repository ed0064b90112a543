// Package model defines the data shapes shared across the compatibility client.
package model

import (
	"strings"
	"time"
)

// CategoryLabel identifies one of the server-defined love types.
type CategoryLabel string

// String returns the label text.
func (l CategoryLabel) String() string {
	return string(l)
}

// IsEmpty reports whether the label is blank.
func (l CategoryLabel) IsEmpty() bool {
	return strings.TrimSpace(string(l)) == ""
}

// Dimension keys in the fixed display order. The order is part of the wire
// and display contract.
const (
	DimensionEmpathy     = "共感"
	DimensionHarmony     = "調和"
	DimensionDependence  = "依存"
	DimensionStimulation = "刺激"
	DimensionTrust       = "信頼"
)

// Dimensions lists the five score keys in radar order.
var Dimensions = [5]string{
	DimensionEmpathy,
	DimensionHarmony,
	DimensionDependence,
	DimensionStimulation,
	DimensionTrust,
}

// Ratio keys reported by the service alongside the scores.
var RatioKeys = []string{"動", "静", "絆", "信頼"}

// MaxDimensionScore is the nominal upper bound of a dimension score.
const MaxDimensionScore = 200.0

// CompatibilityRequest is the ordered pair sent to the score endpoint.
type CompatibilityRequest struct {
	Primary CategoryLabel `json:"primary" yaml:"primary"`
	Partner CategoryLabel `json:"partner" yaml:"partner"`
}

// Candidate is one macro classification candidate and its distance.
type Candidate struct {
	Name     string `json:"name" yaml:"name"`
	Distance Number `json:"distance" yaml:"distance"`
}

// Macro is the coarse classification layer.
type Macro struct {
	Second     *string     `json:"second,omitempty" yaml:"second,omitempty"`
	Top        string      `json:"top" yaml:"top"`
	Candidates []Candidate `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Margin     Number      `json:"margin" yaml:"margin"`
}

// Micro is the fine classification layer.
type Micro struct {
	Type     string `json:"type" yaml:"type"`
	Quadrant string `json:"quadrant,omitempty" yaml:"quadrant,omitempty"`
}

// Copy holds the descriptive text. A nil pointer means the key was absent.
type Copy struct {
	Catch   *string `json:"catch,omitempty" yaml:"catch,omitempty"`
	Body    *string `json:"body,omitempty" yaml:"body,omitempty"`
	Feature *string `json:"feature,omitempty" yaml:"feature,omitempty"`
	Advice  *string `json:"advice,omitempty" yaml:"advice,omitempty"`
}

// CompatibilityPayload is the score endpoint response.
type CompatibilityPayload struct {
	Scores     map[string]Number `json:"scores" yaml:"scores"`
	Ratios     map[string]Number `json:"ratios,omitempty" yaml:"ratios,omitempty"`
	Copy       Copy              `json:"copy" yaml:"copy"`
	Micro      Micro             `json:"micro" yaml:"micro"`
	KnownTypes []string          `json:"known_types,omitempty" yaml:"known_types,omitempty"`
	Macro      Macro             `json:"macro" yaml:"macro"`
	Confidence Number            `json:"confidence" yaml:"confidence"`
}

// InterpretedResult is the presentable view model derived from a payload.
type InterpretedResult struct {
	Ratios            map[string]float64 `json:"ratios,omitempty" yaml:"ratios,omitempty"`
	DisplayMicroType  string             `json:"display_micro_type" yaml:"display_micro_type"`
	HybridLabel       string             `json:"hybrid_label" yaml:"hybrid_label"`
	Catch             string             `json:"catch" yaml:"catch"`
	Feature           string             `json:"feature" yaml:"feature"`
	Advice            string             `json:"advice" yaml:"advice"`
	MacroTop          string             `json:"macro_top" yaml:"macro_top"`
	Quadrant          string             `json:"quadrant,omitempty" yaml:"quadrant,omitempty"`
	Candidates        []Candidate        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	RadarSeries       [5]float64         `json:"radar_series" yaml:"radar_series"`
	ConfidencePercent int                `json:"confidence_percent" yaml:"confidence_percent"`
}

// IsHybrid reports whether the macro classification was ambiguous.
func (r InterpretedResult) IsHybrid() bool {
	return r.HybridLabel != ""
}

// Diagnosis is a computed result carried from the result view to the detail view.
type Diagnosis struct {
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
	Payload   CompatibilityPayload `json:"payload" yaml:"payload"`
	SessionID string               `json:"session_id" yaml:"session_id"`
	Request   CompatibilityRequest `json:"request" yaml:"request"`
	Result    InterpretedResult    `json:"result" yaml:"result"`
}
