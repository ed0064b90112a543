package interpret

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/Veraticus/lovetype/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeMicroLabel(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		policy EmptyLabelPolicy
	}{
		{name: "already suffixed", raw: "共感タイプ", want: "共感タイプ"},
		{name: "appends suffix", raw: "共感", want: "共感タイプ"},
		{name: "trims whitespace", raw: " 共感 ", want: "共感タイプ"},
		{name: "empty placeholder", raw: "", want: "-", policy: EmptyAsPlaceholder},
		{name: "empty blank", raw: "", want: "", policy: EmptyAsBlank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMicroLabel(tt.raw, tt.policy))
		})
	}
}

func TestComputeHybridLabel(t *testing.T) {
	tests := []struct {
		name      string
		macro     model.Macro
		wantEmpty bool
	}{
		{name: "below threshold", macro: model.Macro{Second: strPtr("Y"), Margin: model.NumberOf(0.05)}},
		{name: "boundary is inclusive", macro: model.Macro{Second: strPtr("Y"), Margin: model.NumberOf(0.06)}},
		{name: "above threshold", macro: model.Macro{Second: strPtr("Y"), Margin: model.NumberOf(0.07)}, wantEmpty: true},
		{name: "missing margin", macro: model.Macro{Second: strPtr("Y")}, wantEmpty: true},
		{name: "missing second", macro: model.Macro{Margin: model.NumberOf(0.01)}, wantEmpty: true},
		{name: "blank second", macro: model.Macro{Second: strPtr("  "), Margin: model.NumberOf(0.01)}, wantEmpty: true},
		{name: "string margin", macro: model.Macro{Second: strPtr("Y"), Margin: model.Number{Value: 0.05, Valid: true, FromString: true}}, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeHybridLabel(tt.macro, false)
			if tt.wantEmpty {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, "Y")
			assert.NotContains(t, got, "候補")
		})
	}
}

func TestComputeHybridLabel_Details(t *testing.T) {
	macro := model.Macro{
		Top:    "X",
		Second: strPtr("Y"),
		Margin: model.NumberOf(0.012345),
		Candidates: []model.Candidate{
			{Name: "X", Distance: model.NumberOf(0.1)},
			{Name: "Y", Distance: model.NumberOf(0.112345)},
			{Name: "Z", Distance: model.NumberOf(0.3)},
		},
	}

	got := ComputeHybridLabel(macro, true)

	assert.Contains(t, got, "0.012345")
	assert.Less(t, strings.Index(got, "X 0.1"), strings.Index(got, "Y 0.112345"))
	assert.Less(t, strings.Index(got, "Y 0.112345"), strings.Index(got, "Z 0.3"))
}

func TestSegmentBody(t *testing.T) {
	longLine := strings.Repeat("あ", 30)
	nineLines := make([]string, 9)
	for i := range nineLines {
		nineLines[i] = longLine + string(rune('A'+i))
	}

	tests := []struct {
		name        string
		copy        model.Copy
		wantFeature string
		wantAdvice  string
	}{
		{
			name:        "japanese advice label",
			copy:        model.Copy{Body: strPtr("X\nY\nZ\nアドバイス：W")},
			wantFeature: "X\nY\nZ",
			wantAdvice:  "W",
		},
		{
			name:        "ascii colon and english label",
			copy:        model.Copy{Body: strPtr("Warm and loyal.\nAdvice: talk more")},
			wantFeature: "Warm and loyal.",
			wantAdvice:  "talk more",
		},
		{
			name:        "separator line",
			copy:        model.Copy{Body: strPtr("feature text\n---\nadvice text")},
			wantFeature: "feature text",
			wantAdvice:  "advice text",
		},
		{
			name:        "first delimiter wins",
			copy:        model.Copy{Body: strPtr("a\n---\nb\nアドバイス：c")},
			wantFeature: "a",
			wantAdvice:  "b\nアドバイス：c",
		},
		{
			name:        "short text is all feature",
			copy:        model.Copy{Body: strPtr(strings.Repeat("x", 50))},
			wantFeature: strings.Repeat("x", 50),
		},
		{
			name:        "nine long lines split at four",
			copy:        model.Copy{Body: strPtr(strings.Join(nineLines, "\n"))},
			wantFeature: strings.Join(nineLines[:4], "\n"),
			wantAdvice:  strings.Join(nineLines[4:], "\n"),
		},
		{
			name:        "pre-segmented fields win over body",
			copy:        model.Copy{Body: strPtr("X\nアドバイス：W"), Feature: strPtr(" F "), Advice: strPtr("A")},
			wantFeature: " F ",
			wantAdvice:  "A",
		},
		{
			name:        "feature only is still pre-segmented",
			copy:        model.Copy{Body: strPtr("X\nアドバイス：W"), Feature: strPtr("F")},
			wantFeature: "F",
		},
		{
			name: "empty copy",
			copy: model.Copy{},
		},
		{
			name:        "crlf body",
			copy:        model.Copy{Body: strPtr("  X\r\nアドバイス：W\r\n")},
			wantFeature: "X",
			wantAdvice:  "W",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feature, advice := SegmentBody(tt.copy, DefaultOptions().Segment)
			assert.Equal(t, tt.wantFeature, feature)
			assert.Equal(t, tt.wantAdvice, advice)
		})
	}
}

func TestSegmentBody_LongFewLinesStaysFeature(t *testing.T) {
	body := strings.Repeat("長い一行のテキスト", 20) + "\n" + strings.Repeat("二行目", 10)

	feature, advice := SegmentBody(model.Copy{Body: &body}, DefaultOptions().Segment)

	assert.Equal(t, body, feature)
	assert.Empty(t, advice)
}

func TestSegmentBody_ThresholdsAreConfigurable(t *testing.T) {
	body := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10"

	feature, advice := SegmentBody(model.Copy{Body: &body}, SegmentOptions{MinRunes: 0, MinLines: 2, LineRatio: 0.5})

	assert.Equal(t, "1\n2\n3\n4\n5", feature)
	assert.Equal(t, "6\n7\n8\n9\n10", advice)
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   model.Number
		want int
	}{
		{name: "missing", in: model.Number{}, want: 0},
		{name: "nan", in: model.Number{Value: math.NaN(), Valid: true}, want: 0},
		{name: "negative", in: model.NumberOf(-5), want: 0},
		{name: "over", in: model.NumberOf(150), want: 100},
		{name: "fraction truncates", in: model.NumberOf(72.9), want: 72},
		{name: "exact bound", in: model.NumberOf(100), want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampConfidence(tt.in)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestExtractRadarSeries(t *testing.T) {
	got := ExtractRadarSeries(map[string]model.Number{"共感": model.NumberOf(150)})
	assert.Equal(t, [5]float64{150, 0, 0, 0, 0}, got)

	got = ExtractRadarSeries(map[string]model.Number{
		"信頼": model.NumberOf(5),
		"刺激": model.NumberOf(4),
		"依存": model.NumberOf(3),
		"調和": model.NumberOf(2),
		"共感": model.NumberOf(1),
	})
	assert.Equal(t, [5]float64{1, 2, 3, 4, 5}, got)

	assert.Equal(t, [5]float64{}, ExtractRadarSeries(nil))
}

func TestInterpreter_EndToEndPayload(t *testing.T) {
	raw := `{
		"macro": {"top": "X", "second": "Y", "margin": 0.05},
		"micro": {"type": "共感"},
		"scores": {"共感": 100, "調和": 80, "依存": 60, "刺激": 40, "信頼": 20},
		"copy": {"body": "A\nB\nC\nD\nE\nF\nG\nアドバイス：H"},
		"confidence": 150
	}`

	var payload model.CompatibilityPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := New(DefaultOptions()).Interpret(payload)

	want := model.InterpretedResult{
		DisplayMicroType:  "共感タイプ",
		HybridLabel:       "ハイブリッド傾向 / Y",
		Feature:           "A\nB\nC\nD\nE\nF\nG",
		Advice:            "H",
		ConfidencePercent: 100,
		RadarSeries:       [5]float64{100, 80, 60, 40, 20},
		MacroTop:          "X",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Interpret() mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpreter_IsPureAndDeterministic(t *testing.T) {
	payload := model.CompatibilityPayload{
		Macro: model.Macro{
			Top:        "X",
			Candidates: []model.Candidate{{Name: "X", Distance: model.NumberOf(0.1)}},
		},
		Micro:      model.Micro{Type: "調和", Quadrant: "C"},
		Scores:     map[string]model.Number{"調和": model.NumberOf(120)},
		Ratios:     map[string]model.Number{"動": model.NumberOf(0.2), "静": {}},
		Copy:       model.Copy{Catch: strPtr("catch"), Body: strPtr("short")},
		Confidence: model.NumberOf(64.5),
	}

	in := New(DefaultOptions())
	first := in.Interpret(payload)
	second := in.Interpret(payload)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Interpret() not deterministic:\n%s", diff)
	}
	assert.Equal(t, "catch", first.Catch)
	assert.Equal(t, "C", first.Quadrant)
	assert.Equal(t, map[string]float64{"動": 0.2}, first.Ratios)

	first.Candidates[0].Name = "mutated"
	assert.Equal(t, "X", payload.Macro.Candidates[0].Name)
}

func TestComputeHybridLabel_DecodedMargin(t *testing.T) {
	tests := []struct {
		name      string
		macro     string
		wantEmpty bool
	}{
		{name: "number margin", macro: `{"top":"X","second":"Y","margin":0.05}`},
		{name: "string margin", macro: `{"top":"X","second":"Y","margin":"0.05"}`, wantEmpty: true},
		{name: "null margin", macro: `{"top":"X","second":"Y","margin":null}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var macro model.Macro
			require.NoError(t, json.Unmarshal([]byte(tt.macro), &macro))
			got := ComputeHybridLabel(macro, false)
			if tt.wantEmpty {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, "ハイブリッド傾向 / Y", got)
		})
	}
}
