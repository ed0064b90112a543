package interpret

import (
	"strconv"
	"strings"

	"github.com/Veraticus/lovetype/internal/model"
)

// hybridPrefix heads every hybrid label.
const hybridPrefix = "ハイブリッド傾向"

// NormalizeMicroLabel guarantees the micro type ends in MicroTypeSuffix.
func NormalizeMicroLabel(raw string, policy EmptyLabelPolicy) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		if policy == EmptyAsBlank {
			return ""
		}
		return EmptyLabelMarker
	}
	if strings.HasSuffix(name, MicroTypeSuffix) {
		return name
	}
	return name + MicroTypeSuffix
}

// ComputeHybridLabel returns a label naming the secondary macro
// classification when the margin is at or below HybridMarginThreshold, and
// the empty string otherwise. The margin must be a JSON number; a numeric
// string does not count. With showDetails the label also carries the
// margin and the candidate list in server order.
func ComputeHybridLabel(macro model.Macro, showDetails bool) string {
	if macro.Second == nil {
		return ""
	}
	second := strings.TrimSpace(*macro.Second)
	if second == "" || !macro.Margin.IsJSONNumber() || macro.Margin.Value > HybridMarginThreshold {
		return ""
	}

	label := hybridPrefix + " / " + second
	if !showDetails {
		return label
	}

	var b strings.Builder
	b.WriteString(label)
	b.WriteString("（差 ")
	b.WriteString(formatExact(macro.Margin.Value))
	if len(macro.Candidates) > 0 {
		b.WriteString(" / 候補: ")
		for i, c := range macro.Candidates {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.Name)
			if c.Distance.Valid {
				b.WriteString(" ")
				b.WriteString(formatExact(c.Distance.Value))
			}
		}
	}
	b.WriteString("）")
	return b.String()
}

// formatExact prints the shortest representation that round-trips, so no
// precision is added or removed.
func formatExact(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
