package interpret

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/lovetype/internal/model"
)

// adviceDelimiter matches the first advice label or separator line in a body.
// Labels may appear inline; separators must stand alone on their line.
var adviceDelimiter = regexp.MustCompile(
	`(?m)アドバイス[ \t　]*[：:]|【アドバイス】|(?i:advice)[ \t]*[：:]` +
		`|^[ \t　]*(?:-{3,}|\*{3,}|_{3,}|—{2,}|―{2,}|・{3,}|＊{3,}|={3,})[ \t　]*$`,
)

// SegmentBody splits the payload copy into feature and advice text.
//
// Pre-segmented feature/advice fields are used verbatim whenever either is
// present. Otherwise the trimmed body is split at the first advice
// delimiter; failing that, a body shorter than MinRunes is all feature;
// failing that, the first max(MinLines, floor(lines*LineRatio)) lines are
// feature and the rest advice.
func SegmentBody(c model.Copy, opts SegmentOptions) (feature, advice string) {
	if c.Feature != nil || c.Advice != nil {
		return deref(c.Feature), deref(c.Advice)
	}

	text := strings.TrimSpace(strings.ReplaceAll(deref(c.Body), "\r\n", "\n"))
	if text == "" {
		return "", ""
	}

	if loc := adviceDelimiter.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[:loc[0]]), strings.TrimSpace(text[loc[1]:])
	}

	if utf8.RuneCountInString(text) < opts.MinRunes {
		return text, ""
	}

	lines := strings.Split(text, "\n")
	pivot := featurePivot(len(lines), opts)
	if pivot >= len(lines) {
		return text, ""
	}
	return strings.TrimSpace(strings.Join(lines[:pivot], "\n")),
		strings.TrimSpace(strings.Join(lines[pivot:], "\n"))
}

// featurePivot is the number of leading lines that belong to the feature.
func featurePivot(lineCount int, opts SegmentOptions) int {
	minLines := max(opts.MinLines, 1)
	return max(minLines, int(float64(lineCount)*opts.LineRatio))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
