package analysis

import "strings"

const (
	separator    = "|"
	sectionCount = 5

	TumorTypeNone    = "None"
	TumorTypeUnknown = "Unknown"

	// FallbackRecommendation is returned when the reply has no usable sections.
	FallbackRecommendation = "Please consult a neurologist for professional diagnosis."
)

// Parse converts a model reply into a Result. See ParseDetailed.
func Parse(reply string) Result {
	r, _ := ParseDetailed(reply)
	return r
}

// ParseDetailed splits the reply on '|' and maps the first five sections to
// presence, type, confidence, analysis and recommendations. Extra sections are
// ignored. A reply with fewer than five sections is handled heuristically and
// the second return value is true.
func ParseDetailed(reply string) (Result, bool) {
	parts := strings.Split(reply, separator)
	if len(parts) >= sectionCount {
		return Result{
			TumorPresent:    strings.Contains(strings.ToLower(parts[0]), "true"),
			TumorType:       strings.TrimSpace(parts[1]),
			Confidence:      strings.TrimSpace(parts[2]),
			Analysis:        strings.TrimSpace(parts[3]),
			Recommendations: strings.TrimSpace(parts[4]),
		}, false
	}
	return fallback(reply), true
}

func fallback(reply string) Result {
	present := strings.Contains(strings.ToLower(reply), "tumor")
	tumorType := TumorTypeNone
	if present {
		tumorType = TumorTypeUnknown
	}
	return Result{
		TumorPresent:    present,
		TumorType:       tumorType,
		Confidence:      ConfidenceMedium,
		Analysis:        reply,
		Recommendations: FallbackRecommendation,
	}
}
