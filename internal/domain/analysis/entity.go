package analysis

// Confidence levels the model is asked to use. Values coming back from the
// model are passed through as-is and never checked against this set.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Result is the structured view of one brain scan analysis.
type Result struct {
	TumorPresent    bool   `json:"tumor_present"`
	TumorType       string `json:"tumor_type"`
	Confidence      string `json:"confidence"`
	Analysis        string `json:"analysis"`
	Recommendations string `json:"recommendations"`
}
