package models

// ClassifierResult is the tuple produced by the external ML classifier.
// Category and subtype are free-form strings validated against the taxonomy
// at the gateway; mismatches fall back rather than fail.
type ClassifierResult struct {
	Category   string   `json:"category,omitempty"`
	Subtype    string   `json:"subtype,omitempty"`
	Severity   Severity `json:"severity"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}
