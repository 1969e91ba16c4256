package models

import "encoding/json"

// FeatureRequest is the single most important feature a user asked for.
type FeatureRequest struct {
	Code   string
	Reason string
}

// AnalysisResult is what the classifier extracts from an accepted feedback.
// A nil Feature means no feature was requested.
type AnalysisResult struct {
	Sentiment Sentiment
	Feature   *FeatureRequest
}

type analysisJSON struct {
	Sentiment     Sentiment `json:"sentiment"`
	FeatureCode   *string   `json:"feature_code"`
	FeatureReason *string   `json:"feature_reason"`
}

// MarshalJSON writes absent feature fields as explicit nulls.
func (a AnalysisResult) MarshalJSON() ([]byte, error) {
	out := analysisJSON{Sentiment: a.Sentiment}
	if a.Feature != nil {
		code, reason := a.Feature.Code, a.Feature.Reason
		out.FeatureCode = &code
		out.FeatureReason = &reason
	}
	return json.Marshal(out)
}
