package models

import "time"

// SentimentStat is one row of the weekly breakdown. Percentage is nil for
// INCONCLUSIVO and when no decisive feedback exists.
type SentimentStat struct {
	Sentiment  Sentiment `json:"sentiment"`
	Count      int64     `json:"count"`
	Percentage *float64  `json:"percentage"`
}

type FeatureCount struct {
	Code  string `bson:"_id" json:"feature_code"`
	Count int64  `bson:"count" json:"count"`
}

// WeeklySummary is the aggregated view over a trailing window of stored feedback.
type WeeklySummary struct {
	Start           time.Time       `json:"start"`
	End             time.Time       `json:"end"`
	Total           int64           `json:"total"`
	Sentiments      []SentimentStat `json:"sentiments"`
	FeatureRequests []FeatureCount  `json:"feature_requests"`
}
