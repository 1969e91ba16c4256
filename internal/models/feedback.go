package models

import (
	"time"
)

// Submission is the raw feedback as received from a client.
type Submission struct {
	ID   string
	Text string
}

type Feedback struct {
	ID            string    `bson:"_id" json:"id"`
	Text          string    `bson:"feedback" json:"feedback"`
	Sentiment     Sentiment `bson:"sentiment" json:"sentiment"`
	FeatureCode   *string   `bson:"feature_code,omitempty" json:"feature_code"`
	FeatureReason *string   `bson:"feature_reason,omitempty" json:"feature_reason"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// NewFeedback builds the stored form of an analysed submission.
// CreatedAt is left for the repository to assign.
func NewFeedback(sub Submission, result AnalysisResult) *Feedback {
	f := &Feedback{
		ID:        sub.ID,
		Text:      sub.Text,
		Sentiment: result.Sentiment,
	}
	if result.Feature != nil {
		code, reason := result.Feature.Code, result.Feature.Reason
		f.FeatureCode = &code
		f.FeatureReason = &reason
	}
	return f
}
