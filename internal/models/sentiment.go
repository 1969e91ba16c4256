package models

import (
	"fmt"
	"strings"
)

// Sentiment is the closed set of tones a feedback can be classified into.
// The values are the tokens the model is asked to produce and the ones stored.
type Sentiment string

const (
	SentimentPositive     Sentiment = "POSITIVO"
	SentimentNegative     Sentiment = "NEGATIVO"
	SentimentInconclusive Sentiment = "INCONCLUSIVO"
)

// Sentiments lists every sentiment in reporting order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentInconclusive}

// ParseSentiment accepts only the known tokens, ignoring case and surrounding spaces.
func ParseSentiment(s string) (Sentiment, error) {
	v := Sentiment(strings.ToUpper(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown sentiment %q", s)
	}
	return v, nil
}

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentInconclusive:
		return true
	}
	return false
}

// Decisive reports whether s counts towards the percentage denominator.
func (s Sentiment) Decisive() bool {
	return s == SentimentPositive || s == SentimentNegative
}
