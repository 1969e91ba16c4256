package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"alumind-feedback/internal/models"
)

const maxFeatureCodeWords = 2

// ParseSpamVerdict reads the spam-check completion. Only "Y" (valid) and "N"
// (spam) are accepted, ignoring case and surrounding whitespace.
func ParseSpamVerdict(raw string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, fmt.Errorf("%w: expected Y or N, got %d bytes", ErrAmbiguousVerdict, len(raw))
}

type rawAnalysis struct {
	Sentiment     *string `json:"sentiment"`
	FeatureCode   *string `json:"feature_code"`
	FeatureReason *string `json:"feature_reason"`
}

// ParseAnalysisResult decodes the analysis completion into a validated result.
// The completion must hold exactly one JSON object, optionally inside a
// Markdown code fence. Null or blank feature fields mean "no feature".
func ParseAnalysisResult(raw string) (models.AnalysisResult, error) {
	body := stripCodeFence(raw)
	if !strings.HasPrefix(body, "{") {
		return models.AnalysisResult{}, fmt.Errorf("%w: not a JSON object", ErrMalformedModelOutput)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var ra rawAnalysis
	if err := dec.Decode(&ra); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedModelOutput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.AnalysisResult{}, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedModelOutput)
	}

	if ra.Sentiment == nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: missing sentiment", ErrMalformedModelOutput)
	}
	sentiment, err := models.ParseSentiment(*ra.Sentiment)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}

	code := normalizeOptional(ra.FeatureCode)
	reason := normalizeOptional(ra.FeatureReason)
	switch {
	case code == "" && reason == "":
		return models.AnalysisResult{Sentiment: sentiment}, nil
	case code == "":
		return models.AnalysisResult{}, fmt.Errorf("%w: feature_reason without feature_code", ErrMalformedModelOutput)
	case reason == "":
		return models.AnalysisResult{}, fmt.Errorf("%w: feature_code without feature_reason", ErrMalformedModelOutput)
	}

	code = strings.ToUpper(code)
	if words := strings.Fields(code); len(words) > maxFeatureCodeWords {
		return models.AnalysisResult{}, fmt.Errorf("%w: feature_code has %d words", ErrMalformedModelOutput, len(words))
	}

	return models.AnalysisResult{
		Sentiment: sentiment,
		Feature:   &models.FeatureRequest{Code: code, Reason: reason},
	}, nil
}

func normalizeOptional(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

// stripCodeFence removes a surrounding ``` or ```json fence if present.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
