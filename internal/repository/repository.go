package repository

import (
	"context"
	"errors"
	"time"

	"alumind-feedback/internal/models"
)

// ErrDuplicateID is returned by Create when a feedback with the same id exists.
var ErrDuplicateID = errors.New("feedback with this id already exists")

// FeedbackRepository is implemented by every storage backend.
type FeedbackRepository interface {
	// Create inserts f atomically, assigning CreatedAt. It never overwrites.
	Create(ctx context.Context, f *models.Feedback) error
	// SentimentCounts counts feedback per sentiment with created_at in [from, to].
	SentimentCounts(ctx context.Context, from, to time.Time) (map[models.Sentiment]int64, error)
	// FeatureCounts ranks feature codes in [from, to] by count desc, then code asc.
	FeatureCounts(ctx context.Context, from, to time.Time) ([]models.FeatureCount, error)
	Close(ctx context.Context) error
}

// Clock returns the current time; repositories use it to stamp CreatedAt.
type Clock func() time.Time
