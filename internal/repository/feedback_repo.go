package repository

import (
	"context"
	"fmt"
	"time"

	"alumind-feedback/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type FeedbackRepo struct {
	collection *mongo.Collection
	now        Clock
}

// NewFeedbackRepo stores feedback in the "feedbacks" collection of db,
// using the feedback id as the document _id.
func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection("feedbacks"),
		now:        time.Now,
	}
}

// Create inserts a copy of feedback and sets CreatedAt on the caller's value
// only once the insert succeeded.
func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	doc := *feedback
	doc.CreatedAt = r.now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert feedback: %w", err)
	}
	feedback.CreatedAt = doc.CreatedAt
	return nil
}

func (r *FeedbackRepo) SentimentCounts(ctx context.Context, from, to time.Time) (map[models.Sentiment]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: windowFilter(from, to)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sentiment"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sentiments: %w", err)
	}
	var rows []struct {
		Sentiment models.Sentiment `bson:"_id"`
		Count     int64            `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode sentiments: %w", err)
	}

	counts := make(map[models.Sentiment]int64, len(rows))
	for _, row := range rows {
		counts[row.Sentiment] = row.Count
	}
	return counts, nil
}

func (r *FeedbackRepo) FeatureCounts(ctx context.Context, from, to time.Time) ([]models.FeatureCount, error) {
	match := windowFilter(from, to)
	match = append(match, bson.E{Key: "feature_code", Value: bson.D{{Key: "$type", Value: "string"}}})

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$feature_code"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate feature requests: %w", err)
	}
	var features []models.FeatureCount
	if err := cursor.All(ctx, &features); err != nil {
		return nil, fmt.Errorf("decode feature requests: %w", err)
	}
	return features, nil
}

// EnsureIndexes creates the indexes the window queries rely on.
// Uniqueness of the id comes from _id itself.
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "feature_code", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *FeedbackRepo) Close(ctx context.Context) error {
	return r.collection.Database().Client().Disconnect(ctx)
}

func windowFilter(from, to time.Time) bson.D {
	return bson.D{{Key: "created_at", Value: bson.D{
		{Key: "$gte", Value: from.UTC()},
		{Key: "$lte", Value: to.UTC()},
	}}}
}
