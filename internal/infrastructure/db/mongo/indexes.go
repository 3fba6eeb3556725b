package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// EnsureIndexes creates the indexes every repository relies on. The unique
// indexes are what enforce email, username and one-rating-per-pair
// uniqueness, so the API must not serve traffic before this succeeds.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName(ports.ConstraintUserEmail).SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "username", Value: 1}},
				Options: options.Index().
					SetName(ports.ConstraintUserUsername).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"username": bson.M{"$type": "string"}}),
			},
		},
		collectionContents: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionRatings: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "media_content_id", Value: 1}},
				Options: options.Index().SetName(ports.ConstraintRatingUserContent).SetUnique(true),
			},
			{Keys: bson.D{{Key: "media_content_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}
