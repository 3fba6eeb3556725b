package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

// RatingRepository implements ports.RatingRepository. The unique index
// uniq_rating_user_content is the only thing standing between two
// concurrent inserts for the same pair.
type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection(collectionRatings)}
}

type mongoRating struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	UserEmail string    `bson:"user_email"`
	ContentID string    `bson:"media_content_id"`
	Value     int       `bson:"value"`
	CreatedAt time.Time `bson:"created_at"`
}

func (mr *mongoRating) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:        mr.ID,
		UserID:    mr.UserID,
		UserEmail: mr.UserEmail,
		ContentID: mr.ContentID,
		Value:     mr.Value,
		CreatedAt: mr.CreatedAt.UTC(),
	}
}

func (r *RatingRepository) Create(ctx context.Context, rt *domain.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRating{
		ID:        rt.ID,
		UserID:    rt.UserID,
		UserEmail: rt.UserEmail,
		ContentID: rt.ContentID,
		Value:     rt.Value,
		CreatedAt: rt.CreatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if ce, ok := constraintError(err, ports.ConstraintRatingUserContent); ok {
			return ce
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) FindByID(ctx context.Context, id string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRating
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return mr.toDomain(), nil
}

// UpdateValue sets the score and returns the updated rating. The filter
// includes the owner, so a rating that changed hands or vanished reads as
// not found.
func (r *RatingRepository) UpdateValue(ctx context.Context, id, ownerID string, value int) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mr mongoRating
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": ownerID},
		bson.M{"$set": bson.M{"value": value}},
		opts,
	).Decode(&mr)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("update rating: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RatingRepository) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

// List returns ratings newest first, optionally for a single content item.
func (r *RatingRepository) List(ctx context.Context, f ports.ListRatingsFilter) ([]*domain.Rating, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ContentID != "" {
		filter["media_content_id"] = f.ContentID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count ratings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find ratings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoRating
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode ratings: %w", err)
	}

	items := make([]*domain.Rating, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

func (r *RatingRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count ratings by user: %w", err)
	}
	return n, nil
}
