package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pixelcore/pixelcore-api/internal/core/domain"
	"github.com/pixelcore/pixelcore-api/internal/core/ports"
)

type ContentRepository struct {
	col     *mongo.Collection
	ratings *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{
		col:     db.Collection(collectionContents),
		ratings: db.Collection(collectionRatings),
	}
}

type mongoContent struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Description  string    `bson:"description"`
	Category     string    `bson:"category"`
	ThumbnailURL *string   `bson:"thumbnail_url"`
	ContentURL   string    `bson:"content_url"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toMongoContent(c *domain.MediaContent) mongoContent {
	return mongoContent{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Category:     string(c.Category),
		ThumbnailURL: c.ThumbnailURL,
		ContentURL:   c.ContentURL,
		CreatedAt:    c.CreatedAt,
	}
}

func (mc *mongoContent) toDomain() *domain.MediaContent {
	return &domain.MediaContent{
		ID:           mc.ID,
		Title:        mc.Title,
		Description:  mc.Description,
		Category:     domain.Category(mc.Category),
		ThumbnailURL: mc.ThumbnailURL,
		ContentURL:   mc.ContentURL,
		CreatedAt:    mc.CreatedAt.UTC(),
	}
}

// Create inserts a new media content document.
func (r *ContentRepository) Create(ctx context.Context, c *domain.MediaContent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toMongoContent(c)); err != nil {
		return fmt.Errorf("insert media content: %w", err)
	}
	return nil
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*domain.MediaContent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoContent
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("find media content: %w", err)
	}
	return mc.toDomain(), nil
}

// Update overwrites the writable fields; created_at is left as stored.
func (r *ContentRepository) Update(ctx context.Context, c *domain.MediaContent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":         c.Title,
		"description":   c.Description,
		"category":      string(c.Category),
		"thumbnail_url": c.ThumbnailURL,
		"content_url":   c.ContentURL,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return fmt.Errorf("update media content: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

// Delete removes every rating that references the content, then the content.
// A failure leaves the content in place so a retry can finish the cascade.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.ratings.DeleteMany(ctx, bson.M{"media_content_id": id}); err != nil {
		return fmt.Errorf("delete ratings of media content %s: %w", id, err)
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete media content: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

// List applies the category and search filters and returns one page plus the
// total number of matches.
func (r *ContentRepository) List(ctx context.Context, f ports.ListContentFilter) ([]*domain.MediaContent, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count media content: %w", err)
	}

	opts := options.Find().
		SetSort(contentSort(f.Ordering)).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find media content: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoContent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode media content: %w", err)
	}

	items := make([]*domain.MediaContent, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, total, nil
}

// contentSort maps an ordering key to a sort document. _id breaks ties so
// pages stay stable.
func contentSort(ordering string) bson.D {
	switch ordering {
	case ports.OrderCreatedAsc:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case ports.OrderTitleAsc:
		return bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}
	case ports.OrderTitleDesc:
		return bson.D{{Key: "title", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}
