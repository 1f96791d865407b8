package reviews

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	reviewmodel "lifesure/internal/reviews/models"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists reviews in the "reviews" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the one-review-per-user-per-policy unique index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "policyId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure reviews indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, review *reviewmodel.Review) error {
	res, err := s.coll.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert review: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		review.ID = id
	}
	return nil
}

func (s *MongoStore) FindByUserAndPolicy(ctx context.Context, userID string, policyID primitive.ObjectID) (*reviewmodel.Review, error) {
	var review reviewmodel.Review
	err := s.coll.FindOne(ctx, bson.M{"userId": userID, "policyId": policyID}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find review: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

func (s *MongoStore) ListLatest(ctx context.Context, limit int) ([]*reviewmodel.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cur.Close(ctx)

	reviews := make([]*reviewmodel.Review, 0, limit)
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}
