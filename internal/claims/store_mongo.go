package claims

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	claimmodel "lifesure/internal/claims/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists claims in the "claims" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the one-claim-per-application unique index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "applicationId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure claims indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, claim *claimmodel.Claim) error {
	res, err := s.coll.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert claim: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		claim.ID = id
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*claimmodel.Claim, error) {
	var claim claimmodel.Claim
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&claim)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find claim: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	return &claim, nil
}

func (s *MongoStore) Update(ctx context.Context, claim *claimmodel.Claim) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": claim.ID}, claim)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update claim: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	return s.page(ctx, bson.M{"userId": userID}, page)
}

func (s *MongoStore) ListAll(ctx context.Context, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	return s.page(ctx, bson.M{}, page)
}

func (s *MongoStore) page(ctx context.Context, query bson.M, page paging.Params) ([]*claimmodel.Claim, int64, error) {
	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count claims: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	defer cur.Close(ctx)

	claims := make([]*claimmodel.Claim, 0, page.Limit)
	if err := cur.All(ctx, &claims); err != nil {
		return nil, 0, fmt.Errorf("decode claims: %w", err)
	}
	return claims, total, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return total, nil
}
