package policies

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	policymodel "lifesure/internal/policies/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists policies in the "policies" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, policy *policymodel.Policy) error {
	res, err := s.coll.InsertOne(ctx, policy)
	if err != nil {
		return fmt.Errorf("insert policy: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		policy.ID = id
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error) {
	var policy policymodel.Policy
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&policy)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find policy: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find policy: %w", err)
	}
	return &policy, nil
}

func (s *MongoStore) Update(ctx context.Context, policy *policymodel.Policy) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": policy.ID}, policy)
	if err != nil {
		return fmt.Errorf("update policy: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update policy: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete policy: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete policy: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, filter Filter, page paging.Params) ([]*policymodel.Policy, int64, error) {
	query := bson.M{}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count policies: %w", err)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	dir := 1
	if filter.SortDesc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: dir}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list policies: %w", err)
	}
	defer cur.Close(ctx)

	policies := make([]*policymodel.Policy, 0, page.Limit)
	if err := cur.All(ctx, &policies); err != nil {
		return nil, 0, fmt.Errorf("decode policies: %w", err)
	}
	return policies, total, nil
}

func (s *MongoStore) TopByApplications(ctx context.Context, limit int) ([]*policymodel.Policy, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "applicationCount", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("top policies: %w", err)
	}
	defer cur.Close(ctx)

	policies := make([]*policymodel.Policy, 0, limit)
	if err := cur.All(ctx, &policies); err != nil {
		return nil, fmt.Errorf("decode top policies: %w", err)
	}
	return policies, nil
}

// IncrementApplicationCount bumps the counter with a single $inc so the
// increment itself is never lost, even though the surrounding
// insert-then-increment pair is not transactional.
func (s *MongoStore) IncrementApplicationCount(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"applicationCount": 1}},
	)
	if err != nil {
		return fmt.Errorf("increment application count: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("increment application count: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count policies: %w", err)
	}
	return total, nil
}
