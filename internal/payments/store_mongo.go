package payments

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	paymentmodel "lifesure/internal/payments/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists payments in the "payments" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the unique intent index that makes confirmation
// idempotency enforceable.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "intentId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("ensure payments indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, payment *paymentmodel.Payment) error {
	res, err := s.coll.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert payment: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = id
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	return s.page(ctx, bson.M{"userId": userID}, page)
}

func (s *MongoStore) ListAll(ctx context.Context, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	return s.page(ctx, bson.M{}, page)
}

func (s *MongoStore) page(ctx context.Context, query bson.M, page paging.Params) ([]*paymentmodel.Payment, int64, error) {
	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	payments := make([]*paymentmodel.Payment, 0, page.Limit)
	if err := cur.All(ctx, &payments); err != nil {
		return nil, 0, fmt.Errorf("decode payments: %w", err)
	}
	return payments, total, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return total, nil
}

func (s *MongoStore) RevenueTotal(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum revenue: %w", err)
	}
	defer cur.Close(ctx)

	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("decode revenue: %w", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
