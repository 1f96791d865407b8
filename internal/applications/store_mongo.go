package applications

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appmodel "lifesure/internal/applications/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists applications in the "applications" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the ownership lookup indexes. Called once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "assignedAgent", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure applications indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, app *appmodel.Application) error {
	res, err := s.coll.InsertOne(ctx, app)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		app.ID = id
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*appmodel.Application, error) {
	var app appmodel.Application
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find application: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

func (s *MongoStore) Update(ctx context.Context, app *appmodel.Application) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": app.ID}, app)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update application: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string, page paging.Params) ([]*appmodel.Application, int64, error) {
	return s.page(ctx, bson.M{"userId": userID}, page)
}

func (s *MongoStore) ListByAgent(ctx context.Context, agentID string, page paging.Params) ([]*appmodel.Application, int64, error) {
	return s.page(ctx, bson.M{"assignedAgent": agentID}, page)
}

func (s *MongoStore) page(ctx context.Context, query bson.M, page paging.Params) ([]*appmodel.Application, int64, error) {
	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	apps := make([]*appmodel.Application, 0, page.Limit)
	if err := cur.All(ctx, &apps); err != nil {
		return nil, 0, fmt.Errorf("decode applications: %w", err)
	}
	return apps, total, nil
}

func (s *MongoStore) ListAllWithPolicy(ctx context.Context, page paging.Params) ([]*appmodel.AdminItem, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Limit)}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "policies"},
			{Key: "localField", Value: "policyId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "policyInfo"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$policyInfo"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate applications: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*appmodel.AdminItem, 0, page.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode applications: %w", err)
	}
	return items, total, nil
}

func (s *MongoStore) FindApproved(ctx context.Context, userID string, policyID primitive.ObjectID) (*appmodel.Application, error) {
	var app appmodel.Application
	err := s.coll.FindOne(ctx, bson.M{
		"userId":   userID,
		"policyId": policyID,
		"status":   appmodel.StatusApproved,
	}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find approved application: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find approved application: %w", err)
	}
	return &app, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return total, nil
}
