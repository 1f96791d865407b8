package blogs

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	blogmodel "lifesure/internal/blogs/models"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
)

// MongoStore persists blogs in the "blogs" collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, blog *blogmodel.Blog) error {
	res, err := s.coll.InsertOne(ctx, blog)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		blog.ID = id
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*blogmodel.Blog, error) {
	var blog blogmodel.Blog
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find blog: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &blog, nil
}

func (s *MongoStore) Update(ctx context.Context, blog *blogmodel.Blog) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": blog.ID}, blog)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update blog: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete blog: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, filter Filter, page paging.Params) ([]*blogmodel.Blog, int64, error) {
	query := bson.M{}
	if filter.AuthorID != "" {
		query["authorId"] = filter.AuthorID
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}

	total, err := s.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer cur.Close(ctx)

	blogs := make([]*blogmodel.Blog, 0, page.Limit)
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, total, nil
}

func (s *MongoStore) IncrementVisits(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"totalVisits": 1}})
	if err != nil {
		return fmt.Errorf("increment blog visits: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("increment blog visits: %w", sentinel.ErrNotFound)
	}
	return nil
}
