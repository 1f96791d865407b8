package blogs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	blogmodel "lifesure/internal/blogs/models"
	"lifesure/pkg/paging"
)

// Filter narrows blog listings.
type Filter struct {
	// Search matches title or content, case-insensitively.
	Search string
	// AuthorID restricts to one author's posts.
	AuthorID string
}

// Store persists blog posts.
type Store interface {
	Insert(ctx context.Context, blog *blogmodel.Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*blogmodel.Blog, error)
	Update(ctx context.Context, blog *blogmodel.Blog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter Filter, page paging.Params) ([]*blogmodel.Blog, int64, error)
	// IncrementVisits bumps the visit counter by one in a single write.
	IncrementVisits(ctx context.Context, id primitive.ObjectID) error
}
