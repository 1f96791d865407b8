package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodel "lifesure/internal/users/models"
	"lifesure/pkg/paging"
)

// Filter narrows the admin user listing.
type Filter struct {
	Role   usermodel.Role // empty matches all roles
	Search string         // case-insensitive substring over name and email
}

// Store persists user records. Implementations return sentinel errors for
// infrastructure facts; the service translates them into domain errors.
type Store interface {
	Insert(ctx context.Context, user *usermodel.User) error
	FindBySubject(ctx context.Context, subjectID string) (*usermodel.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*usermodel.User, error)
	Update(ctx context.Context, user *usermodel.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter Filter, page paging.Params) ([]*usermodel.User, int64, error)
	ListPendingAgentApplications(ctx context.Context, page paging.Params) ([]*usermodel.User, int64, error)
	Count(ctx context.Context) (int64, error)
}
