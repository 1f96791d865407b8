package applications

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	appmodel "lifesure/internal/applications/models"
	"lifesure/pkg/paging"
)

// Store persists application records.
type Store interface {
	Insert(ctx context.Context, app *appmodel.Application) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*appmodel.Application, error)
	Update(ctx context.Context, app *appmodel.Application) error
	ListByUser(ctx context.Context, userID string, page paging.Params) ([]*appmodel.Application, int64, error)
	ListByAgent(ctx context.Context, agentID string, page paging.Params) ([]*appmodel.Application, int64, error)
	// ListAllWithPolicy attaches live policy info with a database-side join.
	ListAllWithPolicy(ctx context.Context, page paging.Params) ([]*appmodel.AdminItem, int64, error)
	// FindApproved returns the caller's approved application for a policy,
	// the gate for claim submission.
	FindApproved(ctx context.Context, userID string, policyID primitive.ObjectID) (*appmodel.Application, error)
	Count(ctx context.Context) (int64, error)
}
