package claims

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	claimmodel "lifesure/internal/claims/models"
	"lifesure/pkg/paging"
)

// Store persists claim records.
type Store interface {
	// Insert fails with sentinel.ErrConflict when the application already
	// has a claim.
	Insert(ctx context.Context, claim *claimmodel.Claim) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*claimmodel.Claim, error)
	Update(ctx context.Context, claim *claimmodel.Claim) error
	ListByUser(ctx context.Context, userID string, page paging.Params) ([]*claimmodel.Claim, int64, error)
	ListAll(ctx context.Context, page paging.Params) ([]*claimmodel.Claim, int64, error)
	Count(ctx context.Context) (int64, error)
}
