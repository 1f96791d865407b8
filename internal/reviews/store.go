package reviews

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	reviewmodel "lifesure/internal/reviews/models"
)

// Store persists review records.
type Store interface {
	// Insert fails with sentinel.ErrConflict when the (user, policy) pair
	// already has a review.
	Insert(ctx context.Context, review *reviewmodel.Review) error
	FindByUserAndPolicy(ctx context.Context, userID string, policyID primitive.ObjectID) (*reviewmodel.Review, error)
	ListLatest(ctx context.Context, limit int) ([]*reviewmodel.Review, error)
}
