package payments

import (
	"context"

	paymentmodel "lifesure/internal/payments/models"
	"lifesure/pkg/paging"
)

// Store persists payment records.
type Store interface {
	// Insert fails with sentinel.ErrConflict when the intent id was already
	// recorded.
	Insert(ctx context.Context, payment *paymentmodel.Payment) error
	ListByUser(ctx context.Context, userID string, page paging.Params) ([]*paymentmodel.Payment, int64, error)
	ListAll(ctx context.Context, page paging.Params) ([]*paymentmodel.Payment, int64, error)
	Count(ctx context.Context) (int64, error)
	// RevenueTotal sums the amount of every recorded payment.
	RevenueTotal(ctx context.Context) (int64, error)
}
