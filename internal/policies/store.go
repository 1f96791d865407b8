package policies

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	policymodel "lifesure/internal/policies/models"
	"lifesure/pkg/paging"
)

// Sortable fields exposed on the public listing.
const (
	SortByPremium      = "basePremium"
	SortByCreatedAt    = "createdAt"
	SortByApplications = "applicationCount"
)

// Filter narrows the public policy listing.
type Filter struct {
	Search   string // case-insensitive substring over title and description
	Category string // exact match
	SortBy   string // one of the SortBy* constants; empty means createdAt
	SortDesc bool
}

// Store persists policy records.
type Store interface {
	Insert(ctx context.Context, policy *policymodel.Policy) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
	Update(ctx context.Context, policy *policymodel.Policy) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter Filter, page paging.Params) ([]*policymodel.Policy, int64, error)
	TopByApplications(ctx context.Context, limit int) ([]*policymodel.Policy, error)
	IncrementApplicationCount(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
