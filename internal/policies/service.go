package policies

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	policymodel "lifesure/internal/policies/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// TopPolicyCount is the fixed size of the featured listing.
const TopPolicyCount = 6

// Service owns policy CRUD and the featured listing.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateInput carries the admin-provided policy definition. Numeric fields
// arrive already coerced by the handler.
type CreateInput struct {
	Title         string
	Category      string
	Description   string
	MinAge        int
	MaxAge        int
	CoverageMin   int64
	CoverageMax   int64
	DurationYears int
	BasePremium   float64
	ImageURL      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*policymodel.Policy, error) {
	if in.MinAge < 0 || in.MaxAge < in.MinAge {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid age bounds")
	}
	if in.CoverageMax < in.CoverageMin {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid coverage bounds")
	}

	now := requestcontext.Now(ctx)
	policy := &policymodel.Policy{
		Title:         in.Title,
		Category:      in.Category,
		Description:   in.Description,
		MinAge:        in.MinAge,
		MaxAge:        in.MaxAge,
		CoverageMin:   in.CoverageMin,
		CoverageMax:   in.CoverageMax,
		DurationYears: in.DurationYears,
		BasePremium:   in.BasePremium,
		ImageURL:      in.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, policy); err != nil {
		return nil, fmt.Errorf("create policy: %w", err)
	}
	return policy, nil
}

func (s *Service) FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error) {
	policy, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("find policy: %w", err)
	}
	return policy, nil
}

// UpdateInput lists the partially-updatable fields; nil means leave as is.
type UpdateInput struct {
	Title         *string
	Category      *string
	Description   *string
	MinAge        *int
	MaxAge        *int
	CoverageMin   *int64
	CoverageMax   *int64
	DurationYears *int
	BasePremium   *float64
	ImageURL      *string
}

func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (*policymodel.Policy, error) {
	policy, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		policy.Title = *in.Title
	}
	if in.Category != nil {
		policy.Category = *in.Category
	}
	if in.Description != nil {
		policy.Description = *in.Description
	}
	if in.MinAge != nil {
		policy.MinAge = *in.MinAge
	}
	if in.MaxAge != nil {
		policy.MaxAge = *in.MaxAge
	}
	if in.CoverageMin != nil {
		policy.CoverageMin = *in.CoverageMin
	}
	if in.CoverageMax != nil {
		policy.CoverageMax = *in.CoverageMax
	}
	if in.DurationYears != nil {
		policy.DurationYears = *in.DurationYears
	}
	if in.BasePremium != nil {
		policy.BasePremium = *in.BasePremium
	}
	if in.ImageURL != nil {
		policy.ImageURL = *in.ImageURL
	}

	if policy.MinAge < 0 || policy.MaxAge < policy.MinAge {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid age bounds")
	}
	if policy.CoverageMax < policy.CoverageMin {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid coverage bounds")
	}

	policy.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, policy); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("update policy: %w", err)
	}
	return policy, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return fmt.Errorf("delete policy: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filter Filter, page paging.Params) ([]*policymodel.Policy, paging.Summary, error) {
	policies, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list policies: %w", err)
	}
	return policies, page.Summarize(total), nil
}

func (s *Service) Top(ctx context.Context) ([]*policymodel.Policy, error) {
	policies, err := s.store.TopByApplications(ctx, TopPolicyCount)
	if err != nil {
		return nil, fmt.Errorf("top policies: %w", err)
	}
	return policies, nil
}

// Count supports the admin dashboard.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
