package reviews

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	policymodel "lifesure/internal/policies/models"
	reviewmodel "lifesure/internal/reviews/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// DefaultListLimit caps the public listing when the client sends none.
const DefaultListLimit = 10

// PolicySource resolves the reviewed policy.
type PolicySource interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
}

// Service owns review submission and the public listing.
type Service struct {
	store    Store
	policies PolicySource
}

func NewService(store Store, policies PolicySource) *Service {
	return &Service{store: store, policies: policies}
}

// SubmitInput carries the customer's rating.
type SubmitInput struct {
	PolicyID primitive.ObjectID
	Rating   int
	Feedback string
}

// Submit records the caller's one review for a policy. Ratings are bounded
// 1-5 and a second review for the same pair is rejected.
func (s *Service) Submit(ctx context.Context, user *usermodel.User, in SubmitInput) (*reviewmodel.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}

	policy, err := s.policies.FindByID(ctx, in.PolicyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("load policy: %w", err)
	}

	if _, err := s.store.FindByUserAndPolicy(ctx, user.SubjectID, in.PolicyID); err == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "you have already reviewed this policy")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	review := &reviewmodel.Review{
		UserID:       user.SubjectID,
		PolicyID:     in.PolicyID,
		UserName:     user.Name,
		UserPhotoURL: user.PhotoURL,
		PolicyTitle:  policy.Title,
		Rating:       in.Rating,
		Feedback:     in.Feedback,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Insert(ctx, review); err != nil {
		// The unique index backstops the lookup above under concurrency.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "you have already reviewed this policy")
		}
		return nil, fmt.Errorf("submit review: %w", err)
	}
	return review, nil
}

// ListLatest returns the newest reviews for the public page.
func (s *Service) ListLatest(ctx context.Context, limit int) ([]*reviewmodel.Review, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	reviews, err := s.store.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
