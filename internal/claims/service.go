package claims

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	appmodel "lifesure/internal/applications/models"
	claimmodel "lifesure/internal/claims/models"
	"lifesure/internal/platform/metrics"
	policymodel "lifesure/internal/policies/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// enrichConcurrency bounds the per-item lookups on the admin listing.
const enrichConcurrency = 4

// ApplicationSource locates the approved application a claim is filed
// against.
type ApplicationSource interface {
	FindApproved(ctx context.Context, userID string, policyID primitive.ObjectID) (*appmodel.Application, error)
}

// PolicySource resolves policy records for admin enrichment.
type PolicySource interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
}

// UserSource resolves subject ids to user records for admin enrichment.
type UserSource interface {
	FindBySubject(ctx context.Context, subjectID string) (*usermodel.User, error)
}

// Service owns the claim lifecycle.
type Service struct {
	store        Store
	applications ApplicationSource
	policies     PolicySource
	users        UserSource
	metrics      *metrics.Metrics
}

func NewService(store Store, applications ApplicationSource, policies PolicySource, users UserSource, m *metrics.Metrics) *Service {
	return &Service{store: store, applications: applications, policies: policies, users: users, metrics: m}
}

// SubmitInput carries the customer's claim request.
type SubmitInput struct {
	PolicyID     primitive.ObjectID
	Reason       string
	DocumentURLs []string
}

// Submit files a pending claim. The caller must hold an approved application
// for the policy, and each application supports at most one claim.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (*claimmodel.Claim, error) {
	app, err := s.applications.FindApproved(ctx, userID, in.PolicyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "no approved application for this policy")
		}
		return nil, fmt.Errorf("find approved application: %w", err)
	}

	now := requestcontext.Now(ctx)
	claim := &claimmodel.Claim{
		UserID:        userID,
		PolicyID:      in.PolicyID,
		ApplicationID: app.ID,
		PolicyName:    app.PolicyName,
		Reason:        in.Reason,
		DocumentURLs:  in.DocumentURLs,
		Status:        claimmodel.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Insert(ctx, claim); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "a claim was already filed for this application")
		}
		return nil, fmt.Errorf("submit claim: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
	}
	return claim, nil
}

// ListMine returns the caller's claims, newest first.
func (s *Service) ListMine(ctx context.Context, userID string, page paging.Params) ([]*claimmodel.Claim, paging.Summary, error) {
	claims, total, err := s.store.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list claims: %w", err)
	}
	return claims, page.Summarize(total), nil
}

// AdminItem is a claim with the claimant and policy attached.
type AdminItem struct {
	*claimmodel.Claim
	Claimant *usermodel.User     `json:"claimant,omitempty"`
	Policy   *policymodel.Policy `json:"policy,omitempty"`
}

// ListAll returns every claim, enriched with claimant and policy via bounded
// per-item lookups. Records whose claimant or policy has since been deleted
// still appear, unenriched.
func (s *Service) ListAll(ctx context.Context, page paging.Params) ([]*AdminItem, paging.Summary, error) {
	claims, total, err := s.store.ListAll(ctx, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list claims: %w", err)
	}

	items := make([]*AdminItem, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, claim := range claims {
		i, claim := i, claim
		g.Go(func() error {
			item := &AdminItem{Claim: claim}
			user, err := s.users.FindBySubject(gctx, claim.UserID)
			if err == nil {
				item.Claimant = user
			} else if !errors.Is(err, sentinel.ErrNotFound) {
				return fmt.Errorf("enrich claim %s: %w", claim.ID.Hex(), err)
			}
			policy, err := s.policies.FindByID(gctx, claim.PolicyID)
			if err == nil {
				item.Policy = policy
			} else if !errors.Is(err, sentinel.ErrNotFound) {
				return fmt.Errorf("enrich claim %s: %w", claim.ID.Hex(), err)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, paging.Summary{}, err
	}
	return items, page.Summarize(total), nil
}

// SetStatus writes a new claim status with optional feedback.
func (s *Service) SetStatus(ctx context.Context, id primitive.ObjectID, status claimmodel.Status, feedback string) (*claimmodel.Claim, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", status)
	}

	claim, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return nil, fmt.Errorf("find claim: %w", err)
	}

	claim.Status = status
	claim.Feedback = feedback
	claim.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, claim); err != nil {
		return nil, fmt.Errorf("set claim status: %w", err)
	}
	return claim, nil
}

// Count supports the admin dashboard.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
