package applications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	appmodel "lifesure/internal/applications/models"
	"lifesure/internal/platform/metrics"
	policymodel "lifesure/internal/policies/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// enrichConcurrency bounds the per-item policy lookups on listings.
const enrichConcurrency = 4

// PolicySource is the slice of the policy store this module needs.
type PolicySource interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
	IncrementApplicationCount(ctx context.Context, id primitive.ObjectID) error
}

// UserSource resolves subject ids to user records (sentinel.ErrNotFound when
// absent).
type UserSource interface {
	FindBySubject(ctx context.Context, subjectID string) (*usermodel.User, error)
}

// Service owns the application lifecycle.
type Service struct {
	store    Store
	policies PolicySource
	users    UserSource
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(store Store, policies PolicySource, users UserSource, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, policies: policies, users: users, logger: logger, metrics: m}
}

// SubmitInput carries the customer's enrollment request.
type SubmitInput struct {
	PolicyID          primitive.ObjectID
	CoverageAmount    int64
	FullName          string
	Email             string
	Address           string
	NomineeName       string
	NomineeRelation   string
	HealthDisclosures []string
}

// Submit creates a pending application with a snapshot of the policy terms,
// then bumps the policy's application counter. The two writes are
// independent: a failure after the insert leaves the counter behind by one,
// which is logged and accepted rather than rolled back.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (*appmodel.Application, error) {
	policy, err := s.policies.FindByID(ctx, in.PolicyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("load policy: %w", err)
	}

	now := requestcontext.Now(ctx)
	app := &appmodel.Application{
		UserID:            userID,
		PolicyID:          policy.ID,
		PolicyName:        policy.Title,
		PremiumQuoted:     policy.BasePremium,
		CoverageAmount:    in.CoverageAmount,
		FullName:          in.FullName,
		Email:             in.Email,
		Address:           in.Address,
		NomineeName:       in.NomineeName,
		NomineeRelation:   in.NomineeRelation,
		HealthDisclosures: in.HealthDisclosures,
		Status:            appmodel.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.Insert(ctx, app); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}

	if err := s.policies.IncrementApplicationCount(ctx, policy.ID); err != nil {
		s.logger.ErrorContext(ctx, "application counter increment failed after insert",
			"request_id", requestcontext.RequestID(ctx),
			"application_id", app.ID.Hex(),
			"policy_id", policy.ID.Hex(),
			"error", err.Error(),
		)
	}
	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.Inc()
	}
	return app, nil
}

// Detail is an application with the live policy record attached.
type Detail struct {
	*appmodel.Application
	Policy *policymodel.Policy `json:"policy,omitempty"`
}

// ListMine returns the caller's applications, each enriched with the current
// policy record via bounded per-item lookups.
func (s *Service) ListMine(ctx context.Context, userID string, page paging.Params) ([]*Detail, paging.Summary, error) {
	apps, total, err := s.store.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list applications: %w", err)
	}

	details := make([]*Detail, len(apps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			d := &Detail{Application: app}
			policy, err := s.policies.FindByID(gctx, app.PolicyID)
			if err == nil {
				d.Policy = policy
			} else if !errors.Is(err, sentinel.ErrNotFound) {
				return fmt.Errorf("enrich application %s: %w", app.ID.Hex(), err)
			}
			details[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, paging.Summary{}, err
	}
	return details, page.Summarize(total), nil
}

// ListAll returns every application with policy info joined database-side.
func (s *Service) ListAll(ctx context.Context, page paging.Params) ([]*appmodel.AdminItem, paging.Summary, error) {
	items, total, err := s.store.ListAllWithPolicy(ctx, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list applications: %w", err)
	}
	return items, page.Summarize(total), nil
}

// ListByAgent returns applications assigned to the given agent.
func (s *Service) ListByAgent(ctx context.Context, agentID string, page paging.Params) ([]*appmodel.Application, paging.Summary, error) {
	apps, total, err := s.store.ListByAgent(ctx, agentID, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list applications: %w", err)
	}
	return apps, page.Summarize(total), nil
}

// SetStatus writes a new status. When actingAgentID is non-empty the
// application must be assigned to that agent; admins pass an empty id and
// skip the ownership check. Transitions are deliberately unconstrained.
func (s *Service) SetStatus(ctx context.Context, id primitive.ObjectID, status appmodel.Status, feedback, actingAgentID string) (*appmodel.Application, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", status)
	}

	app, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actingAgentID != "" && app.AssignedAgentID != actingAgentID {
		return nil, dErrors.New(dErrors.CodeForbidden, "application is not assigned to you")
	}

	app.Status = status
	app.Feedback = feedback
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("set application status: %w", err)
	}
	return app, nil
}

// Assign routes an application to an agent.
func (s *Service) Assign(ctx context.Context, id primitive.ObjectID, agentSubjectID string) (*appmodel.Application, error) {
	agent, err := s.users.FindBySubject(ctx, agentSubjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "agent not found")
		}
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if agent.Role != usermodel.RoleAgent {
		return nil, dErrors.New(dErrors.CodeValidation, "assignee is not an agent")
	}

	app, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	app.AssignedAgentID = agentSubjectID
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("assign application: %w", err)
	}
	return app, nil
}

func (s *Service) findByID(ctx context.Context, id primitive.ObjectID) (*appmodel.Application, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

// Count supports the admin dashboard.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
