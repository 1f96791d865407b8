package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/platform/metrics"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// Service owns the user lifecycle: first-contact creation, profile updates,
// admin role management and the agent-promotion workflow.
type Service struct {
	store   Store
	metrics *metrics.Metrics
}

func NewService(store Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// UpsertProfileInput carries the caller-provided profile fields.
type UpsertProfileInput struct {
	SubjectID string
	Email     string
	Name      string
	PhotoURL  string
}

// UpsertProfile creates the user on first contact (role customer, active)
// and on subsequent contacts updates only the mutable profile fields. The
// stored role is never touched here.
func (s *Service) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*usermodel.User, bool, error) {
	now := requestcontext.Now(ctx)

	existing, err := s.store.FindBySubject(ctx, in.SubjectID)
	if err == nil {
		existing.Email = in.Email
		if in.Name != "" {
			existing.Name = in.Name
		}
		if in.PhotoURL != "" {
			existing.PhotoURL = in.PhotoURL
		}
		existing.LastLoginAt = now
		existing.UpdatedAt = now
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("update profile: %w", err)
		}
		return existing, false, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup profile: %w", err)
	}

	user := &usermodel.User{
		SubjectID:   in.SubjectID,
		Email:       in.Email,
		Name:        in.Name,
		PhotoURL:    in.PhotoURL,
		Role:        usermodel.RoleCustomer,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: now,
	}
	if err := s.store.Insert(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create profile: %w", err)
	}
	if s.metrics != nil {
		s.metrics.UsersCreated.Inc()
	}
	return user, true, nil
}

// FindBySubject exposes the role-guard lookup for the /users/me route.
func (s *Service) FindBySubject(ctx context.Context, subjectID string) (*usermodel.User, error) {
	user, err := s.store.FindBySubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// List returns users for the admin listing.
func (s *Service) List(ctx context.Context, filter Filter, page paging.Params) ([]*usermodel.User, paging.Summary, error) {
	users, total, err := s.store.List(ctx, filter, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list users: %w", err)
	}
	return users, page.Summarize(total), nil
}

// ChangeRole sets the user's role to one of customer, agent, admin.
func (s *Service) ChangeRole(ctx context.Context, id primitive.ObjectID, role usermodel.Role) (*usermodel.User, error) {
	if !role.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid role %q", role)
	}
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	user.Role = role
	user.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	return user, nil
}

// Delete removes a user. The acting admin's own account is off limits.
func (s *Service) Delete(ctx context.Context, actingSubjectID string, id primitive.ObjectID) error {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.SubjectID == actingSubjectID {
		return dErrors.New(dErrors.CodeValidation, "cannot delete your own account")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ApplyAgentInput carries the promotion request details.
type ApplyAgentInput struct {
	Experience  string
	Specialties []string
}

// ApplyAgent records a pending promotion request on the caller's record.
// One pending request at a time.
func (s *Service) ApplyAgent(ctx context.Context, user *usermodel.User, in ApplyAgentInput) (*usermodel.User, error) {
	if user.AgentApplication != nil && user.AgentApplication.Status == usermodel.AgentApplicationPending {
		return nil, dErrors.New(dErrors.CodeValidation, "an agent application is already pending")
	}
	now := requestcontext.Now(ctx)
	user.AgentApplication = &usermodel.AgentApplication{
		Status:      usermodel.AgentApplicationPending,
		Experience:  in.Experience,
		Specialties: in.Specialties,
		AppliedAt:   now,
	}
	user.UpdatedAt = now
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("apply agent: %w", err)
	}
	return user, nil
}

// ListAgentApplications returns users with pending promotion requests.
func (s *Service) ListAgentApplications(ctx context.Context, page paging.Params) ([]*usermodel.User, paging.Summary, error) {
	users, total, err := s.store.ListPendingAgentApplications(ctx, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list agent applications: %w", err)
	}
	return users, page.Summarize(total), nil
}

// DecideAgentApplication approves or rejects a pending promotion request.
// Approval also flips the user's role to agent; the sub-record update and
// the role flip land in one record write here, but there is no cross-request
// coordination (last write wins).
func (s *Service) DecideAgentApplication(ctx context.Context, id primitive.ObjectID, approve bool, feedback string) (*usermodel.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.AgentApplication == nil || user.AgentApplication.Status != usermodel.AgentApplicationPending {
		return nil, dErrors.New(dErrors.CodeValidation, "user has no pending agent application")
	}

	now := requestcontext.Now(ctx)
	user.AgentApplication.DecidedAt = &now
	user.AgentApplication.Feedback = feedback
	if approve {
		user.AgentApplication.Status = usermodel.AgentApplicationApproved
		user.Role = usermodel.RoleAgent
	} else {
		user.AgentApplication.Status = usermodel.AgentApplicationRejected
	}
	user.UpdatedAt = now
	if err := s.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("decide agent application: %w", err)
	}
	return user, nil
}

// Count supports the admin dashboard.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
