package payments

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	paymentmodel "lifesure/internal/payments/models"
	"lifesure/internal/platform/metrics"
	policymodel "lifesure/internal/policies/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/platform/sentinel"
	"lifesure/pkg/requestcontext"
)

// DefaultCurrency is used when the client omits one.
const DefaultCurrency = "usd"

// Intent is the processor-side payment intent handed back to the client.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
}

// IntentCreator opens a payment intent with the processor.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
}

// PolicySource resolves the policy being paid for.
type PolicySource interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*policymodel.Policy, error)
}

// Service owns intent creation and the append-only payment ledger.
type Service struct {
	store    Store
	policies PolicySource
	intents  IntentCreator
	metrics  *metrics.Metrics
}

func NewService(store Store, policies PolicySource, intents IntentCreator, m *metrics.Metrics) *Service {
	return &Service{store: store, policies: policies, intents: intents, metrics: m}
}

// CreateIntent opens a processor intent for a policy premium and returns the
// client secret the frontend completes the charge with.
func (s *Service) CreateIntent(ctx context.Context, user *usermodel.User, policyID primitive.ObjectID, amount int64) (*Intent, error) {
	if amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be a positive number of cents")
	}
	if _, err := s.policies.FindByID(ctx, policyID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("load policy: %w", err)
	}

	intent, err := s.intents.CreateIntent(ctx, amount, DefaultCurrency, map[string]string{
		"policyId":  policyID.Hex(),
		"subjectId": user.SubjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intent, nil
}

// ConfirmInput is the client's report of a completed charge. The processor
// is not consulted again; the unique intent id is the only idempotency guard.
type ConfirmInput struct {
	IntentID string
	PolicyID primitive.ObjectID
	Amount   int64
	Currency string
	Status   string
}

// Confirm records an immutable payment. A second confirmation of the same
// intent is rejected.
func (s *Service) Confirm(ctx context.Context, user *usermodel.User, in ConfirmInput) (*paymentmodel.Payment, error) {
	if in.Amount <= 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "amount must be a positive number of cents")
	}
	policy, err := s.policies.FindByID(ctx, in.PolicyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "policy not found")
		}
		return nil, fmt.Errorf("load policy: %w", err)
	}

	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	status := in.Status
	if status == "" {
		status = "succeeded"
	}

	payment := &paymentmodel.Payment{
		IntentID:   in.IntentID,
		UserID:     user.SubjectID,
		PolicyID:   in.PolicyID,
		PolicyName: policy.Title,
		Amount:     in.Amount,
		Currency:   currency,
		Status:     status,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := s.store.Insert(ctx, payment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeValidation, "payment already recorded for this intent")
		}
		return nil, fmt.Errorf("record payment: %w", err)
	}
	if s.metrics != nil {
		s.metrics.PaymentsRecorded.Inc()
	}
	return payment, nil
}

// ListMine returns the caller's payments, newest first.
func (s *Service) ListMine(ctx context.Context, userID string, page paging.Params) ([]*paymentmodel.Payment, paging.Summary, error) {
	payments, total, err := s.store.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list payments: %w", err)
	}
	return payments, page.Summarize(total), nil
}

// ListAll returns every payment, newest first.
func (s *Service) ListAll(ctx context.Context, page paging.Params) ([]*paymentmodel.Payment, paging.Summary, error) {
	payments, total, err := s.store.ListAll(ctx, page)
	if err != nil {
		return nil, paging.Summary{}, fmt.Errorf("list payments: %w", err)
	}
	return payments, page.Summarize(total), nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}

func (s *Service) RevenueTotal(ctx context.Context) (int64, error) {
	return s.store.RevenueTotal(ctx)
}
