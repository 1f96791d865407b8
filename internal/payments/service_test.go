package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/policies"
	policymodel "lifesure/internal/policies/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/requestcontext"
)

type stubIntentCreator struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
	err          error
}

func (s *stubIntentCreator) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastAmount = amount
	s.lastCurrency = currency
	s.lastMetadata = metadata
	return &Intent{ID: "pi_test_1", ClientSecret: "pi_test_1_secret"}, nil
}

func newService(t *testing.T) (*Service, *stubIntentCreator, *policies.InMemoryStore, context.Context) {
	t.Helper()
	policyStore := policies.NewInMemoryStore()
	intents := &stubIntentCreator{}
	svc := NewService(NewInMemoryStore(), policyStore, intents, nil)
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, intents, policyStore, ctx
}

func payer(subject string) *usermodel.User {
	return &usermodel.User{SubjectID: subject, Role: usermodel.RoleCustomer}
}

func seedPolicy(t *testing.T, store *policies.InMemoryStore, ctx context.Context) *policymodel.Policy {
	t.Helper()
	policy := &policymodel.Policy{Title: "Term Life"}
	require.NoError(t, store.Insert(ctx, policy))
	return policy
}

func TestCreateIntent(t *testing.T) {
	svc, intents, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	intent, err := svc.CreateIntent(ctx, payer("subject-1"), policy.ID, 4999)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1_secret", intent.ClientSecret)
	assert.Equal(t, int64(4999), intents.lastAmount)
	assert.Equal(t, DefaultCurrency, intents.lastCurrency)
	assert.Equal(t, policy.ID.Hex(), intents.lastMetadata["policyId"])
	assert.Equal(t, "subject-1", intents.lastMetadata["subjectId"])
}

func TestCreateIntentValidation(t *testing.T) {
	svc, _, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	_, err := svc.CreateIntent(ctx, payer("subject-1"), policy.ID, 0)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	_, err = svc.CreateIntent(ctx, payer("subject-1"), primitive.NewObjectID(), 4999)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestCreateIntentProcessorFailure(t *testing.T) {
	svc, intents, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)
	intents.err = errors.New("stripe: rate limited")

	_, err := svc.CreateIntent(ctx, payer("subject-1"), policy.ID, 4999)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
}

func TestConfirmRecordsImmutablePayment(t *testing.T) {
	svc, _, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	payment, err := svc.Confirm(ctx, payer("subject-1"), ConfirmInput{
		IntentID: "pi_test_1",
		PolicyID: policy.ID,
		Amount:   4999,
	})
	require.NoError(t, err)
	assert.Equal(t, "Term Life", payment.PolicyName)
	assert.Equal(t, DefaultCurrency, payment.Currency)
	assert.Equal(t, "succeeded", payment.Status)
	assert.False(t, payment.ID.IsZero())
}

func TestConfirmDuplicateIntentRejected(t *testing.T) {
	svc, _, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	in := ConfirmInput{IntentID: "pi_test_1", PolicyID: policy.ID, Amount: 4999}
	_, err := svc.Confirm(ctx, payer("subject-1"), in)
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, payer("subject-1"), in)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	// Ledger holds exactly one record.
	all, summary, err := svc.ListAll(ctx, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, int64(1), summary.TotalCount)
}

func TestListMineScopedToCaller(t *testing.T) {
	svc, _, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	_, err := svc.Confirm(ctx, payer("subject-1"), ConfirmInput{IntentID: "pi_1", PolicyID: policy.ID, Amount: 100})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, payer("subject-2"), ConfirmInput{IntentID: "pi_2", PolicyID: policy.ID, Amount: 200})
	require.NoError(t, err)

	mine, _, err := svc.ListMine(ctx, "subject-1", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pi_1", mine[0].IntentID)
}

func TestRevenueTotal(t *testing.T) {
	svc, _, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx)

	_, err := svc.Confirm(ctx, payer("subject-1"), ConfirmInput{IntentID: "pi_1", PolicyID: policy.ID, Amount: 1500})
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, payer("subject-2"), ConfirmInput{IntentID: "pi_2", PolicyID: policy.ID, Amount: 2500})
	require.NoError(t, err)

	total, err := svc.RevenueTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), total)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
