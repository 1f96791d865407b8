package applications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	appmodel "lifesure/internal/applications/models"
	"lifesure/internal/platform/logger"
	"lifesure/internal/policies"
	policymodel "lifesure/internal/policies/models"
	"lifesure/internal/users"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/requestcontext"
)

type fixture struct {
	svc      *Service
	store    *InMemoryStore
	policies *policies.InMemoryStore
	users    *users.InMemoryStore
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	policyStore := policies.NewInMemoryStore()
	userStore := users.NewInMemoryStore()
	appStore := NewInMemoryStore(policyStore)
	return &fixture{
		svc:      NewService(appStore, policyStore, userStore, logger.New(), nil),
		store:    appStore,
		policies: policyStore,
		users:    userStore,
		ctx:      requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *fixture) seedPolicy(t *testing.T, title string, premium float64) *policymodel.Policy {
	t.Helper()
	policy := &policymodel.Policy{Title: title, Category: "term", BasePremium: premium}
	require.NoError(t, f.policies.Insert(f.ctx, policy))
	return policy
}

func (f *fixture) seedUser(t *testing.T, subject string, role usermodel.Role) *usermodel.User {
	t.Helper()
	user := &usermodel.User{SubjectID: subject, Email: subject + "@example.com", Role: role, Active: true}
	require.NoError(t, f.users.Insert(f.ctx, user))
	return user
}

func submitInput(policyID primitive.ObjectID) SubmitInput {
	return SubmitInput{
		PolicyID:        policyID,
		CoverageAmount:  250_000,
		FullName:        "Ana Bell",
		Email:           "ana@example.com",
		Address:         "12 High St",
		NomineeName:     "Bo Bell",
		NomineeRelation: "spouse",
	}
}

func TestSubmitSnapshotsPolicyTerms(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)

	app, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)
	assert.Equal(t, appmodel.StatusPending, app.Status)
	assert.Equal(t, "Term Life", app.PolicyName)
	assert.Equal(t, 49.99, app.PremiumQuoted)

	// The snapshot survives later policy edits.
	policy.BasePremium = 99.99
	require.NoError(t, f.policies.Update(f.ctx, policy))
	stored, err := f.store.FindByID(f.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 49.99, stored.PremiumQuoted)
}

func TestSubmitBumpsApplicationCounter(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
		require.NoError(t, err)
	}

	reloaded, err := f.policies.FindByID(f.ctx, policy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reloaded.ApplicationCount)
}

func TestSubmitUnknownPolicy(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(f.ctx, "subject-1", submitInput(primitive.NewObjectID()))
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestListMineEnrichesWithPolicy(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	_, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	details, summary, err := f.svc.ListMine(f.ctx, "subject-1", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.NotNil(t, details[0].Policy)
	assert.Equal(t, "Term Life", details[0].Policy.Title)
	assert.Equal(t, int64(1), summary.TotalCount)
}

func TestSetStatusByAssignedAgent(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "agent-1", usermodel.RoleAgent)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	app, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	_, err = f.svc.Assign(f.ctx, app.ID, "agent-1")
	require.NoError(t, err)

	updated, err := f.svc.SetStatus(f.ctx, app.ID, appmodel.StatusApproved, "looks good", "agent-1")
	require.NoError(t, err)
	assert.Equal(t, appmodel.StatusApproved, updated.Status)
	assert.Equal(t, "looks good", updated.Feedback)
}

func TestSetStatusByUnassignedAgent(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	app, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(f.ctx, app.ID, appmodel.StatusApproved, "", "agent-2")
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))
}

func TestSetStatusInvalidStatus(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	app, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	_, err = f.svc.SetStatus(f.ctx, app.ID, appmodel.Status("escalated"), "", "")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestAssignRequiresAgentRole(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "customer-1", usermodel.RoleCustomer)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	app, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	_, err = f.svc.Assign(f.ctx, app.ID, "customer-1")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	_, err = f.svc.Assign(f.ctx, app.ID, "nobody")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestListByAgentOnlySeesAssigned(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "agent-1", usermodel.RoleAgent)
	policy := f.seedPolicy(t, "Term Life", 49.99)

	assigned, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)
	_, err = f.svc.Submit(f.ctx, "subject-2", submitInput(policy.ID))
	require.NoError(t, err)

	_, err = f.svc.Assign(f.ctx, assigned.ID, "agent-1")
	require.NoError(t, err)

	apps, _, err := f.svc.ListByAgent(f.ctx, "agent-1", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, assigned.ID, apps[0].ID)
}

func TestListAllJoinsPolicyInfo(t *testing.T) {
	f := newFixture(t)
	policy := f.seedPolicy(t, "Term Life", 49.99)
	_, err := f.svc.Submit(f.ctx, "subject-1", submitInput(policy.ID))
	require.NoError(t, err)

	items, _, err := f.svc.ListAll(f.ctx, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].PolicyInfo)
	assert.Equal(t, "Term Life", items[0].PolicyInfo.Title)
	assert.Equal(t, "term", items[0].PolicyInfo.Category)
}
