package claims

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/applications"
	appmodel "lifesure/internal/applications/models"
	claimmodel "lifesure/internal/claims/models"
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
	apps     *applications.InMemoryStore
	policies *policies.InMemoryStore
	users    *users.InMemoryStore
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	policyStore := policies.NewInMemoryStore()
	userStore := users.NewInMemoryStore()
	appStore := applications.NewInMemoryStore(policyStore)
	return &fixture{
		svc:      NewService(NewInMemoryStore(), appStore, policyStore, userStore, nil),
		apps:     appStore,
		policies: policyStore,
		users:    userStore,
		ctx:      requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

// seedApproved creates a policy plus an application in the given status.
func (f *fixture) seedApproved(t *testing.T, subject string, status appmodel.Status) (*policymodel.Policy, *appmodel.Application) {
	t.Helper()
	policy := &policymodel.Policy{Title: "Term Life"}
	require.NoError(t, f.policies.Insert(f.ctx, policy))
	app := &appmodel.Application{
		UserID:     subject,
		PolicyID:   policy.ID,
		PolicyName: policy.Title,
		Status:     status,
	}
	require.NoError(t, f.apps.Insert(f.ctx, app))
	return policy, app
}

func TestSubmitRequiresApprovedApplication(t *testing.T) {
	f := newFixture(t)
	policy, _ := f.seedApproved(t, "subject-1", appmodel.StatusPending)

	_, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "hospitalized"})
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	// Someone else's approval doesn't help either.
	other, _ := f.seedApproved(t, "subject-2", appmodel.StatusApproved)
	_, err = f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: other.ID, Reason: "hospitalized"})
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestSubmitFilesPendingClaim(t *testing.T) {
	f := newFixture(t)
	policy, app := f.seedApproved(t, "subject-1", appmodel.StatusApproved)

	claim, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{
		PolicyID:     policy.ID,
		Reason:       "hospitalized",
		DocumentURLs: []string{"https://docs.example.com/bill.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, claimmodel.StatusPending, claim.Status)
	assert.Equal(t, app.ID, claim.ApplicationID)
	assert.Equal(t, "Term Life", claim.PolicyName)
}

func TestSubmitOneClaimPerApplication(t *testing.T) {
	f := newFixture(t)
	policy, _ := f.seedApproved(t, "subject-1", appmodel.StatusApproved)

	_, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "first"})
	require.NoError(t, err)

	_, err = f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "second"})
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	mine, _, err := f.svc.ListMine(f.ctx, "subject-1", paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListAllEnrichment(t *testing.T) {
	f := newFixture(t)
	policy, _ := f.seedApproved(t, "subject-1", appmodel.StatusApproved)
	require.NoError(t, f.users.Insert(f.ctx, &usermodel.User{SubjectID: "subject-1", Name: "Ana", Role: usermodel.RoleCustomer}))

	_, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "hospitalized"})
	require.NoError(t, err)

	items, _, err := f.svc.ListAll(f.ctx, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Claimant)
	assert.Equal(t, "Ana", items[0].Claimant.Name)
	require.NotNil(t, items[0].Policy)
	assert.Equal(t, "Term Life", items[0].Policy.Title)
}

func TestListAllToleratesMissingReferences(t *testing.T) {
	f := newFixture(t)
	policy, _ := f.seedApproved(t, "subject-1", appmodel.StatusApproved)

	_, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "hospitalized"})
	require.NoError(t, err)
	require.NoError(t, f.policies.Delete(f.ctx, policy.ID))

	items, _, err := f.svc.ListAll(f.ctx, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Claimant)
	assert.Nil(t, items[0].Policy)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	policy, _ := f.seedApproved(t, "subject-1", appmodel.StatusApproved)
	claim, err := f.svc.Submit(f.ctx, "subject-1", SubmitInput{PolicyID: policy.ID, Reason: "hospitalized"})
	require.NoError(t, err)

	updated, err := f.svc.SetStatus(f.ctx, claim.ID, claimmodel.StatusApproved, "verified")
	require.NoError(t, err)
	assert.Equal(t, claimmodel.StatusApproved, updated.Status)
	assert.Equal(t, "verified", updated.Feedback)

	_, err = f.svc.SetStatus(f.ctx, claim.ID, claimmodel.Status("escalated"), "")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	_, err = f.svc.SetStatus(f.ctx, primitive.NewObjectID(), claimmodel.StatusRejected, "")
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}
