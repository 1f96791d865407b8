package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/requestcontext"
)

func testContext() context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestUpsertProfileFirstContact(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil)

	user, created, err := svc.UpsertProfile(testContext(), UpsertProfileInput{
		SubjectID: "subject-1",
		Email:     "ana@example.com",
		Name:      "Ana",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, usermodel.RoleCustomer, user.Role)
	assert.True(t, user.Active)
	assert.False(t, user.ID.IsZero())
}

func TestUpsertProfileNeverChangesRole(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	user, _, err := svc.UpsertProfile(ctx, UpsertProfileInput{SubjectID: "subject-1", Email: "ana@example.com"})
	require.NoError(t, err)

	// Promote out of band, then replay the login upsert.
	promoted, err := svc.ChangeRole(ctx, user.ID, usermodel.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, usermodel.RoleAdmin, promoted.Role)

	again, created, err := svc.UpsertProfile(ctx, UpsertProfileInput{
		SubjectID: "subject-1",
		Email:     "ana@new.example.com",
		Name:      "Ana B",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, usermodel.RoleAdmin, again.Role)
	assert.Equal(t, "ana@new.example.com", again.Email)
	assert.Equal(t, "Ana B", again.Name)
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	user, _, err := svc.UpsertProfile(ctx, UpsertProfileInput{SubjectID: "subject-1", Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.ChangeRole(ctx, user.ID, usermodel.Role("superuser"))
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	admin, _, err := svc.UpsertProfile(ctx, UpsertProfileInput{SubjectID: "admin-1", Email: "root@example.com"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "admin-1", admin.ID)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	// Still present.
	_, err = svc.FindBySubject(ctx, "admin-1")
	assert.NoError(t, err)
}

func TestAgentApplicationLifecycle(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	user, _, err := svc.UpsertProfile(ctx, UpsertProfileInput{SubjectID: "subject-1", Email: "ana@example.com"})
	require.NoError(t, err)

	applied, err := svc.ApplyAgent(ctx, user, ApplyAgentInput{Experience: "5 years", Specialties: []string{"term life"}})
	require.NoError(t, err)
	require.NotNil(t, applied.AgentApplication)
	assert.Equal(t, usermodel.AgentApplicationPending, applied.AgentApplication.Status)

	// Second application while one is pending.
	_, err = svc.ApplyAgent(ctx, applied, ApplyAgentInput{Experience: "6 years"})
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	pending, summary, err := svc.ListAgentApplications(ctx, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, int64(1), summary.TotalCount)

	decided, err := svc.DecideAgentApplication(ctx, user.ID, true, "welcome aboard")
	require.NoError(t, err)
	assert.Equal(t, usermodel.RoleAgent, decided.Role)
	assert.Equal(t, usermodel.AgentApplicationApproved, decided.AgentApplication.Status)
	require.NotNil(t, decided.AgentApplication.DecidedAt)

	// No longer pending, deciding again fails.
	_, err = svc.DecideAgentApplication(ctx, user.ID, false, "")
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestDecideAgentApplicationRejection(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	user, _, err := svc.UpsertProfile(ctx, UpsertProfileInput{SubjectID: "subject-1", Email: "ana@example.com"})
	require.NoError(t, err)
	_, err = svc.ApplyAgent(ctx, user, ApplyAgentInput{Experience: "none"})
	require.NoError(t, err)

	decided, err := svc.DecideAgentApplication(ctx, user.ID, false, "not enough experience")
	require.NoError(t, err)
	assert.Equal(t, usermodel.RoleCustomer, decided.Role)
	assert.Equal(t, usermodel.AgentApplicationRejected, decided.AgentApplication.Status)
	assert.Equal(t, "not enough experience", decided.AgentApplication.Feedback)
}

func TestListFiltersByRoleAndSearch(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store, nil)
	ctx := testContext()

	for _, in := range []UpsertProfileInput{
		{SubjectID: "s1", Email: "ana@example.com", Name: "Ana"},
		{SubjectID: "s2", Email: "bo@example.com", Name: "Bo"},
	} {
		_, _, err := svc.UpsertProfile(ctx, in)
		require.NoError(t, err)
	}

	users, _, err := svc.List(ctx, Filter{Search: "ana"}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)

	users, _, err = svc.List(ctx, Filter{Role: usermodel.RoleAgent}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, users)
}
