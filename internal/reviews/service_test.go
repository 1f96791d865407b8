package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/policies"
	policymodel "lifesure/internal/policies/models"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/requestcontext"
)

func newService(t *testing.T) (*Service, *policies.InMemoryStore, context.Context) {
	t.Helper()
	policyStore := policies.NewInMemoryStore()
	svc := NewService(NewInMemoryStore(), policyStore)
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, policyStore, ctx
}

func seedPolicy(t *testing.T, store *policies.InMemoryStore, ctx context.Context, title string) *policymodel.Policy {
	t.Helper()
	policy := &policymodel.Policy{Title: title}
	require.NoError(t, store.Insert(ctx, policy))
	return policy
}

func reviewer(subject string) *usermodel.User {
	return &usermodel.User{SubjectID: subject, Name: "Ana", PhotoURL: "https://cdn.example.com/ana.png", Role: usermodel.RoleCustomer}
}

func TestSubmitStampsUserAndPolicy(t *testing.T) {
	svc, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx, "Term Life")

	review, err := svc.Submit(ctx, reviewer("subject-1"), SubmitInput{PolicyID: policy.ID, Rating: 5, Feedback: "great"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", review.UserName)
	assert.Equal(t, "Term Life", review.PolicyTitle)
	assert.False(t, review.ID.IsZero())
}

func TestSubmitRatingBounds(t *testing.T) {
	svc, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx, "Term Life")

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Submit(ctx, reviewer("subject-1"), SubmitInput{PolicyID: policy.ID, Rating: rating, Feedback: "x"})
		assert.True(t, dErrors.Is(err, dErrors.CodeValidation), "rating %d", rating)
	}
}

func TestSubmitUnknownPolicy(t *testing.T) {
	svc, _, ctx := newService(t)

	_, err := svc.Submit(ctx, reviewer("subject-1"), SubmitInput{PolicyID: primitive.NewObjectID(), Rating: 4, Feedback: "x"})
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestSubmitSecondReviewRejected(t *testing.T) {
	svc, policyStore, ctx := newService(t)
	policy := seedPolicy(t, policyStore, ctx, "Term Life")

	_, err := svc.Submit(ctx, reviewer("subject-1"), SubmitInput{PolicyID: policy.ID, Rating: 5, Feedback: "great"})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, reviewer("subject-1"), SubmitInput{PolicyID: policy.ID, Rating: 1, Feedback: "changed my mind"})
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	// Only the first one sticks.
	reviews, err := svc.ListLatest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)

	// A different user can still review the same policy.
	_, err = svc.Submit(ctx, reviewer("subject-2"), SubmitInput{PolicyID: policy.ID, Rating: 3, Feedback: "ok"})
	assert.NoError(t, err)
}

func TestListLatestOrderAndLimit(t *testing.T) {
	svc, policyStore, ctx := newService(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		policy := seedPolicy(t, policyStore, ctx, "P")
		tick := requestcontext.WithTime(context.Background(), base.Add(time.Duration(i)*time.Minute))
		_, err := svc.Submit(tick, reviewer("subject-1"), SubmitInput{PolicyID: policy.ID, Rating: 4, Feedback: "x"})
		require.NoError(t, err)
	}

	reviews, err := svc.ListLatest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reviews, DefaultListLimit)
	assert.True(t, reviews[0].CreatedAt.After(reviews[len(reviews)-1].CreatedAt))
}
