package policies

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/requestcontext"
)

func testContext() context.Context {
	return requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func validInput(title string) CreateInput {
	return CreateInput{
		Title:         title,
		Category:      "term",
		Description:   "simple term life coverage",
		MinAge:        18,
		MaxAge:        65,
		CoverageMin:   100_000,
		CoverageMax:   1_000_000,
		DurationYears: 20,
		BasePremium:   49.99,
	}
}

func TestCreateValidatesBounds(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := testContext()

	bad := validInput("Bad Ages")
	bad.MinAge = 70
	bad.MaxAge = 60
	_, err := svc.Create(ctx, bad)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))

	bad = validInput("Bad Coverage")
	bad.CoverageMin = 500_000
	bad.CoverageMax = 100_000
	_, err = svc.Create(ctx, bad)
	assert.True(t, dErrors.Is(err, dErrors.CodeValidation))
}

func TestUpdatePartialFields(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := testContext()

	policy, err := svc.Create(ctx, validInput("Term Life"))
	require.NoError(t, err)

	premium := 59.99
	updated, err := svc.Update(ctx, policy.ID, UpdateInput{BasePremium: &premium})
	require.NoError(t, err)
	assert.Equal(t, 59.99, updated.BasePremium)
	assert.Equal(t, "Term Life", updated.Title)
}

func TestDeleteMissingPolicy(t *testing.T) {
	svc := NewService(NewInMemoryStore())

	err := svc.Delete(testContext(), primitive.NewObjectID())
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestTopReturnsMostApplied(t *testing.T) {
	store := NewInMemoryStore()
	svc := NewService(store)
	ctx := testContext()

	var busiest primitive.ObjectID
	for i := 0; i < 8; i++ {
		policy, err := svc.Create(ctx, validInput(fmt.Sprintf("Policy %d", i)))
		require.NoError(t, err)
		for j := 0; j <= i; j++ {
			require.NoError(t, store.IncrementApplicationCount(ctx, policy.ID))
		}
		busiest = policy.ID
	}

	top, err := svc.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, TopPolicyCount)
	assert.Equal(t, busiest, top[0].ID)
	assert.Equal(t, int64(8), top[0].ApplicationCount)
}

func TestListPagination(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := testContext()

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, validInput(fmt.Sprintf("Policy %d", i)))
		require.NoError(t, err)
	}

	page2, summary, err := svc.List(ctx, Filter{}, paging.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2, 5)
	assert.Equal(t, 2, summary.TotalPages)
	assert.False(t, summary.HasNext)
	assert.True(t, summary.HasPrev)
}

func TestListSearchAndCategory(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	ctx := testContext()

	whole := validInput("Whole Life Plus")
	whole.Category = "whole"
	_, err := svc.Create(ctx, whole)
	require.NoError(t, err)
	_, err = svc.Create(ctx, validInput("Term Basic"))
	require.NoError(t, err)

	found, _, err := svc.List(ctx, Filter{Search: "whole life"}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Whole Life Plus", found[0].Title)

	found, _, err = svc.List(ctx, Filter{Category: "term"}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Term Basic", found[0].Title)
}
