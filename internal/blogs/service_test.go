package blogs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifesure/internal/platform/logger"
	usermodel "lifesure/internal/users/models"
	dErrors "lifesure/pkg/domain-errors"
	"lifesure/pkg/paging"
	"lifesure/pkg/requestcontext"
)

func newService() (*Service, context.Context) {
	svc := NewService(NewInMemoryStore(), logger.New())
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return svc, ctx
}

func author(subject, name string) *usermodel.User {
	return &usermodel.User{SubjectID: subject, Name: name, Role: usermodel.RoleAgent}
}

func TestCreateStampsAuthor(t *testing.T) {
	svc, ctx := newService()

	blog, err := svc.Create(ctx, author("agent-1", "Ana"), CreateInput{Title: "Why term life", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "agent-1", blog.AuthorID)
	assert.Equal(t, "Ana", blog.AuthorName)
	assert.Equal(t, int64(0), blog.TotalVisits)
}

func TestReadIncrementsVisits(t *testing.T) {
	svc, ctx := newService()
	blog, err := svc.Create(ctx, author("agent-1", "Ana"), CreateInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := svc.Read(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.TotalVisits)
	}
}

func TestReadUnknownBlog(t *testing.T) {
	svc, ctx := newService()

	_, err := svc.Read(ctx, primitive.NewObjectID())
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestUpdateAuthorOnly(t *testing.T) {
	svc, ctx := newService()
	blog, err := svc.Create(ctx, author("agent-1", "Ana"), CreateInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "agent-2", blog.ID, UpdateInput{Title: "Hijacked", Content: "X"})
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))

	updated, err := svc.Update(ctx, "agent-1", blog.ID, UpdateInput{Title: "T2", Content: "C2"})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
}

func TestDeleteAuthorOnly(t *testing.T) {
	svc, ctx := newService()
	blog, err := svc.Create(ctx, author("agent-1", "Ana"), CreateInput{Title: "T", Content: "C"})
	require.NoError(t, err)

	err = svc.Delete(ctx, "agent-2", blog.ID)
	assert.True(t, dErrors.Is(err, dErrors.CodeForbidden))

	require.NoError(t, svc.Delete(ctx, "agent-1", blog.ID))
	_, err = svc.Read(ctx, blog.ID)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestListSearchAndAuthorFilter(t *testing.T) {
	svc, ctx := newService()

	_, err := svc.Create(ctx, author("agent-1", "Ana"), CreateInput{Title: "Retirement planning", Content: "..."})
	require.NoError(t, err)
	_, err = svc.Create(ctx, author("agent-2", "Bo"), CreateInput{Title: "Claims explained", Content: "retirement savings too"})
	require.NoError(t, err)

	found, _, err := svc.List(ctx, Filter{Search: "retirement"}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	mine, _, err := svc.List(ctx, Filter{AuthorID: "agent-1"}, paging.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Retirement planning", mine[0].Title)
}
