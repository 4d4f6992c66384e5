package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/infra/adapter/persistence/memory"
	userUC "blog-admin/internal/usecase/user"
)

func newService() (*userUC.Service, *memory.Store) {
	store := memory.NewStore()
	return &userUC.Service{Repo: store.Users(), Articles: store.Articles()}, store
}

func TestService_CreateAndGet(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	u, err := svc.Create(ctx, userUC.CreateInput{Username: "  bob ", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.False(t, u.DateJoined.IsZero())

	got, err := svc.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Get(ctx, 0)
	assert.ErrorIs(t, err, userUC.ErrInvalidUserID)
	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, userUC.ErrUserNotFound)
}

func TestService_CreateRejectsDuplicatesAndBlank(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, userUC.CreateInput{Username: "bob"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, userUC.CreateInput{Username: "bob"})
	assert.ErrorIs(t, err, userUC.ErrUsernameTaken)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	_, err = svc.Create(ctx, userUC.CreateInput{Username: "   "})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
}

func TestService_Update(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bob, err := svc.Create(ctx, userUC.CreateInput{Username: "bob"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userUC.CreateInput{Username: "carol"})
	require.NoError(t, err)

	email := "b@example.com"
	updated, err := svc.Update(ctx, userUC.UpdateInput{ID: bob.ID, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", updated.Email)

	taken := "carol"
	_, err = svc.Update(ctx, userUC.UpdateInput{ID: bob.ID, Username: &taken})
	assert.ErrorIs(t, err, userUC.ErrUsernameTaken)
}

func TestService_DeleteCascades(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	bob, err := svc.Create(ctx, userUC.CreateInput{Username: "bob"})
	require.NoError(t, err)
	for _, title := range []string{"one", "two"} {
		require.NoError(t, store.Articles().Create(ctx, &entity.Article{AuthorID: bob.ID, Title: title, Body: "b"}))
	}

	res, err := svc.Delete(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.ArticlesDeleted)

	n, err := store.Articles().CountByAuthor(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.Delete(ctx, bob.ID)
	assert.ErrorIs(t, err, userUC.ErrUserNotFound)
}

func TestService_List(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	for _, name := range []string{"dave", "alice", "carol", "bob"} {
		_, err := svc.Create(ctx, userUC.CreateInput{Username: name})
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, userUC.ListInput{Params: pagination.Params{Page: 1, Limit: 3}})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "alice", res.Data[0].Username)
	assert.Equal(t, "carol", res.Data[2].Username)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	found, err := svc.Search(ctx, "AR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "carol", found[0].Username)
}
