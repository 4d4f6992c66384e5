package article_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/infra/adapter/persistence/memory"
	"blog-admin/internal/repository"
	artUC "blog-admin/internal/usecase/article"
)

var (
	day1 = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 5, 23, 10, 0, 0, time.UTC)
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newService(t *testing.T) (*artUC.Service, *clock, *entity.User) {
	t.Helper()
	store := memory.NewStore()
	author := &entity.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, store.Users().Create(context.Background(), author))

	c := &clock{now: day1}
	return &artUC.Service{Repo: store.Articles(), Users: store.Users(), Now: c.Now}, c, author
}

func TestService_Create(t *testing.T) {
	svc, _, author := newService(t)

	got, err := svc.Create(context.Background(), artUC.CreateInput{AuthorID: author.ID, Title: "Hello", Body: "World"})
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, entity.DateOf(day1), got.CreatedAt)
	assert.Equal(t, entity.DateOf(day1), got.UpdatedAt)

	stored, err := svc.Get(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestService_TrimsTitleAndBody(t *testing.T) {
	svc, _, author := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "  Hello \t", Body: "\n World  "})
	require.NoError(t, err)
	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, "World", created.Body)

	title, body := " Renamed ", "  Rewritten\n"
	updated, err := svc.Update(ctx, artUC.UpdateInput{ID: created.ID, Title: &title, Body: &body})
	require.NoError(t, err)

	stored, err := svc.Get(ctx, updated.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
	assert.Equal(t, "Rewritten", stored.Body)

	blank := "   "
	_, err = svc.Update(ctx, artUC.UpdateInput{ID: created.ID, Title: &blank})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, author := newService(t)
	long := make([]rune, entity.MaxTitleLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name  string
		in    artUC.CreateInput
		field string
	}{
		{"missing title", artUC.CreateInput{AuthorID: author.ID, Body: "b"}, "title"},
		{"title too long", artUC.CreateInput{AuthorID: author.ID, Title: string(long), Body: "b"}, "title"},
		{"missing body", artUC.CreateInput{AuthorID: author.ID, Title: "t"}, "body"},
		{"missing author", artUC.CreateInput{Title: "t", Body: "b"}, "author"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrValidationFailed)

			var vErr *entity.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}

	n, err := svc.CountByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing should be persisted")
}

func TestService_CreateUnknownAuthor(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), artUC.CreateInput{AuthorID: 999, Title: "t", Body: "b"})
	assert.ErrorIs(t, err, artUC.ErrAuthorNotFound)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
}

func TestService_CreateWithoutUserRepoRelaysConstraint(t *testing.T) {
	store := memory.NewStore()
	svc := &artUC.Service{Repo: store.Articles()}

	_, err := svc.Create(context.Background(), artUC.CreateInput{AuthorID: 42, Title: "t", Body: "b"})
	assert.ErrorIs(t, err, entity.ErrConstraintViolation)
}

func TestService_UpdateRefreshesUpdatedAtOnly(t *testing.T) {
	svc, c, author := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "Old", Body: "Body"})
	require.NoError(t, err)

	c.now = day2
	title := "New"
	updated, err := svc.Update(ctx, artUC.UpdateInput{ID: created.ID, Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Body", updated.Body)
	assert.Equal(t, entity.DateOf(day1), updated.CreatedAt)
	assert.Equal(t, entity.DateOf(day2), updated.UpdatedAt)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DateOf(day1), stored.CreatedAt)
	assert.Equal(t, entity.DateOf(day2), stored.UpdatedAt)
}

func TestService_UpdateErrors(t *testing.T) {
	svc, _, author := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, artUC.UpdateInput{ID: 0})
	assert.ErrorIs(t, err, artUC.ErrInvalidArticleID)

	_, err = svc.Update(ctx, artUC.UpdateInput{ID: 12345})
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)

	empty := ""
	_, err = svc.Update(ctx, artUC.UpdateInput{ID: created.ID, Body: &empty})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	ghost := int64(777)
	_, err = svc.Update(ctx, artUC.UpdateInput{ID: created.ID, AuthorID: &ghost})
	assert.ErrorIs(t, err, artUC.ErrAuthorNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, _, author := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "t", Body: "b"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), artUC.ErrArticleNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, -1), artUC.ErrInvalidArticleID)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)
}

func TestService_ListPaginates(t *testing.T) {
	svc, _, author := newService(t)
	ctx := context.Background()
	for _, title := range []string{"c", "a", "e", "b", "d"} {
		_, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: title, Body: "body"})
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, artUC.ListInput{
		Ordering: []repository.OrderBy{{Field: repository.OrderByTitle}},
		Params:   pagination.Params{Page: 2, Limit: 2},
	})
	require.NoError(t, err)

	require.Len(t, res.Data, 2)
	assert.Equal(t, "c", res.Data[0].Article.Title)
	assert.Equal(t, "d", res.Data[1].Article.Title)
	assert.Equal(t, "alice", res.Data[0].AuthorName)
	assert.Equal(t, pagination.Metadata{Total: 5, Page: 2, Limit: 2, TotalPages: 3}, res.Pagination)
}

func TestService_SearchAndGetWithAuthor(t *testing.T) {
	svc, _, author := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "Go tips", Body: "Use gofmt"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, artUC.CreateInput{AuthorID: author.ID, Title: "Baking", Body: "Flour"})
	require.NoError(t, err)

	found, err := svc.Search(ctx, "GOFMT")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	withAuthor, err := svc.GetWithAuthor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", withAuthor.AuthorName)

	_, err = svc.GetWithAuthor(ctx, 999)
	assert.ErrorIs(t, err, artUC.ErrArticleNotFound)
}

/* ───────── failing repository ───────── */

type failingRepo struct {
	repository.ArticleRepository
	err error
}

func (f failingRepo) Get(context.Context, int64) (*entity.Article, error) { return nil, f.err }
func (f failingRepo) Count(context.Context, []string, repository.ArticleFilters) (int64, error) {
	return 0, f.err
}
func (f failingRepo) List(context.Context, repository.ArticleQuery) ([]repository.ArticleWithAuthor, error) {
	return nil, nil
}

func TestService_WrapsRepositoryErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := &artUC.Service{Repo: failingRepo{err: boom}}

	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "get article")

	_, err = svc.List(context.Background(), artUC.ListInput{Params: pagination.Params{Page: 1, Limit: 10}})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "count articles")
}
