package blogadmin_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/admin"
	"blog-admin/internal/admin/blogadmin"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/infra/adapter/persistence/memory"
	artUC "blog-admin/internal/usecase/article"
	userUC "blog-admin/internal/usecase/user"
)

type fixture struct {
	site     *admin.Site
	articles *artUC.Service
	users    *userUC.Service
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	f := &fixture{site: admin.NewSite(), clock: &now}
	f.users = &userUC.Service{Repo: store.Users(), Articles: store.Articles()}
	f.articles = &artUC.Service{Repo: store.Articles(), Users: store.Users(), Now: func() time.Time { return *f.clock }}
	require.NoError(t, blogadmin.Setup(f.site, f.articles, f.users))
	return f
}

func (f *fixture) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), userUC.CreateInput{Username: name})
	require.NoError(t, err)
	return u
}

func (f *fixture) article(t *testing.T, author *entity.User, title, body string) *entity.Article {
	t.Helper()
	a, err := f.articles.Create(context.Background(), artUC.CreateInput{AuthorID: author.ID, Title: title, Body: body})
	require.NoError(t, err)
	return a
}

func (f *fixture) reg(t *testing.T, name string) *admin.Registration {
	t.Helper()
	reg, ok := f.site.Lookup(name)
	require.True(t, ok)
	return reg
}

func TestSetup_RegistersBothModels(t *testing.T) {
	f := newFixture(t)

	models := f.site.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "article", models[0].Name())
	assert.Equal(t, "user", models[1].Name())

	assert.ErrorIs(t, blogadmin.Setup(f.site, f.articles, f.users), admin.ErrAlreadyRegistered)
}

func TestArticleAdmin_Configuration(t *testing.T) {
	ma := blogadmin.ArticleAdmin
	assert.Equal(t, []string{"title", "body", "author"}, ma.ListDisplay)
	assert.Equal(t, []string{"title", "body"}, ma.SearchFields)
	assert.Equal(t, []string{"author", "created_at"}, ma.ListFilter)
	assert.Equal(t, []string{"author", "title"}, ma.Ordering)
	assert.Equal(t, []string{"created_at"}, ma.ReadonlyFields)
	assert.Equal(t, []admin.Fieldset{
		{Name: "Main Info", Fields: []string{"title", "body"}},
		{Name: "Author & Date", Fields: []string{"author", "created_at"}},
	}, ma.Fieldsets)
	assert.Equal(t, []admin.Fieldset{{Fields: []string{"title", "body", "author"}}}, ma.AddFieldsets)
}

func TestArticleChangeList_OrdersByAuthorThenTitle(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "A"), f.user(t, "B")
	f.article(t, b, "Z", "zz")
	f.article(t, a, "M", "mm")
	f.article(t, a, "A", "aa")

	cl, err := admin.BuildChangeList(context.Background(), f.reg(t, "article"), admin.ChangeListRequest{})
	require.NoError(t, err)

	require.Len(t, cl.Rows, 3)
	assert.Equal(t, []string{"A", "aa", "A"}, cl.Rows[0].Cells)
	assert.Equal(t, []string{"M", "mm", "A"}, cl.Rows[1].Cells)
	assert.Equal(t, []string{"Z", "zz", "B"}, cl.Rows[2].Cells)
}

func TestArticleChangeList_SearchIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "cook")
	f.article(t, u, "Best Recipe", "soup")
	f.article(t, u, "Dinner", "a RECIPE for stew")
	f.article(t, u, "Travel", "no cooking here")

	cl, err := admin.BuildChangeList(context.Background(), f.reg(t, "article"), admin.ChangeListRequest{Query: "recipe"})
	require.NoError(t, err)

	titles := make([]string, len(cl.Rows))
	for i, r := range cl.Rows {
		titles[i] = r.Cells[0]
	}
	assert.ElementsMatch(t, []string{"Best Recipe", "Dinner"}, titles)
	assert.Equal(t, int64(2), cl.Pagination.Total)
}

func TestArticleChangeList_Filters(t *testing.T) {
	f := newFixture(t)
	a, b := f.user(t, "ann"), f.user(t, "ben")
	f.article(t, a, "old", "x")
	*f.clock = f.clock.AddDate(0, 2, 0)
	f.article(t, a, "new", "x")
	f.article(t, b, "other", "x")

	cl, err := admin.BuildChangeList(context.Background(), f.reg(t, "article"), admin.ChangeListRequest{
		Filters: map[string]string{"author": "1", "created_at": admin.DateThisMonth},
		Now:     *f.clock,
	})
	require.NoError(t, err)

	require.Len(t, cl.Rows, 1)
	assert.Equal(t, "new", cl.Rows[0].Cells[0])
	require.Len(t, cl.Filters, 2)
	assert.Equal(t, []admin.Choice{{Value: "", Label: "All"}, {Value: "1", Label: "ann"}, {Value: "2", Label: "ben"}}, cl.Filters[0].Choices)
}

func TestArticleAdd_AndChangeKeepsCreatedAt(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "writer")
	reg := f.reg(t, "article")
	ctx := context.Background()

	rec, err := admin.Add(ctx, reg, map[string]any{"title": "Hello", "body": "World", "author": float64(author.ID)})
	require.NoError(t, err)
	created := rec.Values["created_at"].(time.Time)
	assert.Equal(t, created, rec.Values["updated_at"])
	assert.Equal(t, "writer", rec.Display["author"])

	*f.clock = f.clock.AddDate(0, 0, 3)
	rec, err = admin.Change(ctx, reg, rec.ID, map[string]any{
		"title":      "Hello again",
		"created_at": "1990-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello again", rec.Values["title"])
	assert.Equal(t, created, rec.Values["created_at"])
	assert.Equal(t, created.AddDate(0, 0, 3), rec.Values["updated_at"])
}

func TestArticleAdd_Errors(t *testing.T) {
	f := newFixture(t)
	reg := f.reg(t, "article")
	ctx := context.Background()

	_, err := admin.Add(ctx, reg, map[string]any{"title": "No author", "body": "b"})
	fe, ok := admin.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "author")

	_, err = admin.Add(ctx, reg, map[string]any{"title": "Ghost", "body": "b", "author": "42"})
	fe, ok = admin.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"does not exist"}, fe["author"])

	cl, err := admin.BuildChangeList(ctx, reg, admin.ChangeListRequest{})
	require.NoError(t, err)
	assert.Empty(t, cl.Rows)
}

func TestArticleForms(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "writer")
	art := f.article(t, author, "T", "B")
	reg := f.reg(t, "article")
	ctx := context.Background()

	add, err := admin.AddForm(ctx, reg)
	require.NoError(t, err)
	require.Len(t, add.Sections, 1)
	assert.Empty(t, add.Sections[0].Name)

	rec, err := reg.Backend.Get(ctx, art.ID)
	require.NoError(t, err)
	change, err := admin.ChangeForm(ctx, reg, rec)
	require.NoError(t, err)
	require.Len(t, change.Sections, 2)
	dates := change.Sections[1]
	assert.Equal(t, "Author & Date", dates.Name)
	assert.Equal(t, "created_at", dates.Fields[1].Name)
	assert.True(t, dates.Fields[1].ReadOnly)
	assert.Equal(t, "2024-06-10", dates.Fields[1].Value)
	assert.Equal(t, []admin.Choice{{Value: "1", Label: "writer"}}, dates.Fields[0].Choices)
}

func TestUserDelete_CascadesThroughAdmin(t *testing.T) {
	f := newFixture(t)
	doomed, kept := f.user(t, "doomed"), f.user(t, "kept")
	f.article(t, doomed, "one", "x")
	f.article(t, doomed, "two", "x")
	f.article(t, kept, "three", "x")
	ctx := context.Background()

	before, err := f.articles.CountByAuthor(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), before)

	require.NoError(t, admin.Remove(ctx, f.reg(t, "user"), doomed.ID))

	after, err := f.articles.CountByAuthor(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, after)

	cl, err := admin.BuildChangeList(ctx, f.reg(t, "article"), admin.ChangeListRequest{})
	require.NoError(t, err)
	require.Len(t, cl.Rows, 1)
	assert.Equal(t, "three", cl.Rows[0].Cells[0])

	assert.ErrorIs(t, admin.Remove(ctx, f.reg(t, "user"), doomed.ID), admin.ErrObjectNotFound)
}

func TestArticleBackend_NotFound(t *testing.T) {
	f := newFixture(t)
	reg := f.reg(t, "article")

	_, err := reg.Backend.Get(context.Background(), 404)
	assert.ErrorIs(t, err, admin.ErrObjectNotFound)
	assert.ErrorIs(t, admin.Remove(context.Background(), reg, 404), admin.ErrObjectNotFound)
}
