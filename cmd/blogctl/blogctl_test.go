package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"blog-admin/internal/admin"
	"blog-admin/internal/config"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/infra/adapter/persistence/memory"
)

const testSecret = "k7Qw9zR2mX4vB8nL1pT6yH3jF5sD0gCe"

type harness struct {
	store *memory.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("JWT_SECRET", testSecret)
	return &harness{store: memory.NewStore()}
}

// run executes one command line against the shared in-memory store.
func (h *harness) run(args ...string) (string, error) {
	c := &cli{openStores: func(context.Context, *config.Config) (*stores, error) {
		return &stores{Articles: h.store.Articles(), Users: h.store.Users()}, nil
	}}
	cmd := c.command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_ListsSubcommands(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("--help")
	require.NoError(t, err)
	for _, sub := range []string{"migrate", "user", "token", "admin"} {
		assert.Contains(t, out, sub)
	}
}

func TestRoot_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("nonexistent")
	assert.Error(t, err)
}

func TestUser_CreateListDelete(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("user", "create", "--username", "alice", "--email", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Created user 1 (alice)\n", out)

	_, err = h.run("user", "create", "--username", "bob")
	require.NoError(t, err)

	out, err = h.run("user", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "USERNAME")
	assert.Contains(t, lines[1], "alice@example.com")
	assert.Contains(t, lines[2], "bob")
	assert.Equal(t, "Page 1 of 1 (2 users)", lines[3])

	out, err = h.run("user", "list", "--search", "ali")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")
	assert.NotContains(t, out, "bob")

	ctx := context.Background()
	today := entity.DateOf(time.Now())
	require.NoError(t, h.store.Articles().Create(ctx, &entity.Article{
		AuthorID: 1, Title: "Hello", Body: "World", CreatedAt: today, UpdatedAt: today,
	}))

	out, err = h.run("user", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Deleted user 1 and 1 article(s)\n", out)

	n, err := h.store.Articles().CountByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUser_CreateErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("user", "create")
	assert.ErrorContains(t, err, "username")

	_, err = h.run("user", "create", "--username", "alice")
	require.NoError(t, err)
	_, err = h.run("user", "create", "--username", "alice")
	assert.ErrorContains(t, err, "already exists")

	_, err = h.run("user", "delete", "abc")
	assert.Error(t, err)
	_, err = h.run("user", "delete", "42")
	assert.ErrorContains(t, err, "user not found")
}

func TestUser_ListEmpty(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("user", "list")
	require.NoError(t, err)
	assert.Equal(t, "No users.\n", out)
}

func TestToken_Issue(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("token", "issue", "--subject", "alice", "--role", "viewer", "--ttl", "5m")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "viewer", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp.Time, time.Minute)
}

func TestToken_IssueErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("token", "issue", "--subject", "alice", "--role", "owner")
	assert.ErrorContains(t, err, "invalid role")

	t.Setenv("JWT_SECRET", "short")
	_, err = h.run("token", "issue", "--subject", "alice")
	assert.ErrorContains(t, err, "weak JWT secret")
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("migrate", "up")
	assert.ErrorIs(t, err, errMemoryMigrate)

	_, err = h.run("migrate", "down")
	assert.ErrorContains(t, err, "--force")
}

func TestMigrate_MissingDatabaseURL(t *testing.T) {
	h := newHarness(t)
	t.Setenv("DATABASE_URL", "")

	_, err := h.run("migrate", "up")
	assert.ErrorContains(t, err, "database.url")
}

func TestAdmin_DescribeArticle(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("admin", "describe", "article")
	require.NoError(t, err)

	var got modelDescription
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "article", got.Model)
	assert.Equal(t, []string{"title", "body", "author"}, got.Admin.ListDisplay)
	assert.Equal(t, []string{"title", "body"}, got.Admin.SearchFields)
	assert.Equal(t, []string{"author", "created_at"}, got.Admin.ListFilter)
	assert.Equal(t, []string{"author", "title"}, got.Admin.Ordering)
	assert.Equal(t, []string{"created_at"}, got.Admin.ReadonlyFields)
	assert.Equal(t, []admin.Fieldset{
		{Name: "Main Info", Fields: []string{"title", "body"}},
		{Name: "Author & Date", Fields: []string{"author", "created_at"}},
	}, got.Admin.Fieldsets)
	assert.Equal(t, []admin.Fieldset{{Fields: []string{"title", "body", "author"}}}, got.Admin.AddFieldsets)

	require.Len(t, got.Fields, 5)
	assert.Equal(t, fieldDescription{Name: "title", Label: "Title", Kind: "char", Required: true, MaxLength: 255}, got.Fields[0])
	assert.Equal(t, "user", got.Fields[2].References)
	assert.True(t, got.Fields[3].Readonly)
}

func TestAdmin_DescribeAllAndUnknown(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("admin", "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "model: article")
	assert.Contains(t, out, "model: user")
	assert.Less(t, strings.Index(out, "model: article"), strings.Index(out, "model: user"))

	_, err = h.run("admin", "describe", "comment")
	assert.ErrorIs(t, err, admin.ErrModelNotFound)
}
