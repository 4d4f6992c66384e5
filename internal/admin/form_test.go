package admin_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-admin/internal/admin"
	"blog-admin/internal/domain/entity"
)

func TestAddForm(t *testing.T) {
	reg := mustRegister(&fakeBackend{})

	form, err := admin.AddForm(context.Background(), reg)
	require.NoError(t, err)

	require.Len(t, form.Sections, 1)
	section := form.Sections[0]
	assert.Empty(t, section.Name)
	require.Len(t, section.Fields, 3)
	assert.Equal(t, "title", section.Fields[0].Name)
	assert.Equal(t, 10, section.Fields[0].MaxLength)
	assert.Equal(t, "writer", section.Fields[2].Name)
	assert.Len(t, section.Fields[2].Choices, 2)
	for _, f := range section.Fields {
		assert.False(t, f.ReadOnly, f.Name)
		assert.Nil(t, f.Value, f.Name)
	}
}

func TestChangeForm(t *testing.T) {
	rec := record(5, "Go", "Gophers", 1, "alice", now)
	reg := mustRegister(&fakeBackend{records: []admin.Record{rec}})

	form, err := admin.ChangeForm(context.Background(), reg, &rec)
	require.NoError(t, err)

	assert.Equal(t, int64(5), form.ObjectID)
	require.Len(t, form.Sections, 2)
	assert.Equal(t, "Main", form.Sections[0].Name)
	assert.Equal(t, "Meta", form.Sections[1].Name)

	meta := form.Sections[1].Fields
	require.Len(t, meta, 2)
	assert.Equal(t, int64(1), meta[0].Value)
	assert.Equal(t, "alice", meta[0].Display)
	assert.False(t, meta[0].ReadOnly)
	assert.True(t, meta[1].ReadOnly)
	assert.Equal(t, "2024-05-15", meta[1].Value)
	assert.Empty(t, meta[1].Choices)
}

func TestCleanAdd(t *testing.T) {
	reg := mustRegister(&fakeBackend{})

	got, err := admin.CleanAdd(reg, map[string]any{
		"title":     "Hello",
		"body":      "World",
		"writer":    float64(2),
		"published": "1999-01-01",
		"unknown":   "x",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Hello", "body": "World", "writer": int64(2)}, got)
}

func TestCleanAdd_Errors(t *testing.T) {
	reg := mustRegister(&fakeBackend{})

	_, err := admin.CleanAdd(reg, map[string]any{
		"title":  strings.Repeat("x", 11),
		"body":   "   ",
		"writer": "zero",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	fe, ok := admin.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, admin.FieldErrors{
		"title":  {"Ensure this value has at most 10 characters (it has 11)."},
		"body":   {"This field is required."},
		"writer": {"Select a valid choice."},
	}, fe)
}

func TestCleanAdd_MissingFieldsAreRequired(t *testing.T) {
	reg := mustRegister(&fakeBackend{})

	_, err := admin.CleanAdd(reg, map[string]any{"title": "T", "body": "B"})
	fe, ok := admin.AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, admin.FieldErrors{"writer": {"This field is required."}}, fe)
}

func TestCleanChange_IgnoresReadonlyAndAbsentFields(t *testing.T) {
	reg := mustRegister(&fakeBackend{})

	got, err := admin.CleanChange(reg, map[string]any{
		"title":     "New",
		"published": "2001-02-03",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "New"}, got)
}

func TestAdd_ConvertsDomainValidationErrors(t *testing.T) {
	backend := &fakeBackend{createErr: &entity.ValidationError{Field: "writer", Message: "does not exist"}}
	reg := mustRegister(backend)

	_, err := admin.Add(context.Background(), reg, map[string]any{"title": "T", "body": "B", "writer": "9"})
	var fe admin.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"does not exist"}, fe["writer"])
}

func TestAdd_WrapsBackendErrors(t *testing.T) {
	boom := errors.New("db down")
	reg := mustRegister(&fakeBackend{createErr: boom})

	_, err := admin.Add(context.Background(), reg, map[string]any{"title": "T", "body": "B", "writer": "9"})
	assert.ErrorIs(t, err, boom)
	_, isForm := admin.AsFieldErrors(err)
	assert.False(t, isForm)
}

func TestChangeAndRemove(t *testing.T) {
	backend := &fakeBackend{records: []admin.Record{record(1, "Go", "Gophers", 1, "alice", now)}}
	reg := mustRegister(backend)
	ctx := context.Background()

	_, err := admin.Change(ctx, reg, 1, map[string]any{"body": "Gopher"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"body": "Gopher"}, backend.updated)

	_, err = admin.Change(ctx, reg, 2, map[string]any{"body": "x"})
	assert.ErrorIs(t, err, admin.ErrObjectNotFound)

	require.NoError(t, admin.Remove(ctx, reg, 1))
	assert.Equal(t, []int64{1}, backend.deleted)
	assert.ErrorIs(t, admin.Remove(ctx, reg, 3), admin.ErrObjectNotFound)
}
