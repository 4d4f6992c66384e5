package admin_test

import (
	"context"
	"errors"
	"time"

	"blog-admin/internal/admin"
)

func postSchema() admin.Schema {
	return admin.Schema{
		Name:   "post",
		Plural: "posts",
		Fields: []admin.FieldSpec{
			{Name: "title", Label: "Title", Kind: admin.KindChar, Required: true, MaxLength: 10, Editable: true, Sortable: true},
			{Name: "body", Label: "Body", Kind: admin.KindText, Required: true, Editable: true},
			{Name: "writer", Label: "Writer", Kind: admin.KindForeignKey, Required: true, Editable: true, Sortable: true, References: "user"},
			{Name: "published", Label: "Published", Kind: admin.KindDate, Sortable: true},
		},
	}
}

func postAdmin() admin.ModelAdmin {
	return admin.ModelAdmin{
		ListDisplay:    []string{"title", "body", "writer"},
		SearchFields:   []string{"title", "body"},
		ListFilter:     []string{"writer", "published"},
		Ordering:       []string{"writer", "title"},
		ReadonlyFields: []string{"published"},
		Fieldsets: []admin.Fieldset{
			{Name: "Main", Fields: []string{"title", "body"}},
			{Name: "Meta", Fields: []string{"writer", "published"}},
		},
		AddFieldsets: []admin.Fieldset{
			{Fields: []string{"title", "body", "writer"}},
		},
	}
}

// fakeBackend records the last query and serves fixed records.
type fakeBackend struct {
	records   []admin.Record
	lastQuery admin.ListQuery
	created   map[string]any
	updated   map[string]any
	deleted   []int64
	createErr error
	listErr   error
}

func (b *fakeBackend) List(_ context.Context, q admin.ListQuery) ([]admin.Record, int64, error) {
	b.lastQuery = q
	if b.listErr != nil {
		return nil, 0, b.listErr
	}
	return b.records, int64(len(b.records)), nil
}

func (b *fakeBackend) Get(_ context.Context, id int64) (*admin.Record, error) {
	for i := range b.records {
		if b.records[i].ID == id {
			return &b.records[i], nil
		}
	}
	return nil, admin.ErrObjectNotFound
}

func (b *fakeBackend) Create(_ context.Context, values map[string]any) (*admin.Record, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.created = values
	return &admin.Record{ID: 100, Values: values}, nil
}

func (b *fakeBackend) Update(_ context.Context, id int64, values map[string]any) (*admin.Record, error) {
	if _, err := b.Get(context.Background(), id); err != nil {
		return nil, err
	}
	b.updated = values
	return &admin.Record{ID: id, Values: values}, nil
}

func (b *fakeBackend) Delete(_ context.Context, id int64) error {
	if _, err := b.Get(context.Background(), id); err != nil {
		return err
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *fakeBackend) FilterChoices(_ context.Context, field string) ([]admin.Choice, error) {
	if field != "writer" {
		return nil, errors.New("no choices for " + field)
	}
	return []admin.Choice{{Value: "1", Label: "alice"}, {Value: "2", Label: "bob"}}, nil
}

func record(id int64, title, body string, writer int64, writerName string, published time.Time) admin.Record {
	return admin.Record{
		ID: id,
		Values: map[string]any{
			"title":     title,
			"body":      body,
			"writer":    writer,
			"published": published,
		},
		Display: map[string]string{"writer": writerName},
	}
}

func mustRegister(backend admin.Backend) *admin.Registration {
	site := admin.NewSite()
	if err := site.Register(postSchema(), postAdmin(), backend); err != nil {
		panic(err)
	}
	reg, _ := site.Lookup("post")
	return reg
}
