// Package blogadmin registers the blog's models with the admin site.
package blogadmin

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"blog-admin/internal/admin"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/repository"
	artUC "blog-admin/internal/usecase/article"
	userUC "blog-admin/internal/usecase/user"
)

// ArticleSchema describes the Article model.
var ArticleSchema = admin.Schema{
	Name:   "article",
	Plural: "articles",
	Fields: []admin.FieldSpec{
		{Name: "title", Label: "Title", Kind: admin.KindChar, Required: true, MaxLength: entity.MaxTitleLength, Editable: true, Sortable: true},
		{Name: "body", Label: "Body", Kind: admin.KindText, Required: true, Editable: true},
		{Name: "author", Label: "Author", Kind: admin.KindForeignKey, Required: true, Editable: true, Sortable: true, References: "user"},
		{Name: "created_at", Label: "Created at", Kind: admin.KindDate, Sortable: true},
		{Name: "updated_at", Label: "Updated at", Kind: admin.KindDate, Sortable: true},
	},
}

// ArticleAdmin is the admin configuration of articles.
var ArticleAdmin = admin.ModelAdmin{
	ListDisplay:    []string{"title", "body", "author"},
	SearchFields:   []string{"title", "body"},
	ListFilter:     []string{"author", "created_at"},
	Ordering:       []string{"author", "title"},
	ReadonlyFields: []string{"created_at"},
	Fieldsets: []admin.Fieldset{
		{Name: "Main Info", Fields: []string{"title", "body"}},
		{Name: "Author & Date", Fields: []string{"author", "created_at"}},
	},
	AddFieldsets: []admin.Fieldset{
		{Fields: []string{"title", "body", "author"}},
	},
}

var articleOrderFields = map[string]string{
	"title":      repository.OrderByTitle,
	"author":     repository.OrderByAuthor,
	"created_at": repository.OrderByCreatedAt,
	"updated_at": repository.OrderByUpdatedAt,
}

// ArticleBackend serves articles to the admin through the article service.
type ArticleBackend struct {
	Articles *artUC.Service
	Users    *userUC.Service
}

var _ admin.Backend = (*ArticleBackend)(nil)

func articleRecord(a *entity.Article, authorName string) admin.Record {
	return admin.Record{
		ID: a.ID,
		Values: map[string]any{
			"title":      a.Title,
			"body":       a.Body,
			"author":     a.AuthorID,
			"created_at": a.CreatedAt,
			"updated_at": a.UpdatedAt,
		},
		Display: map[string]string{"author": authorName},
	}
}

func (b *ArticleBackend) List(ctx context.Context, q admin.ListQuery) ([]admin.Record, int64, error) {
	in := artUC.ListInput{Keywords: q.Keywords}
	in.Params.Page, in.Params.Limit = q.Page, q.Limit
	for _, f := range q.Filters {
		switch f.Field {
		case "author":
			in.Filters.AuthorID = f.Ref
		case "created_at":
			in.Filters.CreatedFrom, in.Filters.CreatedTo = f.From, f.To
		}
	}
	for _, key := range q.Ordering {
		if field, ok := articleOrderFields[key.Field]; ok {
			in.Ordering = append(in.Ordering, repository.OrderBy{Field: field, Desc: key.Desc})
		}
	}

	res, err := b.Articles.List(ctx, in)
	if err != nil {
		return nil, 0, err
	}
	records := make([]admin.Record, len(res.Data))
	for i, item := range res.Data {
		records[i] = articleRecord(item.Article, item.AuthorName)
	}
	return records, res.Pagination.Total, nil
}

func (b *ArticleBackend) Get(ctx context.Context, id int64) (*admin.Record, error) {
	item, err := b.Articles.GetWithAuthor(ctx, id)
	if err != nil {
		return nil, mapArticleErr(err)
	}
	rec := articleRecord(item.Article, item.AuthorName)
	return &rec, nil
}

func (b *ArticleBackend) Create(ctx context.Context, values map[string]any) (*admin.Record, error) {
	in := artUC.CreateInput{}
	in.Title, _ = values["title"].(string)
	in.Body, _ = values["body"].(string)
	in.AuthorID, _ = values["author"].(int64)

	created, err := b.Articles.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return b.Get(ctx, created.ID)
}

// Update applies the submitted fields. created_at is never part of values.
func (b *ArticleBackend) Update(ctx context.Context, id int64, values map[string]any) (*admin.Record, error) {
	in := artUC.UpdateInput{ID: id}
	if v, ok := values["title"].(string); ok {
		in.Title = &v
	}
	if v, ok := values["body"].(string); ok {
		in.Body = &v
	}
	if v, ok := values["author"].(int64); ok {
		in.AuthorID = &v
	}
	if _, err := b.Articles.Update(ctx, in); err != nil {
		return nil, mapArticleErr(err)
	}
	return b.Get(ctx, id)
}

func (b *ArticleBackend) Delete(ctx context.Context, id int64) error {
	return mapArticleErr(b.Articles.Delete(ctx, id))
}

// FilterChoices lists every user as a possible author.
func (b *ArticleBackend) FilterChoices(ctx context.Context, field string) ([]admin.Choice, error) {
	if field != "author" {
		return nil, fmt.Errorf("article has no choices for field %q", field)
	}
	return userChoices(ctx, b.Users)
}

func userChoices(ctx context.Context, svc *userUC.Service) ([]admin.Choice, error) {
	res, err := svc.List(ctx, userUC.ListInput{})
	if err != nil {
		return nil, err
	}
	choices := make([]admin.Choice, len(res.Data))
	for i, u := range res.Data {
		choices[i] = admin.Choice{Value: strconv.FormatInt(u.ID, 10), Label: u.Username}
	}
	return choices, nil
}

func mapArticleErr(err error) error {
	if errors.Is(err, artUC.ErrArticleNotFound) || errors.Is(err, artUC.ErrInvalidArticleID) {
		return fmt.Errorf("%w: %w", admin.ErrObjectNotFound, err)
	}
	return err
}
