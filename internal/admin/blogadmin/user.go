package blogadmin

import (
	"context"
	"errors"
	"fmt"

	"blog-admin/internal/admin"
	"blog-admin/internal/domain/entity"
	userUC "blog-admin/internal/usecase/user"
)

// UserSchema describes the User model.
var UserSchema = admin.Schema{
	Name:   "user",
	Plural: "users",
	Fields: []admin.FieldSpec{
		{Name: "username", Label: "Username", Kind: admin.KindChar, Required: true, MaxLength: entity.MaxUsernameLength, Editable: true, Sortable: true},
		{Name: "email", Label: "Email address", Kind: admin.KindString, Editable: true},
		{Name: "date_joined", Label: "Date joined", Kind: admin.KindDate},
	},
}

// UserAdmin is the admin configuration of users.
var UserAdmin = admin.ModelAdmin{
	ListDisplay:    []string{"username", "email", "date_joined"},
	SearchFields:   []string{"username", "email"},
	Ordering:       []string{"username"},
	ReadonlyFields: []string{"date_joined"},
	Fieldsets: []admin.Fieldset{
		{Fields: []string{"username", "email", "date_joined"}},
	},
	AddFieldsets: []admin.Fieldset{
		{Fields: []string{"username", "email"}},
	},
}

// UserBackend serves users to the admin. Deleting a user deletes its articles.
type UserBackend struct {
	Users *userUC.Service
}

var _ admin.Backend = (*UserBackend)(nil)

func userRecord(u *entity.User) admin.Record {
	return admin.Record{
		ID: u.ID,
		Values: map[string]any{
			"username":    u.Username,
			"email":       u.Email,
			"date_joined": u.DateJoined,
		},
	}
}

func (b *UserBackend) List(ctx context.Context, q admin.ListQuery) ([]admin.Record, int64, error) {
	in := userUC.ListInput{Keywords: q.Keywords}
	in.Params.Page, in.Params.Limit = q.Page, q.Limit
	if len(q.Ordering) > 0 && q.Ordering[0].Field == "username" {
		in.Desc = q.Ordering[0].Desc
	}

	res, err := b.Users.List(ctx, in)
	if err != nil {
		return nil, 0, err
	}
	records := make([]admin.Record, len(res.Data))
	for i, u := range res.Data {
		records[i] = userRecord(u)
	}
	return records, res.Pagination.Total, nil
}

func (b *UserBackend) Get(ctx context.Context, id int64) (*admin.Record, error) {
	u, err := b.Users.Get(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	rec := userRecord(u)
	return &rec, nil
}

func (b *UserBackend) Create(ctx context.Context, values map[string]any) (*admin.Record, error) {
	in := userUC.CreateInput{}
	in.Username, _ = values["username"].(string)
	in.Email, _ = values["email"].(string)

	u, err := b.Users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	rec := userRecord(u)
	return &rec, nil
}

func (b *UserBackend) Update(ctx context.Context, id int64, values map[string]any) (*admin.Record, error) {
	in := userUC.UpdateInput{ID: id}
	if v, ok := values["username"].(string); ok {
		in.Username = &v
	}
	if v, ok := values["email"].(string); ok {
		in.Email = &v
	}
	u, err := b.Users.Update(ctx, in)
	if err != nil {
		return nil, mapUserErr(err)
	}
	rec := userRecord(u)
	return &rec, nil
}

func (b *UserBackend) Delete(ctx context.Context, id int64) error {
	_, err := b.Users.Delete(ctx, id)
	return mapUserErr(err)
}

func (b *UserBackend) FilterChoices(_ context.Context, field string) ([]admin.Choice, error) {
	return nil, fmt.Errorf("user has no choices for field %q", field)
}

func mapUserErr(err error) error {
	if errors.Is(err, userUC.ErrUserNotFound) || errors.Is(err, userUC.ErrInvalidUserID) {
		return fmt.Errorf("%w: %w", admin.ErrObjectNotFound, err)
	}
	return err
}
