package repository

import (
	"context"

	"blog-admin/internal/domain/entity"
)

// UserQuery describes a searched page of users ordered by username.
// A Limit of 0 means no limit.
type UserQuery struct {
	Keywords []string
	Desc     bool
	Offset   int
	Limit    int
}

type UserRepository interface {
	// Get returns (nil, nil) if the user is not found.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByUsername returns (nil, nil) if the user is not found.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context, q UserQuery) ([]*entity.User, error)
	Count(ctx context.Context, keywords []string) (int64, error)
	// Search matches username or email case-insensitively.
	Search(ctx context.Context, keyword string) ([]*entity.User, error)
	// Create inserts the user and assigns its ID and DateJoined.
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	// Delete removes the user; storage cascades the delete to the user's articles.
	Delete(ctx context.Context, id int64) error
}
