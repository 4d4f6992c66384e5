package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog-admin/internal/common/pagination"
	"blog-admin/internal/domain/entity"
	"blog-admin/internal/observability/metrics"
	"blog-admin/internal/observability/tracing"
	"blog-admin/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type CreateInput struct {
	Username string
	Email    string
}

// UpdateInput carries optional changes; nil fields are left untouched.
type UpdateInput struct {
	ID       int64
	Username *string
	Email    *string
}

type ListInput struct {
	Keywords []string
	Desc     bool
	Params   pagination.Params
}

type PaginatedResult struct {
	Data       []*entity.User
	Pagination pagination.Metadata
}

// DeleteResult reports how many articles were removed along with the user.
type DeleteResult struct {
	ArticlesDeleted int64
}

// Service provides user management use cases.
// Articles is optional and only used to report the size of a cascading delete.
type Service struct {
	Repo     repository.UserRepository
	Articles repository.ArticleRepository
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns one page of users ordered by username.
func (s *Service) List(ctx context.Context, in ListInput) (*PaginatedResult, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "user.List")
	defer span.End()

	var (
		total int64
		users []*entity.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.Count(gctx, in.Keywords)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		items, err := s.Repo.List(gctx, repository.UserQuery{
			Keywords: in.Keywords,
			Desc:     in.Desc,
			Offset:   pagination.CalculateOffset(in.Params.Page, in.Params.Limit),
			Limit:    in.Params.Limit,
		})
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		users = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PaginatedResult{Data: users, Pagination: pagination.NewMetadata(in.Params, total)}, nil
}

func (s *Service) Search(ctx context.Context, kw string) ([]*entity.User, error) {
	users, err := s.Repo.Search(ctx, kw)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// ensureUnique returns ErrUsernameTaken when another user already has username.
func (s *Service) ensureUnique(ctx context.Context, username string, selfID int64) error {
	existing, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("get user by username: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrUsernameTaken
	}
	return nil
}

// Create registers a new user. DateJoined is assigned by storage.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.User, error) {
	u := &entity.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, u.Username, 0); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.User, error) {
	u, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		u.Username = strings.TrimSpace(*in.Username)
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, u.Username, u.ID); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes the user together with every article it authored.
func (s *Service) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	if id <= 0 {
		return DeleteResult{}, ErrInvalidUserID
	}
	ctx, span := tracing.GetTracer().Start(ctx, "user.Delete")
	defer span.End()

	var res DeleteResult
	if s.Articles != nil {
		n, err := s.Articles.CountByAuthor(ctx, id)
		if err != nil {
			return DeleteResult{}, fmt.Errorf("count articles by author: %w", err)
		}
		res.ArticlesDeleted = n
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return DeleteResult{}, ErrUserNotFound
		}
		return DeleteResult{}, fmt.Errorf("delete user: %w", err)
	}
	span.SetAttributes(attribute.Int64("articles.cascaded", res.ArticlesDeleted))
	metrics.RecordArticlesDeleted("cascade", res.ArticlesDeleted)
	return res, nil
}
