package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"blog-admin/internal/domain/entity"
	"blog-admin/internal/pkg/search"
	"blog-admin/internal/repository"
)

// UserRepo implements repository.UserRepository over a Store.
type UserRepo struct {
	s *Store
}

var _ repository.UserRepository = (*UserRepo)(nil)

func userMatches(u *entity.User, keywords []string) bool {
	for _, kw := range keywords {
		if !search.Contains(u.Username, kw) && !search.Contains(u.Email, kw) {
			return false
		}
	}
	return true
}

func (r *UserRepo) Get(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, q repository.UserQuery) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if userMatches(&u, q.Keywords) {
			users = append(users, &u)
		}
	}
	slices.SortFunc(users, func(a, b *entity.User) int {
		c := cmp.Compare(a.Username, b.Username)
		if q.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if q.Offset > 0 {
		if q.Offset >= len(users) {
			return []*entity.User{}, nil
		}
		users = users[q.Offset:]
	}
	if q.Limit > 0 && len(users) > q.Limit {
		users = users[:q.Limit]
	}
	return users, nil
}

func (r *UserRepo) Count(_ context.Context, keywords []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, u := range r.s.users {
		if userMatches(&u, keywords) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) Search(ctx context.Context, keyword string) ([]*entity.User, error) {
	return r.List(ctx, repository.UserQuery{Keywords: []string{keyword}})
}

// usernameTaken reports whether another user already holds username. The caller must hold s.mu.
func (r *UserRepo) usernameTaken(username string, exceptID int64) bool {
	for id, u := range r.s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.Username == "" {
		return constraintError("Create", `null value in column "username"`)
	}
	if r.usernameTaken(user.Username, 0) {
		return constraintError("Create", fmt.Sprintf("username %q already exists", user.Username))
	}
	r.s.nextUser++
	user.ID = r.s.nextUser
	user.DateJoined = r.s.now().UTC()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("Update: no rows affected: %w", entity.ErrNotFound)
	}
	if user.Username == "" {
		return constraintError("Update", `null value in column "username"`)
	}
	if r.usernameTaken(user.Username, user.ID) {
		return constraintError("Update", fmt.Sprintf("username %q already exists", user.Username))
	}
	existing.Username = user.Username
	existing.Email = user.Email
	r.s.users[user.ID] = existing
	return nil
}

// Delete removes the user and every article it authored.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("Delete: no rows affected: %w", entity.ErrNotFound)
	}
	delete(r.s.users, id)
	for artID, a := range r.s.articles {
		if a.AuthorID == id {
			delete(r.s.articles, artID)
		}
	}
	return nil
}
