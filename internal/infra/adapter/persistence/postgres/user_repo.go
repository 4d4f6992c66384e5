package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"blog-admin/internal/domain/entity"
	"blog-admin/internal/pkg/search"
	"blog-admin/internal/repository"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) repository.UserRepository {
	return &UserRepo{db: db}
}

// userWhereClause matches every keyword against username or email.
func userWhereClause(keywords []string) (string, []interface{}) {
	if len(keywords) == 0 {
		return "", nil
	}
	conditions := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords))
	for i, kw := range keywords {
		conditions = append(conditions, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", i+1, i+1))
		args = append(args, search.EscapeILIKE(kw))
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanUsers(rows *sql.Rows, op string) ([]*entity.User, error) {
	users := make([]*entity.User, 0, 16)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DateJoined); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	const query = `
SELECT id, username, email, date_joined
FROM users
WHERE id = $1
LIMIT 1`
	var u entity.User
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.Email, &u.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &u, nil
}

func (repo *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	const query = `
SELECT id, username, email, date_joined
FROM users
WHERE username = $1
LIMIT 1`
	var u entity.User
	err := repo.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.DateJoined)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &u, nil
}

func (repo *UserRepo) List(ctx context.Context, q repository.UserQuery) ([]*entity.User, error) {
	whereClause, args := userWhereClause(q.Keywords)
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	query := fmt.Sprintf(`
SELECT id, username, email, date_joined
FROM users
%s
ORDER BY username %s, id ASC`, whereClause, dir)

	paramIndex := len(args) + 1
	if q.Limit > 0 {
		query += fmt.Sprintf("\nLIMIT $%d", paramIndex)
		args = append(args, q.Limit)
		paramIndex++
	}
	if q.Offset > 0 {
		query += fmt.Sprintf("\nOFFSET $%d", paramIndex)
		args = append(args, q.Offset)
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows, "List")
}

func (repo *UserRepo) Count(ctx context.Context, keywords []string) (int64, error) {
	whereClause, args := userWhereClause(keywords)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+whereClause, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *UserRepo) Search(ctx context.Context, keyword string) ([]*entity.User, error) {
	const query = `
SELECT id, username, email, date_joined
FROM users
WHERE username ILIKE $1
   OR email    ILIKE $1
ORDER BY username ASC`
	rows, err := repo.db.QueryContext(ctx, query, search.EscapeILIKE(keyword))
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanUsers(rows, "Search")
}

func (repo *UserRepo) Create(ctx context.Context, user *entity.User) error {
	const query = `
INSERT INTO users (username, email)
VALUES ($1, $2)
RETURNING id, date_joined`
	err := repo.db.QueryRowContext(ctx, query, user.Username, user.Email).
		Scan(&user.ID, &user.DateJoined)
	if err != nil {
		return wrapError("Create", err)
	}
	return nil
}

func (repo *UserRepo) Update(ctx context.Context, user *entity.User) error {
	const query = `
UPDATE users SET
       username = $1,
       email    = $2
WHERE id = $3`
	res, err := repo.db.ExecContext(ctx, query, user.Username, user.Email, user.ID)
	if err != nil {
		return wrapError("Update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes the user. The articles.author_id foreign key is declared
// ON DELETE CASCADE, so the user's articles are removed in the same statement.
func (repo *UserRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM users WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected: %w", entity.ErrNotFound)
	}
	return nil
}
