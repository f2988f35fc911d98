package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jobboard/internal/shared/model"
)

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser 创建用户，邮箱重复时返回 storage.ErrDuplicate
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`),
		user.ID, user.Name, user.Email, user.PasswordHash,
		string(user.Role), user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	)
	return s.wrapError(err)
}

// GetUserByEmail 通过邮箱查找用户
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+userColumns+` FROM users WHERE email = $1`), email)
	return s.getUser(row)
}

// GetUserByID 通过 ID 查找用户
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT `+userColumns+` FROM users WHERE id = $1`), id)
	return s.getUser(row)
}

func (s *Store) getUser(row *sql.Row) (*model.User, error) {
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// UpdateUserRole 修改用户角色
func (s *Store) UpdateUserRole(ctx context.Context, id string, role model.UserRole) error {
	return s.execAffectingOne(ctx,
		`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`,
		string(role), time.Now().UTC(), id,
	)
}

// ListUsers 列出用户，可按角色过滤
func (s *Store) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	var fb filterBuilder
	if filter.Role != "" {
		fb.add("role = ?", string(filter.Role))
	}
	query := s.whereQuery(`SELECT `+userColumns+` FROM users`, fb.conds, "ORDER BY created_at DESC")

	rows, err := s.db.QueryContext(ctx, query, fb.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
