package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type MySQLUserRepo struct{ db querier }

func NewMySQLUserRepo(db querier) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

const userColumns = `id,name,email,password_hash,role,active,created_at,updated_at`

func (r *MySQLUserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (`+userColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *MySQLUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id)
}

func (r *MySQLUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email)
}

func (r *MySQLUserRepo) one(ctx context.Context, q string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRowContext(ctx, q, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Active,
			&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MySQLUserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *MySQLUserRepo) Update(ctx context.Context, u *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET name=?, email=?, password_hash=?, role=?, active=?, updated_at=NOW()
WHERE id=?`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Active, u.ID)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrUserNotFound)
}

func (r *MySQLUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET active=?, updated_at=NOW() WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrUserNotFound)
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
