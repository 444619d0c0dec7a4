package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type MySQLCategoryRepo struct{ db querier }

func NewMySQLCategoryRepo(db querier) *MySQLCategoryRepo { return &MySQLCategoryRepo{db: db} }

func (r *MySQLCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO categories (id,name,type,description,active,created_at,updated_at)
VALUES (?,?,?,?,?,?,?)`,
		c.ID, c.Name, c.Type, c.Description, c.Active, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *MySQLCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.db.QueryRowContext(ctx, `
SELECT id,name,type,description,active,created_at,updated_at
FROM categories WHERE id=?`, id).
		Scan(&c.ID, &c.Name, &c.Type, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *MySQLCategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,name,type,description,active,created_at,updated_at
FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Description, &c.Active,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *MySQLCategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE categories SET name=?, type=?, description=?, updated_at=NOW() WHERE id=?`,
		c.Name, c.Type, c.Description, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrCategoryNotFound)
}

func (r *MySQLCategoryRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE categories SET active=?, updated_at=NOW() WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrCategoryNotFound)
}

func (r *MySQLCategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrCategoryNotFound)
}

func (r *MySQLCategoryRepo) CountActiveProducts(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM products WHERE category_id=? AND active=1`, id).Scan(&n)
	return n, err
}

var _ usecase.CategoryRepo = (*MySQLCategoryRepo)(nil)
