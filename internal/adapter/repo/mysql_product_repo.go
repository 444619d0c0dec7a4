package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type MySQLProductRepo struct{ db querier }

func NewMySQLProductRepo(db querier) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

const productColumns = `id,name,description,brand,price_cents,stock,category_id,
image_url,featured,active,created_at,updated_at`

func (r *MySQLProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO products (`+productColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Description, p.Brand, p.PriceCents, p.Stock, p.CategoryID,
		p.ImageURL, p.Featured, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *MySQLProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *MySQLProductRepo) List(ctx context.Context, f usecase.ProductFilter) ([]*entity.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	var conds []string
	var args []any
	if !f.IncludeInactive {
		conds = append(conds, "active = 1")
	}
	if f.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MySQLProductRepo) Update(ctx context.Context, p *entity.Product) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET name=?, description=?, brand=?, price_cents=?, category_id=?,
image_url=?, featured=?, updated_at=NOW() WHERE id=?`,
		p.Name, p.Description, p.Brand, p.PriceCents, p.CategoryID,
		p.ImageURL, p.Featured, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrProductNotFound)
}

func (r *MySQLProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET active=?, updated_at=NOW() WHERE id=?`, active, id)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrProductNotFound)
}

// Reserve decrements stock atomically. The stock >= ? guard in the
// UPDATE plus MySQL row locking is the whole concurrency story: of two
// racing reservations that would overdraw, exactly one sees rows=0.
func (r *MySQLProductRepo) Reserve(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET stock = stock - ?, updated_at=NOW()
WHERE id=? AND active=1 AND stock >= ?`, qty, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Distinguish a dead product from an overdraw.
	var active bool
	err = r.db.QueryRowContext(ctx, `SELECT active FROM products WHERE id=?`, id).Scan(&active)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%w: %s", entity.ErrProductUnavailable, id)
	case err != nil:
		return err
	case !active:
		return fmt.Errorf("%w: %s", entity.ErrProductUnavailable, id)
	default:
		return fmt.Errorf("%w: %s", entity.ErrInsufficientStock, id)
	}
}

// Release has no upper bound; a cancelled order always gets its stock back.
func (r *MySQLProductRepo) Release(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET stock = stock + ?, updated_at=NOW() WHERE id=?`, qty, id)
	if err != nil {
		return err
	}
	return requireRow(res, entity.ErrProductNotFound)
}

func (r *MySQLProductRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE products SET stock = stock + ?, updated_at=NOW()
WHERE id=? AND stock + ? >= 0`, delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE id=?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrProductNotFound
	}
	if err != nil {
		return err
	}
	return entity.ErrInsufficientStock
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Brand, &p.PriceCents,
		&p.Stock, &p.CategoryID, &p.ImageURL, &p.Featured, &p.Active,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
