package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type MySQLOrderRepo struct{ db querier }

func NewMySQLOrderRepo(db querier) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

const orderColumns = `id,user_id,status,total_cents,payment_method,payment_status,
shipping_address,shipping_city,shipping_zip,shipping_country,created_at,updated_at`

func (r *MySQLOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (`+orderColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, o.Status, o.TotalCents, o.PaymentMethod, o.PaymentStatus,
		o.ShippingAddress, o.ShippingCity, o.ShippingZip, o.ShippingCountry,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, it := range o.Items {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO order_items (order_id,product_id,product_name,unit_price_cents,quantity,subtotal_cents)
VALUES (?,?,?,?,?,?)`,
			it.OrderID, it.ProductID, it.ProductName, it.UnitPriceCents, it.Quantity, it.SubtotalCents)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=?`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.itemsFor(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+` FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *MySQLOrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, rows)
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status=?, updated_at=NOW() WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *MySQLOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

func (r *MySQLOrderRepo) collect(ctx context.Context, rows *sql.Rows) ([]*entity.Order, error) {
	defer rows.Close()
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		items, err := r.itemsFor(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return out, nil
}

func (r *MySQLOrderRepo) itemsFor(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT order_id,product_id,product_name,unit_price_cents,quantity,subtotal_cents
FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.ProductName,
			&it.UnitPriceCents, &it.Quantity, &it.SubtotalCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents,
		&o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingZip, &o.ShippingCountry,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
