package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/legolas182/NatureGlow/internal/usecase"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the same
// repositories serve pooled reads and transactional writes.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type SQLUnitOfWork struct{ db *sql.DB }

func NewSQLUnitOfWork(db *sql.DB) *SQLUnitOfWork { return &SQLUnitOfWork{db: db} }

type txStore struct {
	orders   *MySQLOrderRepo
	products *MySQLProductRepo
}

func (s txStore) Orders() usecase.OrderRepo     { return s.orders }
func (s txStore) Products() usecase.ProductRepo { return s.products }

// Within opens a transaction, hands fn tx-scoped repositories and
// commits only if fn returns nil. Panics roll back and re-raise.
func (u *SQLUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, s usecase.Store) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	st := txStore{
		orders:   NewMySQLOrderRepo(tx),
		products: NewMySQLProductRepo(tx),
	}
	if err := fn(ctx, st); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

var _ usecase.UnitOfWork = (*SQLUnitOfWork)(nil)
