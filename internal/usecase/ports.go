package usecase

import (
	"context"

	"github.com/legolas182/NatureGlow/internal/entity"
)

// Store bundles the repositories scoped to one transaction.
type Store interface {
	Orders() OrderRepo
	Products() ProductRepo
}

// UnitOfWork runs fn inside a single transaction. If fn returns an error
// the transaction is rolled back, otherwise committed. There is no other
// exit path.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) error
	Delete(ctx context.Context, id string) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	SetActive(ctx context.Context, id string, active bool) error

	// Reserve and Release are the stock ledger. They carry no role check:
	// the only caller outside admin stock adjustment is the order workflow,
	// always inside its unit of work.
	Reserve(ctx context.Context, id string, qty int) error
	Release(ctx context.Context, id string, qty int) error
	AdjustStock(ctx context.Context, id string, delta int) error
}

type ProductFilter struct {
	CategoryID      string
	IncludeInactive bool
}

type CategoryRepo interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	ListAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	CountActiveProducts(ctx context.Context, id string) (int, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	SetActive(ctx context.Context, id string, active bool) error
}

type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool, error)
	Set(ctx context.Context, p *entity.Product) error
	Invalidate(ctx context.Context, id string) error
}

// IdempotencyStore tracks order-creation idempotency keys per user.
// Reserve claims a key for an in-flight request; Bind attaches the
// created order id; Release frees a key whose request failed so the
// caller can resubmit. Lookup only reports keys that were bound.
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID, key string) (bool, error)
	Release(ctx context.Context, userID, key string) error
	Bind(ctx context.Context, userID, key, orderID string) error
	Lookup(ctx context.Context, userID, key string) (string, bool, error)
}

// OrderEvents is notified after a workflow transaction commits.
// Implementations must not fail the request: errors are logged by callers.
type OrderEvents interface {
	OrderCreated(ctx context.Context, o *entity.Order) error
	OrderCancelled(ctx context.Context, o *entity.Order) error
	OrderStatusChanged(ctx context.Context, o *entity.Order, from entity.OrderStatus) error
}
