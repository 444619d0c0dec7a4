// Package testutil provides in-memory implementations of the usecase
// ports. The unit of work snapshots state before each call and restores
// it on error, mirroring the rollback guarantees of the SQL store.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type MemStore struct {
	mu         sync.Mutex
	orders     map[string]*entity.Order
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	users      map[string]*entity.User
}

func NewMemStore() *MemStore {
	return &MemStore{
		orders:     map[string]*entity.Order{},
		products:   map[string]*entity.Product{},
		categories: map[string]*entity.Category{},
		users:      map[string]*entity.User{},
	}
}

func (s *MemStore) Orders() usecase.OrderRepo       { return &memOrderRepo{s} }
func (s *MemStore) Products() usecase.ProductRepo   { return &memProductRepo{s} }
func (s *MemStore) Categories() usecase.CategoryRepo { return &memCategoryRepo{s} }
func (s *MemStore) Users() usecase.UserRepo         { return &memUserRepo{s} }

// Seed helpers.

func (s *MemStore) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.products[p.ID] = &cp
}

func (s *MemStore) PutOrder(o *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
}

func (s *MemStore) PutCategory(c *entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.categories[c.ID] = &cp
}

func (s *MemStore) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *MemStore) ProductStock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return -1
}

func (s *MemStore) OrderStatus(id string) entity.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		return o.Status
	}
	return ""
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

// MemUnitOfWork applies fn to the live store but restores a snapshot of
// orders and products when fn fails.
type MemUnitOfWork struct{ S *MemStore }

func (u *MemUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, s usecase.Store) error) error {
	u.S.mu.Lock()
	ordersSnap := map[string]*entity.Order{}
	for k, v := range u.S.orders {
		ordersSnap[k] = copyOrder(v)
	}
	productsSnap := map[string]*entity.Product{}
	for k, v := range u.S.products {
		cp := *v
		productsSnap[k] = &cp
	}
	u.S.mu.Unlock()

	if err := fn(ctx, u.S); err != nil {
		u.S.mu.Lock()
		u.S.orders = ordersSnap
		u.S.products = productsSnap
		u.S.mu.Unlock()
		return err
	}
	return nil
}

var _ usecase.UnitOfWork = (*MemUnitOfWork)(nil)

type memOrderRepo struct{ s *MemStore }

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[o.ID] = copyOrder(o)
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (r *memOrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	sortOrders(out)
	return out, nil
}

func (r *memOrderRepo) ListAll(_ context.Context) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		out = append(out, copyOrder(o))
	}
	sortOrders(out)
	return out, nil
}

func sortOrders(orders []*entity.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return entity.ErrOrderNotFound
	}
	delete(r.s.orders, id)
	return nil
}

type memProductRepo struct{ s *MemStore }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, entity.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) List(_ context.Context, f usecase.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		if !f.IncludeInactive && !p.Active {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return entity.ErrProductNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return entity.ErrProductNotFound
	}
	p.Active = active
	return nil
}

func (r *memProductRepo) Reserve(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return entity.ErrProductUnavailable
	}
	if p.Stock < qty {
		return entity.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (r *memProductRepo) Release(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return entity.ErrProductNotFound
	}
	p.Stock += qty
	return nil
}

func (r *memProductRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return entity.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return entity.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

type memCategoryRepo struct{ s *MemStore }

func (r *memCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, entity.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategoryRepo) ListAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return entity.ErrCategoryNotFound
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *memCategoryRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return entity.ErrCategoryNotFound
	}
	c.Active = active
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return entity.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r *memCategoryRepo) CountActiveProducts(_ context.Context, id string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.products {
		if p.CategoryID == id && p.Active {
			n++
		}
	}
	return n, nil
}

type memUserRepo struct{ s *MemStore }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *memUserRepo) ListAll(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return entity.ErrUserNotFound
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.Active = active
	return nil
}

// MemProductCache is a plain map cache.
type MemProductCache struct {
	mu sync.Mutex
	m  map[string]entity.Product
}

func NewMemProductCache() *MemProductCache {
	return &MemProductCache{m: map[string]entity.Product{}}
}

func (c *MemProductCache) Get(_ context.Context, id string) (*entity.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.m[id]
	if !ok {
		return nil, false, nil
	}
	cp := p
	return &cp, true, nil
}

func (c *MemProductCache) Set(_ context.Context, p *entity.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[p.ID] = *p
	return nil
}

func (c *MemProductCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, id)
	return nil
}

// MemIdempotencyStore mirrors the Redis single-key behavior: a reserved
// key holds an empty value until an order id is bound to it.
type MemIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewMemIdempotencyStore() *MemIdempotencyStore {
	return &MemIdempotencyStore{keys: map[string]string{}}
}

func (s *MemIdempotencyStore) Reserve(_ context.Context, userID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := userID + ":" + key
	if _, ok := s.keys[k]; ok {
		return false, nil
	}
	s.keys[k] = ""
	return true, nil
}

func (s *MemIdempotencyStore) Release(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, userID+":"+key)
	return nil
}

func (s *MemIdempotencyStore) Bind(_ context.Context, userID, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[userID+":"+key] = orderID
	return nil
}

func (s *MemIdempotencyStore) Lookup(_ context.Context, userID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.keys[userID+":"+key]
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// RecordingEvents captures published order events for assertions.
type RecordingEvents struct {
	mu        sync.Mutex
	Created   []string
	Cancelled []string
	Changed   []string
}

func (e *RecordingEvents) OrderCreated(_ context.Context, o *entity.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Created = append(e.Created, o.ID)
	return nil
}

func (e *RecordingEvents) OrderCancelled(_ context.Context, o *entity.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Cancelled = append(e.Cancelled, o.ID)
	return nil
}

func (e *RecordingEvents) OrderStatusChanged(_ context.Context, o *entity.Order, _ entity.OrderStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Changed = append(e.Changed, o.ID)
	return nil
}

var (
	_ usecase.Store            = (*MemStore)(nil)
	_ usecase.ProductCache     = (*MemProductCache)(nil)
	_ usecase.IdempotencyStore = (*MemIdempotencyStore)(nil)
	_ usecase.OrderEvents      = (*RecordingEvents)(nil)
)
