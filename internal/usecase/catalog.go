package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/logging"
)

type ProductInput struct {
	Name        string
	Description string
	Brand       string
	PriceCents  int64
	Stock       int
	CategoryID  string
	ImageURL    string
	Featured    bool
}

type CategoryInput struct {
	Name        string
	Type        string
	Description string
}

// Catalog manages products and categories. All writes are admin gated;
// the order workflow reaches stock through its own ledger port, never
// through AdjustStock.
type Catalog struct {
	products   ProductRepo
	categories CategoryRepo
	cache      ProductCache
}

func NewCatalog(products ProductRepo, categories CategoryRepo, cache ProductCache) *Catalog {
	return &Catalog{products: products, categories: categories, cache: cache}
}

func (s *Catalog) CreateProduct(ctx context.Context, caller entity.Caller, in ProductInput) (*entity.Product, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		Featured:    in.Featured,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts hides inactive products from everyone except admins who
// ask for them.
func (s *Catalog) ListProducts(ctx context.Context, caller entity.Caller, f ProductFilter) ([]*entity.Product, error) {
	if f.IncludeInactive && !caller.IsAdmin() {
		f.IncludeInactive = false
	}
	return s.products.List(ctx, f)
}

func (s *Catalog) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok, err := s.cache.Get(ctx, id); err == nil && ok {
		return p, nil
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, p); err != nil {
		logging.FromCtx(ctx).Warn("product cache set", "product_id", id, "err", err)
	}
	return p, nil
}

func (s *Catalog) UpdateProduct(ctx context.Context, caller entity.Caller, id string, in ProductInput) (*entity.Product, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != "" && in.CategoryID != p.CategoryID {
		if _, err := s.categories.GetByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = in.CategoryID
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Brand = in.Brand
	p.PriceCents = in.PriceCents
	p.ImageURL = in.ImageURL
	p.Featured = in.Featured
	p.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

// DeactivateProduct is the public "delete": the row stays so existing
// orders keep their reference, but the product disappears from listings
// and refuses new orders.
func (s *Catalog) DeactivateProduct(ctx context.Context, caller entity.Caller, id string) error {
	if !caller.IsAdmin() {
		return entity.ErrNotAuthorized
	}
	if err := s.products.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *Catalog) ToggleProductStatus(ctx context.Context, caller entity.Caller, id string) (*entity.Product, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.products.SetActive(ctx, id, !p.Active); err != nil {
		return nil, err
	}
	p.Active = !p.Active
	s.invalidate(ctx, id)
	return p, nil
}

// AdjustStock is the admin-facing stock mutation. Unlike the workflow's
// reserve it is role gated, and like it, it refuses to go negative.
func (s *Catalog) AdjustStock(ctx context.Context, caller entity.Caller, id string, delta int) (*entity.Product, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	if err := s.products.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return s.products.GetByID(ctx, id)
}

func (s *Catalog) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logging.FromCtx(ctx).Warn("product cache invalidate", "product_id", id, "err", err)
	}
}

func (s *Catalog) CreateCategory(ctx context.Context, caller entity.Caller, in CategoryInput) (*entity.Category, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	now := time.Now()
	c := &entity.Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Catalog) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.categories.ListAll(ctx)
}

func (s *Catalog) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Catalog) UpdateCategory(ctx context.Context, caller entity.Caller, id string, in CategoryInput) (*entity.Category, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Type = in.Type
	c.Description = in.Description
	c.UpdatedAt = time.Now()
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses while active products still reference it.
func (s *Catalog) DeleteCategory(ctx context.Context, caller entity.Caller, id string) error {
	if !caller.IsAdmin() {
		return entity.ErrNotAuthorized
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.categories.CountActiveProducts(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return entity.ErrCategoryInUse
	}
	return s.categories.Delete(ctx, id)
}

func (s *Catalog) ToggleCategoryStatus(ctx context.Context, caller entity.Caller, id string) (*entity.Category, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.categories.SetActive(ctx, id, !c.Active); err != nil {
		return nil, err
	}
	c.Active = !c.Active
	return c, nil
}
