package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/testutil"
	"github.com/legolas182/NatureGlow/internal/usecase"
)

type ordersFixture struct {
	store  *testutil.MemStore
	idem   *testutil.MemIdempotencyStore
	events *testutil.RecordingEvents
	svc    *usecase.Orders
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	store := testutil.NewMemStore()
	idem := testutil.NewMemIdempotencyStore()
	events := &testutil.RecordingEvents{}
	svc := usecase.NewOrders(&testutil.MemUnitOfWork{S: store}, store.Orders(), idem, events)
	return &ordersFixture{store: store, idem: idem, events: events, svc: svc}
}

func seedProduct(store *testutil.MemStore, id string, priceCents int64, stock int, active bool) {
	store.PutProduct(&entity.Product{
		ID:         id,
		Name:       "product " + id,
		PriceCents: priceCents,
		Stock:      stock,
		CategoryID: "cat-1",
		Active:     active,
	})
}

func TestCreateOrderComputesTotalAndDecrementsStock(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1500, 50, true)
	seedProduct(f.store, "p2", 700, 10, true)

	order, err := f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID: "u1",
		Items: []usecase.OrderLine{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
		},
		ShippingAddress: "Calle 1",
		ShippingCity:    "Bogotá",
		ShippingZip:     "110111",
		ShippingCountry: "CO",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Equal(t, int64(2*1500+3*700), order.TotalCents)
	require.Len(t, order.Items, 2)

	var sum int64
	for _, it := range order.Items {
		assert.Equal(t, it.UnitPriceCents*int64(it.Quantity), it.SubtotalCents)
		sum += it.SubtotalCents
	}
	assert.Equal(t, order.TotalCents, sum)

	assert.Equal(t, 48, f.store.ProductStock("p1"))
	assert.Equal(t, 7, f.store.ProductStock("p2"))
	assert.Equal(t, []string{order.ID}, f.events.Created)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 50, true)
	seedProduct(f.store, "p2", 1000, 1, true)

	_, err := f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID: "u1",
		Items: []usecase.OrderLine{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 2}, // overdraws
		},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, entity.ErrInsufficientStock)

	// p1's reservation must have been rolled back with the rest.
	assert.Equal(t, 50, f.store.ProductStock("p1"))
	assert.Equal(t, 1, f.store.ProductStock("p2"))
	assert.Empty(t, f.events.Created)

	orders, err := f.svc.ListForCaller(context.Background(), entity.Caller{ID: "admin", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, orders, "no partial order may survive")
}

func TestCreateOrderInactiveProductAborts(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 50, true)
	seedProduct(f.store, "dead", 1000, 50, false)

	_, err := f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID: "u1",
		Items: []usecase.OrderLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "dead", Quantity: 1},
		},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, entity.ErrProductUnavailable)
	assert.Equal(t, 50, f.store.ProductStock("p1"))
}

func TestCreateOrderMissingProductAborts(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 50, true)

	_, err := f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID: "u1",
		Items:  []usecase.OrderLine{{ProductID: "ghost", Quantity: 1}},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, entity.ErrProductUnavailable)
}

func TestCreateOrderIdempotencyKeyReturnsSameOrder(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 10, true)

	in := usecase.CreateOrderInput{
		UserID:         "u1",
		IdempotencyKey: "key-1",
		Items:          []usecase.OrderLine{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	}
	first, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	second, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Stock reserved exactly once.
	assert.Equal(t, 8, f.store.ProductStock("p1"))
}

func TestCreateOrderFailureFreesIdempotencyKey(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 1, true)

	in := usecase.CreateOrderInput{
		UserID:         "u1",
		IdempotencyKey: "key-1",
		Items:          []usecase.OrderLine{{ProductID: "p1", Quantity: 5}},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	}
	_, err := f.svc.Create(context.Background(), in)
	require.ErrorIs(t, err, entity.ErrInsufficientStock)

	// The failed attempt must not poison the key: after restocking, the
	// identical retry goes through as a fresh order.
	seedProduct(f.store, "p1", 1000, 10, true)
	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 5, f.store.ProductStock("p1"))

	// And from here on the key replays that order.
	again, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Equal(t, 5, f.store.ProductStock("p1"))
}

func TestCreateOrderInFlightKeyRejected(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 10, true)

	// A concurrent request holds the key but has not committed yet.
	ok, err := f.idem.Reserve(context.Background(), "u1", "key-1")
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID:         "u1",
		IdempotencyKey: "key-1",
		Items:          []usecase.OrderLine{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, usecase.ErrDuplicateRequest)
	assert.Equal(t, 10, f.store.ProductStock("p1"))
}

func createOrder(t *testing.T, f *ordersFixture, userID string, lines ...usecase.OrderLine) *entity.Order {
	t.Helper()
	o, err := f.svc.Create(context.Background(), usecase.CreateOrderInput{
		UserID: userID,
		Items:  lines,
		ShippingAddress: "x", ShippingCity: "x", ShippingZip: "x", ShippingCountry: "x",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	return o
}

func TestCancelRestoresStock(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)

	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 2})
	assert.Equal(t, 48, f.store.ProductStock("p1"))
	assert.Equal(t, int64(4000), o.TotalCents)

	err := f.svc.Cancel(context.Background(), o.ID, entity.Caller{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)

	assert.Equal(t, 50, f.store.ProductStock("p1"))
	assert.Equal(t, entity.OrderCancelled, f.store.OrderStatus(o.ID))
	assert.Equal(t, []string{o.ID}, f.events.Cancelled)
}

func TestCancelTwiceErrorsWithoutDoubleRelease(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 2})

	owner := entity.Caller{ID: "u1", Role: entity.RoleCustomer}
	require.NoError(t, f.svc.Cancel(context.Background(), o.ID, owner))

	err := f.svc.Cancel(context.Background(), o.ID, owner)
	require.ErrorIs(t, err, entity.ErrOrderAlreadyCancelled)
	assert.Equal(t, 50, f.store.ProductStock("p1"), "stock must not be released twice")
}

func TestCancelCompletedOrderFails(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	_, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderCompleted, admin)
	require.NoError(t, err)

	err = f.svc.Cancel(context.Background(), o.ID, admin)
	require.ErrorIs(t, err, entity.ErrOrderAlreadyCompleted)
	assert.Equal(t, 49, f.store.ProductStock("p1"))
}

func TestCancelByStrangerForbidden(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	err := f.svc.Cancel(context.Background(), o.ID, entity.Caller{ID: "u2", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)
	assert.Equal(t, entity.OrderPending, f.store.OrderStatus(o.ID))
	assert.Equal(t, 49, f.store.ProductStock("p1"))
}

func TestCancelWindowExpiredForOwnerButNotAdmin(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)

	created := time.Now().Add(-25 * time.Hour)
	f.store.PutOrder(&entity.Order{
		ID:        "old-order",
		UserID:    "u1",
		Status:    entity.OrderPending,
		CreatedAt: created,
		Items: []entity.OrderItem{{
			OrderID: "old-order", ProductID: "p1", Quantity: 2,
			UnitPriceCents: 2000, SubtotalCents: 4000,
		}},
		TotalCents: 4000,
	})

	owner := entity.Caller{ID: "u1", Role: entity.RoleCustomer}
	err := f.svc.Cancel(context.Background(), "old-order", owner)
	require.ErrorIs(t, err, entity.ErrCancelWindowExpired)
	assert.Equal(t, 50, f.store.ProductStock("p1"))

	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	require.NoError(t, f.svc.Cancel(context.Background(), "old-order", admin))
	assert.Equal(t, 52, f.store.ProductStock("p1"))
	assert.Equal(t, entity.OrderCancelled, f.store.OrderStatus("old-order"))
}

func TestUpdateStatusRejectsUnknownTarget(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	_, err := f.svc.UpdateStatus(context.Background(), o.ID, "shipped_fast", admin)
	require.ErrorIs(t, err, entity.ErrInvalidStatus)
	assert.Equal(t, entity.OrderPending, f.store.OrderStatus(o.ID))
}

func TestUpdateStatusAdminOnly(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	owner := entity.Caller{ID: "u1", Role: entity.RoleCustomer}
	_, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderProcessing, owner)
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	updated, err := f.svc.UpdateStatus(context.Background(), o.ID, entity.OrderProcessing, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderProcessing, updated.Status)
	assert.Equal(t, []string{o.ID}, f.events.Changed)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newOrdersFixture(t)
	admin := entity.Caller{ID: "root", Role: entity.RoleAdmin}
	_, err := f.svc.UpdateStatus(context.Background(), "nope", entity.OrderProcessing, admin)
	require.ErrorIs(t, err, entity.ErrOrderNotFound)
}

func TestGetByIDAuthorization(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 2000, 50, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	_, err := f.svc.GetByID(context.Background(), o.ID, entity.Caller{ID: "u2", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	got, err := f.svc.GetByID(context.Background(), o.ID, entity.Caller{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	got, err = f.svc.GetByID(context.Background(), o.ID, entity.Caller{ID: "someone", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = f.svc.GetByID(context.Background(), "missing", entity.Caller{ID: "u1", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, entity.ErrOrderNotFound)
}

func TestListForCallerScopesByRole(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 100, true)
	createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})
	createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 1})
	createOrder(t, f, "u2", usecase.OrderLine{ProductID: "p1", Quantity: 1})

	mine, err := f.svc.ListForCaller(context.Background(), entity.Caller{ID: "u1", Role: entity.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.ListForCaller(context.Background(), entity.Caller{ID: "root", Role: entity.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHardDeleteLeavesStockAlone(t *testing.T) {
	f := newOrdersFixture(t)
	seedProduct(f.store, "p1", 1000, 10, true)
	o := createOrder(t, f, "u1", usecase.OrderLine{ProductID: "p1", Quantity: 3})

	err := f.svc.Delete(context.Background(), o.ID, entity.Caller{ID: "u1", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, entity.ErrNotAuthorized)

	require.NoError(t, f.svc.Delete(context.Background(), o.ID, entity.Caller{ID: "root", Role: entity.RoleAdmin}))
	assert.Equal(t, 7, f.store.ProductStock("p1"), "hard delete must not release stock")

	_, err = f.svc.GetByID(context.Background(), o.ID, entity.Caller{ID: "root", Role: entity.RoleAdmin})
	require.ErrorIs(t, err, entity.ErrOrderNotFound)
}
