package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/legolas182/NatureGlow/internal/entity"
	"github.com/legolas182/NatureGlow/internal/logging"
)

var ErrDuplicateRequest = errors.New("duplicate idempotency key")

// cancelWindow is how long a non-admin owner may cancel after creation.
const cancelWindow = 24 * time.Hour

type CreateOrderInput struct {
	UserID          string
	IdempotencyKey  string
	Items           []OrderLine
	ShippingAddress string
	ShippingCity    string
	ShippingZip     string
	ShippingCountry string
	PaymentMethod   string
}

type OrderLine struct {
	ProductID string
	Quantity  int
}

// Orders is the order workflow engine. Every mutation runs inside one
// unit of work: the stock ledger and the order rows commit or roll back
// together.
type Orders struct {
	uow    UnitOfWork
	orders OrderRepo
	idem   IdempotencyStore
	events OrderEvents
	now    func() time.Time
}

func NewOrders(uow UnitOfWork, orders OrderRepo, idem IdempotencyStore, events OrderEvents) *Orders {
	return &Orders{uow: uow, orders: orders, idem: idem, events: events, now: time.Now}
}

func (s *Orders) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: no items", entity.ErrProductUnavailable)
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive: %w", entity.ErrInsufficientStock)
		}
	}

	if in.IdempotencyKey != "" {
		// Fast path: a replayed request returns the order it created.
		if id, ok, _ := s.idem.Lookup(ctx, in.UserID, in.IdempotencyKey); ok {
			return s.orders.GetByID(ctx, id)
		}
		ok, err := s.idem.Reserve(ctx, in.UserID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrDuplicateRequest
		}
	}

	now := s.now()
	order := &entity.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Status:          entity.OrderPending,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   entity.PaymentUnpaid,
		ShippingAddress: in.ShippingAddress,
		ShippingCity:    in.ShippingCity,
		ShippingZip:     in.ShippingZip,
		ShippingCountry: in.ShippingCountry,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.uow.Within(ctx, func(ctx context.Context, st Store) error {
		// Every line must point at a live product before anything is written.
		products := make([]*entity.Product, len(in.Items))
		for i, line := range in.Items {
			p, err := st.Products().GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, entity.ErrProductNotFound) {
					return fmt.Errorf("%w: %s", entity.ErrProductUnavailable, line.ProductID)
				}
				return err
			}
			if !p.Active {
				return fmt.Errorf("%w: %s", entity.ErrProductUnavailable, p.ID)
			}
			products[i] = p
		}

		var total int64
		for i, line := range in.Items {
			p := products[i]
			if err := st.Products().Reserve(ctx, p.ID, line.Quantity); err != nil {
				if errors.Is(err, entity.ErrInsufficientStock) {
					reservationFailures.Inc()
				}
				return err
			}
			sub := p.PriceCents * int64(line.Quantity)
			order.Items = append(order.Items, entity.OrderItem{
				OrderID:        order.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				UnitPriceCents: p.PriceCents,
				Quantity:       line.Quantity,
				SubtotalCents:  sub,
			})
			total += sub
		}
		order.TotalCents = total

		return st.Orders().Create(ctx, order)
	})
	if err != nil {
		// A failed transaction frees the key: the caller may resubmit.
		if in.IdempotencyKey != "" {
			if rerr := s.idem.Release(ctx, in.UserID, in.IdempotencyKey); rerr != nil {
				logging.FromCtx(ctx).Error("release idempotency key",
					"user_id", in.UserID, "err", rerr)
			}
		}
		return nil, err
	}

	if in.IdempotencyKey != "" {
		_ = s.idem.Bind(ctx, in.UserID, in.IdempotencyKey, order.ID)
	}
	if err := s.events.OrderCreated(ctx, order); err != nil {
		logging.FromCtx(ctx).Error("publish order.created", "order_id", order.ID, "err", err)
	}
	ordersCreated.Inc()
	return order, nil
}

// Cancel releases every line item's stock and marks the order cancelled,
// in one transaction. Owners may cancel within the 24h window; admins
// whenever, as long as the order is not terminal.
func (s *Orders) Cancel(ctx context.Context, orderID string, caller entity.Caller) error {
	var cancelled *entity.Order
	err := s.uow.Within(ctx, func(ctx context.Context, st Store) error {
		o, err := st.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !entity.CanAccessOrder(caller, o) {
			return entity.ErrNotAuthorized
		}
		if !caller.IsAdmin() && s.now().Sub(o.CreatedAt) > cancelWindow {
			return entity.ErrCancelWindowExpired
		}
		if o.Status == entity.OrderCompleted {
			return entity.ErrOrderAlreadyCompleted
		}
		if o.Status == entity.OrderCancelled {
			return entity.ErrOrderAlreadyCancelled
		}

		for _, item := range o.Items {
			if err := st.Products().Release(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := st.Orders().UpdateStatus(ctx, o.ID, entity.OrderCancelled); err != nil {
			return err
		}
		o.Status = entity.OrderCancelled
		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.events.OrderCancelled(ctx, cancelled); err != nil {
		logging.FromCtx(ctx).Error("publish order.cancelled", "order_id", orderID, "err", err)
	}
	ordersCancelled.Inc()
	return nil
}

// UpdateStatus is admin-only. The target must be one of the known
// statuses; an admin may force any of them, the transition table binds
// everyone else.
func (s *Orders) UpdateStatus(ctx context.Context, orderID string, target entity.OrderStatus, caller entity.Caller) (*entity.Order, error) {
	if !caller.IsAdmin() {
		return nil, entity.ErrNotAuthorized
	}
	if !target.Valid() {
		return nil, entity.ErrInvalidStatus
	}

	var updated *entity.Order
	var from entity.OrderStatus
	err := s.uow.Within(ctx, func(ctx context.Context, st Store) error {
		o, err := st.Orders().GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		// Admins may force any valid target, including out of a terminal
		// state; ordinary transitions stay confined to the table.
		if !caller.IsAdmin() && !o.Status.CanTransitionTo(target) {
			return entity.ErrInvalidStatus
		}
		from = o.Status
		if err := st.Orders().UpdateStatus(ctx, o.ID, target); err != nil {
			return err
		}
		o.Status = target
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.events.OrderStatusChanged(ctx, updated, from); err != nil {
		logging.FromCtx(ctx).Error("publish order.status_changed", "order_id", orderID, "err", err)
	}
	return updated, nil
}

// GetByID is an authorization-filtered read: absent → not found first,
// then owner-or-admin.
func (s *Orders) GetByID(ctx context.Context, orderID string, caller entity.Caller) (*entity.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !entity.CanAccessOrder(caller, o) {
		return nil, entity.ErrNotAuthorized
	}
	return o, nil
}

func (s *Orders) ListForCaller(ctx context.Context, caller entity.Caller) ([]*entity.Order, error) {
	if caller.IsAdmin() {
		return s.orders.ListAll(ctx)
	}
	return s.orders.ListByUser(ctx, caller.ID)
}

// Delete is the admin hard delete. It removes the rows and deliberately
// does not touch stock; cancellation is the operation that releases it.
func (s *Orders) Delete(ctx context.Context, orderID string, caller entity.Caller) error {
	if !caller.IsAdmin() {
		return entity.ErrNotAuthorized
	}
	return s.uow.Within(ctx, func(ctx context.Context, st Store) error {
		if _, err := st.Orders().GetByID(ctx, orderID); err != nil {
			return err
		}
		return st.Orders().Delete(ctx, orderID)
	})
}
