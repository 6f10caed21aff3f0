package services

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

// OrderService serves order history and the admin status workflow.
type OrderService struct {
	orders repositories.OrderRepository
	users  repositories.UserRepository
	bus    *event.Bus
}

// NewOrderService wires the service. bus may be nil.
func NewOrderService(orders repositories.OrderRepository, users repositories.UserRepository, bus *event.Bus) *OrderService {
	return &OrderService{orders: orders, users: users, bus: bus}
}

// withBuyers expands each order's buyer id into {_id, name}.
func (s *OrderService) withBuyers(ctx context.Context, orders []models.Order) ([]models.OrderView, error) {
	ids := make([]string, 0, len(orders))
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		if !seen[o.Buyer] {
			seen[o.Buyer] = true
			ids = append(ids, o.Buyer)
		}
	}
	names, err := s.users.Names(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.OrderView, len(orders))
	for i, o := range orders {
		views[i] = models.OrderView{Order: o, Buyer: models.BuyerRef{ID: o.Buyer, Name: names[o.Buyer]}}
	}
	return views, nil
}

// ByBuyer returns the orders placed by buyerID, newest first.
func (s *OrderService) ByBuyer(ctx context.Context, buyerID string) ([]models.OrderView, error) {
	orders, err := s.orders.ByBuyer(ctx, buyerID)
	if err != nil {
		return nil, internal("Error while getting orders", err)
	}
	views, err := s.withBuyers(ctx, orders)
	if err != nil {
		return nil, internal("Error while getting orders", err)
	}
	return views, nil
}

// All returns every order, newest first.
func (s *OrderService) All(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, internal("Error while getting orders", err)
	}
	views, err := s.withBuyers(ctx, orders)
	if err != nil {
		return nil, internal("Error while getting orders", err)
	}
	return views, nil
}

// UpdateStatus sets an order's status. Any value in the status vocabulary
// is accepted from any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.OrderView, error) {
	if !models.ValidOrderStatus(status) {
		return nil, badRequest("Invalid order status")
	}
	o, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, internal("Error while updating order", err)
	}
	views, err := s.withBuyers(ctx, []models.Order{*o})
	if err != nil {
		return nil, internal("Error while updating order", err)
	}
	if s.bus != nil {
		s.bus.Dispatch(event.OrderStatusUpdated, views[0])
	}
	return &views[0], nil
}
