package order

import (
	"context"
	"log"
	"time"

	domain "github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/hooks"
)

// RecentLimit is how many orders the dashboard shows.
const RecentLimit = 5

// StatusPublisher announces an order status change.
type StatusPublisher func(event events.OrderStatusChangedEvent) error

// Service serves order history and status changes. Authorization is the
// caller's job: buyer reads are scoped by user ID here, admin checks happen
// in the admin module.
type Service struct {
	orders  *domain.Repository
	publish StatusPublisher
}

// NewService creates an order service. publish may be nil.
func NewService(orders *domain.Repository, publish StatusPublisher) *Service {
	return &Service{orders: orders, publish: publish}
}

// ListForUser returns the buyer's orders with items, newest first.
func (s *Service) ListForUser(ctx context.Context, buyer *user.Identity) ([]domain.Order, error) {
	if !buyer.Authenticated() {
		return nil, domain.ErrNotFound
	}
	orders, err := s.orders.ListByUser(ctx, buyer.UserID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// GetForUser returns one of the buyer's orders. Another user's order is ErrNotFound.
func (s *Service) GetForUser(ctx context.Context, buyer *user.Identity, orderID string) (*domain.Order, error) {
	if !buyer.Authenticated() {
		return nil, domain.ErrNotFound
	}
	return s.orders.FindForUser(ctx, buyer.UserID, orderID)
}

// ListAll returns every order with items, newest first.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// UpdateStatus moves the order to status. Any valid status is accepted from
// any other; an unknown value fails before any write.
func (s *Service) UpdateStatus(ctx context.Context, actor *user.Identity, orderID, status string) (*domain.Order, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, st); err != nil {
		return nil, err
	}
	log.Printf("[order] Order %s moved to %s", orderID, st)

	if s.publish != nil {
		evt := events.OrderStatusChangedEvent{
			OrderID:   orderID,
			Status:    string(st),
			ChangedAt: time.Now(),
		}
		if actor.Authenticated() {
			evt.ChangedBy = actor.UserID
		}
		hooks.RunBestEffort(ctx, "publish-status-changed", func(context.Context) error {
			return s.publish(evt)
		})
	}

	return s.orders.FindByID(ctx, orderID)
}

// Stats returns the revenue and order counts.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.orders.Stats(ctx)
}

// Recent returns the latest orders without items.
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	return s.orders.Recent(ctx, limit)
}
