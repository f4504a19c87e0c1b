// Package admin implements the back-office operations. Every operation
// re-checks the caller against user.IsAdmin.
package admin

import (
	"context"
	"errors"
	"log"

	"github.com/WaqasAhmed27/namak-halal/domain/money"
	"github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"golang.org/x/sync/errgroup"
)

// ErrForbidden is returned when the caller is not an administrator.
var ErrForbidden = errors.New("administrator access required")

// ProductAdmin is the catalog surface the back-office manages.
type ProductAdmin interface {
	ListAll(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	Create(ctx context.Context, req *product.CreateProductRequest) (*product.Product, error)
	Update(ctx context.Context, id string, req *product.UpdateProductRequest) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// OrderAdmin is the order surface the back-office manages.
type OrderAdmin interface {
	ListAll(ctx context.Context) ([]order.Order, error)
	UpdateStatus(ctx context.Context, actor *user.Identity, orderID, status string) (*order.Order, error)
	Stats(ctx context.Context) (order.Stats, error)
	Recent(ctx context.Context, limit int) ([]order.Order, error)
}

// CustomerDirectory lists mirrored profiles.
type CustomerDirectory interface {
	ListCustomers(ctx context.Context) ([]user.Customer, error)
	CountProfiles(ctx context.Context) (int64, error)
}

// Dashboard is the back-office landing summary.
type Dashboard struct {
	TotalProducts    int64         `json:"total_products"`
	TotalOrders      int64         `json:"total_orders"`
	TotalCustomers   int64         `json:"total_customers"`
	TotalRevenue     float64       `json:"total_revenue"`
	FormattedRevenue string        `json:"formatted_revenue"`
	PendingOrders    int64         `json:"pending_orders"`
	RecentOrders     []order.Order `json:"recent_orders"`
}

// Service runs back-office operations for an administrator.
type Service struct {
	products  ProductAdmin
	orders    OrderAdmin
	customers CustomerDirectory
}

// NewService creates the back-office service.
func NewService(products ProductAdmin, orders OrderAdmin, customers CustomerDirectory) *Service {
	return &Service{products: products, orders: orders, customers: customers}
}

func authorize(id *user.Identity) error {
	if !user.IsAdmin(id) {
		return ErrForbidden
	}
	return nil
}

// Dashboard loads the product count, the order aggregates and recent orders,
// and the customer count concurrently.
func (s *Service) Dashboard(ctx context.Context, id *user.Identity) (*Dashboard, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.products.Count(gctx)
		d.TotalProducts = n
		return err
	})

	g.Go(func() error {
		stats, err := s.orders.Stats(gctx)
		if err != nil {
			return err
		}
		recent, err := s.orders.Recent(gctx, 5)
		if err != nil {
			return err
		}
		d.TotalOrders = stats.OrderCount
		d.TotalRevenue = stats.Revenue
		d.PendingOrders = stats.PendingOrders
		d.RecentOrders = recent
		return nil
	})

	g.Go(func() error {
		n, err := s.customers.CountProfiles(gctx)
		d.TotalCustomers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if d.RecentOrders == nil {
		d.RecentOrders = []order.Order{}
	}
	d.FormattedRevenue = money.FormatPKR(d.TotalRevenue)
	return &d, nil
}

// ListProducts returns every product, active or not.
func (s *Service) ListProducts(ctx context.Context, id *user.Identity) ([]product.Product, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.products.ListAll(ctx)
}

// GetProduct returns one product, active or not.
func (s *Service) GetProduct(ctx context.Context, id *user.Identity, productID string) (*product.Product, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.products.Get(ctx, productID)
}

// CreateProduct adds a product.
func (s *Service) CreateProduct(ctx context.Context, id *user.Identity, req *product.CreateProductRequest) (*product.Product, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	p, err := s.products.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[admin] %s created product %s", id.UserID, p.Slug)
	return p, nil
}

// UpdateProduct applies a partial update.
func (s *Service) UpdateProduct(ctx context.Context, id *user.Identity, productID string, req *product.UpdateProductRequest) (*product.Product, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	p, err := s.products.Update(ctx, productID, req)
	if err != nil {
		return nil, err
	}
	log.Printf("[admin] %s updated product %s", id.UserID, p.Slug)
	return p, nil
}

// DeleteProduct removes a product. Past order items keep their snapshot.
func (s *Service) DeleteProduct(ctx context.Context, id *user.Identity, productID string) error {
	if err := authorize(id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, productID); err != nil {
		return err
	}
	log.Printf("[admin] %s deleted product %s", id.UserID, productID)
	return nil
}

// ListOrders returns every order with items, newest first.
func (s *Service) ListOrders(ctx context.Context, id *user.Identity) ([]order.Order, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.orders.ListAll(ctx)
}

// UpdateOrderStatus moves an order to another status.
func (s *Service) UpdateOrderStatus(ctx context.Context, id *user.Identity, orderID, status string) (*order.Order, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.orders.UpdateStatus(ctx, id, orderID, status)
}

// ListCustomers returns profiles with their order count and total spent.
func (s *Service) ListCustomers(ctx context.Context, id *user.Identity) ([]user.Customer, error) {
	if err := authorize(id); err != nil {
		return nil, err
	}
	return s.customers.ListCustomers(ctx)
}
