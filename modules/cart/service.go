// Package cart provides the dual-mode shopping cart: a server-side cart for
// signed-in users, a session cart for guests, and the merge between them.
package cart

import (
	"context"
	"errors"
	"log"

	"github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/domain/product"
)

var (
	// ErrNoOwner is returned when a request has neither a user nor a guest session.
	ErrNoOwner = errors.New("cart requires a signed-in user or a guest session")
	// ErrGuestCartUnavailable is returned for guests when no guest store is configured.
	ErrGuestCartUnavailable = errors.New("guest carts are unavailable")
)

// Owner identifies whose cart a request operates on. A non-empty UserID
// selects the server-side cart; otherwise SessionID selects the guest cart.
type Owner struct {
	UserID    string
	SessionID string
}

// Authenticated reports whether the owner is a signed-in user.
func (o Owner) Authenticated() bool {
	return o.UserID != ""
}

// ProductLookup loads product data to hydrate cart items.
type ProductLookup interface {
	GetProducts(ctx context.Context, ids []string) ([]product.Product, error)
}

// Service runs cart operations against one owner's Store. Every mutation
// returns the refetched cart.
type Service struct {
	store    Store
	products ProductLookup
}

// NewService creates a cart service over the store.
func NewService(store Store, products ProductLookup) *Service {
	return &Service{store: store, products: products}
}

// Get returns the hydrated cart.
func (s *Service) Get(ctx context.Context) (cart.Cart, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return cart.Cart{}, err
	}
	return cart.NewCart(s.hydrate(ctx, items)), nil
}

// Add puts qty units of the product in the cart, incrementing an existing line.
// There is no stock upper bound.
func (s *Service) Add(ctx context.Context, productID string, qty int) (cart.Cart, error) {
	if qty < 1 {
		return cart.Cart{}, cart.ErrInvalidQuantity
	}
	if err := s.store.Add(ctx, productID, qty); err != nil {
		return cart.Cart{}, err
	}
	return s.Get(ctx)
}

// UpdateQuantity sets a line's quantity. A quantity below one removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, itemID string, qty int) (cart.Cart, error) {
	if qty < 1 {
		return s.Remove(ctx, itemID)
	}
	if err := s.store.SetQuantity(ctx, itemID, qty); err != nil {
		return cart.Cart{}, err
	}
	return s.Get(ctx)
}

// Remove deletes a line.
func (s *Service) Remove(ctx context.Context, itemID string) (cart.Cart, error) {
	if err := s.store.Remove(ctx, itemID); err != nil {
		return cart.Cart{}, err
	}
	return s.Get(ctx)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) (cart.Cart, error) {
	if err := s.store.Clear(ctx); err != nil {
		return cart.Cart{}, err
	}
	return s.Get(ctx)
}

// hydrate attaches product data. A lookup failure is logged and the items are
// returned without products, so they count but add nothing to the subtotal.
func (s *Service) hydrate(ctx context.Context, items []cart.Item) []cart.Item {
	if len(items) == 0 || s.products == nil {
		return items
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		log.Printf("[cart] Warning: failed to load products for cart: %v", err)
		return items
	}

	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		items[i].Product = byID[items[i].ProductID]
	}
	return items
}

// ReconcileResult reports a guest-cart merge.
type ReconcileResult struct {
	Success bool `json:"success"`
	Merged  int  `json:"merged"`
	Failed  int  `json:"failed"`
}

// Reconcile merges guest lines into the signed-in user's cart with add
// semantics. Entries are applied independently and a failing entry is logged
// and skipped. A retried merge adds the quantities again. The guest cart is
// cleared afterwards whatever the per-entry outcome.
func Reconcile(ctx context.Context, remote Store, guest Store, lines []cart.Line) ReconcileResult {
	if remote == nil || len(lines) == 0 {
		return ReconcileResult{Success: false}
	}

	var res ReconcileResult
	for _, line := range lines {
		if err := remote.Add(ctx, line.ProductID, line.Quantity); err != nil {
			log.Printf("[cart] Warning: failed to merge product %s: %v", line.ProductID, err)
			res.Failed++
			continue
		}
		res.Merged++
	}

	if guest != nil {
		if err := guest.Clear(ctx); err != nil {
			log.Printf("[cart] Warning: failed to clear guest cart after merge: %v", err)
		}
	}

	res.Success = true
	return res
}
