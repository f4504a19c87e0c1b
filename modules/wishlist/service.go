// Package wishlist serves the signed-in user's saved products.
package wishlist

import (
	"context"
	"errors"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	domain "github.com/WaqasAhmed27/namak-halal/domain/wishlist"
)

// ErrUnauthorized is returned when an anonymous caller uses the wishlist.
var ErrUnauthorized = errors.New("sign in to use the wishlist")

// Service scopes wishlist operations to the calling user.
type Service struct {
	repo *domain.Repository
}

// NewService creates a wishlist service.
func NewService(repo *domain.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the caller's saved products, newest first.
func (s *Service) List(ctx context.Context, id *user.Identity) ([]domain.Item, error) {
	if !id.Authenticated() {
		return nil, ErrUnauthorized
	}
	items, err := s.repo.List(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// Add saves the product. Saving it again is a no-op.
func (s *Service) Add(ctx context.Context, id *user.Identity, productID string) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	return s.repo.Add(ctx, id.UserID, productID)
}

// Remove drops the product. Dropping an unsaved product is a no-op.
func (s *Service) Remove(ctx context.Context, id *user.Identity, productID string) error {
	if !id.Authenticated() {
		return ErrUnauthorized
	}
	return s.repo.Remove(ctx, id.UserID, productID)
}

// Contains reports whether the product is saved. Anonymous callers have nothing saved.
func (s *Service) Contains(ctx context.Context, id *user.Identity, productID string) (bool, error) {
	if !id.Authenticated() {
		return false, nil
	}
	return s.repo.Contains(ctx, id.UserID, productID)
}

// Toggle flips the product's membership and reports whether it is now saved.
func (s *Service) Toggle(ctx context.Context, id *user.Identity, productID string) (bool, error) {
	if !id.Authenticated() {
		return false, ErrUnauthorized
	}
	if productID == "" {
		return false, domain.ErrProductRequired
	}
	return s.repo.Toggle(ctx, id.UserID, productID)
}
