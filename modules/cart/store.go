package cart

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/google/uuid"
)

// Store persists one owner's cart items. Every method is already scoped to
// the owner the store was built for.
type Store interface {
	List(ctx context.Context) ([]cart.Item, error)
	Add(ctx context.Context, productID string, qty int) error
	SetQuantity(ctx context.Context, itemID string, qty int) error
	Remove(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

// RemoteStore keeps a signed-in user's cart in the cart_items table.
type RemoteStore struct {
	repo   *cart.Repository
	userID string
}

// NewRemoteStore creates a store for the user's server-side cart.
func NewRemoteStore(repo *cart.Repository, userID string) *RemoteStore {
	return &RemoteStore{repo: repo, userID: userID}
}

// List returns the user's items, newest first.
func (s *RemoteStore) List(ctx context.Context) ([]cart.Item, error) {
	return s.repo.ListByUser(ctx, s.userID)
}

// Add upserts the product, incrementing an existing row atomically.
func (s *RemoteStore) Add(ctx context.Context, productID string, qty int) error {
	return s.repo.Add(ctx, s.userID, productID, qty)
}

// SetQuantity overwrites one of the user's items.
func (s *RemoteStore) SetQuantity(ctx context.Context, itemID string, qty int) error {
	return s.repo.SetQuantity(ctx, s.userID, itemID, qty)
}

// Remove deletes one of the user's items.
func (s *RemoteStore) Remove(ctx context.Context, itemID string) error {
	return s.repo.Remove(ctx, s.userID, itemID)
}

// Clear empties the user's cart.
func (s *RemoteStore) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx, s.userID)
}

// DocumentStore is the subset of the cache service the guest cart needs.
type DocumentStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps a guest's cart as one JSON document per session.
// Each write refreshes the document's TTL.
type LocalStore struct {
	docs      DocumentStore
	sessionID string
	ttl       time.Duration
}

// NewLocalStore creates a store for the guest session's cart.
func NewLocalStore(docs DocumentStore, sessionID string, ttl time.Duration) *LocalStore {
	return &LocalStore{docs: docs, sessionID: sessionID, ttl: ttl}
}

func (s *LocalStore) key() string {
	return "guest:" + s.sessionID
}

// List returns the guest's items, newest first.
func (s *LocalStore) List(ctx context.Context) ([]cart.Item, error) {
	var items []cart.Item
	if _, err := s.docs.Get(ctx, s.key(), &items); err != nil {
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}
	if items == nil {
		items = []cart.Item{}
	}
	return items, nil
}

// Add increments the product's line or prepends a new one.
func (s *LocalStore) Add(ctx context.Context, productID string, qty int) error {
	if qty < 1 {
		return cart.ErrInvalidQuantity
	}
	if productID == "" {
		return cart.ErrProductRequired
	}

	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if i := slices.IndexFunc(items, func(it cart.Item) bool { return it.ProductID == productID }); i >= 0 {
		items[i].Quantity += qty
		items[i].UpdatedAt = now
	} else {
		items = slices.Insert(items, 0, cart.Item{
			ID:        uuid.NewString(),
			ProductID: productID,
			Quantity:  qty,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return s.save(ctx, items)
}

// SetQuantity overwrites the quantity of one line.
func (s *LocalStore) SetQuantity(ctx context.Context, itemID string, qty int) error {
	if qty < 1 {
		return cart.ErrInvalidQuantity
	}

	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(items, func(it cart.Item) bool { return it.ID == itemID })
	if i < 0 {
		return cart.ErrItemNotFound
	}
	items[i].Quantity = qty
	items[i].UpdatedAt = time.Now()
	return s.save(ctx, items)
}

// Remove deletes one line. Removing an absent line is not an error.
func (s *LocalStore) Remove(ctx context.Context, itemID string) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(items, func(it cart.Item) bool { return it.ID == itemID })
	return s.save(ctx, kept)
}

// Clear deletes the guest's cart document.
func (s *LocalStore) Clear(ctx context.Context) error {
	if err := s.docs.Delete(ctx, s.key()); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	return nil
}

func (s *LocalStore) save(ctx context.Context, items []cart.Item) error {
	for i := range items {
		items[i].Product = nil
	}
	if err := s.docs.SetWithTTL(ctx, s.key(), items, s.ttl); err != nil {
		return fmt.Errorf("failed to save guest cart: %w", err)
	}
	return nil
}
