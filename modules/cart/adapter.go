package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ClearCartRequest asks the cart module to empty a user's server-side cart.
type ClearCartRequest struct {
	UserID string `json:"user_id"`
}

// ClearCartResponse reports a cleared cart.
type ClearCartResponse struct {
	Cleared bool `json:"cleared"`
}

// CartPort is the cart API other modules depend on.
type CartPort interface {
	ClearCart(ctx context.Context, userID string) error
}

// cartAdapter wraps ServiceContainer for type-safe cross-module communication.
type cartAdapter struct {
	container mono.ServiceContainer
}

// NewCartAdapter creates a new adapter for cart services.
func NewCartAdapter(container mono.ServiceContainer) CartPort {
	if container == nil {
		panic("cart adapter requires non-nil ServiceContainer")
	}
	return &cartAdapter{container: container}
}

// ClearCart empties the user's cart via the clear-cart service.
func (a *cartAdapter) ClearCart(ctx context.Context, userID string) error {
	req := ClearCartRequest{UserID: userID}
	var resp ClearCartResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"clear-cart",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("clear-cart service call failed: %w", err)
	}
	if !resp.Cleared {
		return fmt.Errorf("cart not cleared for user %s", userID)
	}
	return nil
}
