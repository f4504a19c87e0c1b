package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort resolves a bearer token to the caller's identity.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*user.Identity, error)
}

// AuthAdapter calls the auth module's validate-token service.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter wraps the auth module's service container.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// ValidateToken validates a session token and returns the caller's identity.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*user.Identity, error) {
	var resp ValidateTokenResponse
	err := helper.CallRequestReplyService(
		ctx, a.container, "validate-token",
		json.Marshal, json.Unmarshal,
		&ValidateTokenRequest{Token: token}, &resp,
	)
	if err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}
	if !resp.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, resp.Error)
	}

	return &user.Identity{
		UserID: resp.UserID,
		Email:  resp.Email,
		Role:   resp.Role,
	}, nil
}
