package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// mockAuthPort implements auth.AuthPort for testing
type mockAuthPort struct {
	validateTokenFunc func(ctx context.Context, token string) (*user.Identity, error)
}

func (m *mockAuthPort) ValidateToken(ctx context.Context, token string) (*user.Identity, error) {
	if m.validateTokenFunc != nil {
		return m.validateTokenFunc(ctx, token)
	}
	return nil, errors.New("not implemented")
}

// tokenAuth accepts "customer-token" and "admin-token".
func tokenAuth() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(_ context.Context, token string) (*user.Identity, error) {
			switch token {
			case "customer-token":
				return &user.Identity{UserID: "user_1", Email: "user@example.com", Role: "customer"}, nil
			case "admin-token":
				return &user.Identity{UserID: "admin_1", Email: "admin@example.com", Role: user.RoleAdmin}, nil
			}
			return nil, errors.New("invalid token")
		},
	}
}

func whoAmI(c *fiber.Ctx) error {
	id := identityFrom(c)
	if id == nil {
		return c.SendString("anonymous")
	}
	return c.SendString(id.UserID)
}

func TestIdentityMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{"no header is anonymous", "", http.StatusOK, "anonymous"},
		{"non-bearer scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid authorization header format"},
		{"rejected token", "Bearer stale-token", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer customer-token", http.StatusOK, "user_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(IdentityMiddleware(tokenAuth()))
			app.Get("/whoami", whoAmI)

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), tt.expectedBody) {
				t.Errorf("body = %s, want it to contain %s", body, tt.expectedBody)
			}
		})
	}
}

func TestGateMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
		expectedHeader string
	}{
		{"public api passes", "/api/v1/products", "", http.StatusOK, ""},
		{"account api needs sign-in", "/api/v1/account/orders", "", http.StatusUnauthorized, ""},
		{"admin api forbids customers", "/api/v1/admin/stats", "customer-token", http.StatusForbidden, ""},
		{"admin api allows admins", "/api/v1/admin/stats", "admin-token", http.StatusOK, ""},
		{"admin page redirects to sign-in", "/admin/orders", "", http.StatusFound, "/sign-in?redirect_url=%2Fadmin%2Forders"},
		{"admin page sends customers home", "/admin", "customer-token", http.StatusFound, "/"},
		{"upper-case account api needs sign-in", "/API/v1/account/orders", "", http.StatusUnauthorized, ""},
		{"upper-case admin api forbids customers", "/api/V1/ADMIN/stats", "customer-token", http.StatusForbidden, ""},
		{"account page redirects to sign-in", "/account", "", http.StatusFound, "/sign-in?redirect_url=%2Faccount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(IdentityMiddleware(tokenAuth()))
			app.Use(GateMiddleware())
			app.Get("/*", whoAmI)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.expectedStatus)
			}
			if tt.expectedHeader != "" {
				if got := resp.Header.Get("Location"); got != tt.expectedHeader {
					t.Errorf("Location = %q, want %q", got, tt.expectedHeader)
				}
			}
		})
	}
}

func TestGuestSessionMiddleware(t *testing.T) {
	existing := uuid.NewString()

	tests := []struct {
		name      string
		header    string
		cookie    string
		wantSame  string
		wantFresh bool
	}{
		{"no session mints one", "", "", "", true},
		{"header session is kept", existing, "", existing, false},
		{"cookie session is kept", "", existing, existing, false},
		{"malformed session is replaced", "../../etc", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(GuestSessionMiddleware(time.Hour))
			app.Get("/cart", func(c *fiber.Ctx) error {
				return c.SendString(sessionFrom(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			got := string(body)

			if got != resp.Header.Get(SessionHeader) {
				t.Errorf("session %q not echoed in %s header (%q)", got, SessionHeader, resp.Header.Get(SessionHeader))
			}
			if tt.wantSame != "" && got != tt.wantSame {
				t.Errorf("session = %q, want %q", got, tt.wantSame)
			}
			if tt.wantFresh {
				if _, err := uuid.Parse(got); err != nil || got == tt.header {
					t.Errorf("session = %q, want a freshly minted UUID", got)
				}
			}
		})
	}
}
