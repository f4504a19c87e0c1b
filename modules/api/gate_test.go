package api

import (
	"testing"

	"github.com/WaqasAhmed27/namak-halal/domain/user"
)

func TestClassify(t *testing.T) {
	customer := &user.Identity{UserID: "user_1", Role: "customer"}
	admin := &user.Identity{UserID: "admin_1", Role: user.RoleAdmin}

	tests := []struct {
		name         string
		uri          string
		id           *user.Identity
		wantOutcome  Outcome
		wantLocation string
	}{
		{"home is public", "/", nil, Pass, ""},
		{"checkout is public", "/checkout", nil, Pass, ""},
		{"catalog api is public", "/api/v1/products?shape=pyramid", nil, Pass, ""},
		{"administrator is not admin", "/administrator", nil, Pass, ""},
		{"account without session", "/account", nil, NeedSignIn, "/sign-in?redirect_url=%2Faccount"},
		{"account subpage keeps query", "/account/orders?page=2", nil, NeedSignIn, "/sign-in?redirect_url=%2Faccount%2Forders%3Fpage%3D2"},
		{"account api without session", "/api/v1/account/wishlist", nil, NeedSignIn, "/sign-in?redirect_url=%2Fapi%2Fv1%2Faccount%2Fwishlist"},
		{"account with session", "/account/orders", customer, Pass, ""},
		{"admin without session", "/admin", nil, NeedSignIn, "/sign-in?redirect_url=%2Fadmin"},
		{"admin as customer", "/admin/products", customer, NotAdmin, "/"},
		{"admin api as customer", "/api/v1/admin/stats", customer, NotAdmin, "/"},
		{"admin as admin", "/admin/orders", admin, Pass, ""},
		{"admin api as admin", "/api/v1/admin/orders/o1/status", admin, Pass, ""},
		{"account as admin", "/account", admin, Pass, ""},
		{"account api in upper case", "/API/V1/Account/orders", nil, NeedSignIn, "/sign-in?redirect_url=%2FAPI%2FV1%2FAccount%2Forders"},
		{"admin page in mixed case", "/Admin/products", customer, NotAdmin, "/"},
		{"empty user id is anonymous", "/account", &user.Identity{}, NeedSignIn, "/sign-in?redirect_url=%2Faccount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.uri, tt.id)
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Classify(%q).Outcome = %v, want %v", tt.uri, got.Outcome, tt.wantOutcome)
			}
			if got.Location != tt.wantLocation {
				t.Errorf("Classify(%q).Location = %q, want %q", tt.uri, got.Location, tt.wantLocation)
			}
		})
	}
}

func TestIsAPIPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/v1/cart", true},
		{"/api", true},
		{"/apiary", false},
		{"/API/v1/cart", true},
		{"/admin", false},
	}
	for _, tt := range tests {
		if got := isAPIPath(tt.path); got != tt.want {
			t.Errorf("isAPIPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
