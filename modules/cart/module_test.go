package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/WaqasAhmed27/namak-halal/domain/cart"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestModule(t *testing.T, docs DocumentStore) *Module {
	t.Helper()
	ctx := context.Background()

	db := database.NewPluginModule(database.Config{Path: ":memory:"})
	require.NoError(t, db.Start(ctx))
	t.Cleanup(func() { db.Stop(ctx) })

	m := NewModule(0)
	m.SetPlugin("database", db)
	m.catalog = catalogOf(lampP1, lampP2)
	require.NoError(t, m.Start(ctx))
	m.guestDocs = docs
	return m
}

func TestModule_StartRequirements(t *testing.T) {
	ctx := context.Background()

	m := NewModule(0)
	assert.Error(t, m.Start(ctx), "missing database")
	assert.Equal(t, DefaultGuestTTL, m.guestTTL)

	db := database.NewPluginModule(database.Config{Path: ":memory:"})
	require.NoError(t, db.Start(ctx))
	defer db.Stop(ctx)
	m.SetPlugin("database", db)
	assert.Error(t, m.Start(ctx), "missing catalog dependency")
}

func TestModule_For(t *testing.T) {
	tests := []struct {
		name    string
		docs    DocumentStore
		owner   Owner
		wantErr error
	}{
		{"signed-in user", nil, Owner{UserID: "user_1"}, nil},
		{"signed-in user ignores session", nil, Owner{UserID: "user_1", SessionID: "s"}, nil},
		{"guest with session", newMemoryDocs(), Owner{SessionID: "s"}, nil},
		{"guest without cache", nil, Owner{SessionID: "s"}, ErrGuestCartUnavailable},
		{"nobody", newMemoryDocs(), Owner{}, ErrNoOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := startTestModule(t, tt.docs)
			svc, err := m.For(tt.owner)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "For() error = %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			c, err := svc.Add(context.Background(), "P1", 1)
			require.NoError(t, err)
			assert.Equal(t, 1, c.ItemCount)
		})
	}
}

func TestModule_ReconcileAfterSignIn(t *testing.T) {
	ctx := context.Background()
	docs := newMemoryDocs()
	m := startTestModule(t, docs)

	guest, err := m.For(Owner{SessionID: "sess-42"})
	require.NoError(t, err)
	_, err = guest.Add(ctx, "P1", 2)
	require.NoError(t, err)

	owner := Owner{UserID: "user_1", SessionID: "sess-42"}
	res := m.Reconcile(ctx, owner, []domain.Line{{ProductID: "P1", Quantity: 2}})
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Merged)

	signedIn, err := m.For(owner)
	require.NoError(t, err)
	c, err := signedIn.Get(ctx)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "P1", c.Items[0].ProductID)
	assert.Equal(t, 2, c.Items[0].Quantity)

	c, err = guest.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items, "guest cart is emptied after the merge")
}

func TestModule_ReconcileAnonymous(t *testing.T) {
	m := startTestModule(t, newMemoryDocs())

	res := m.Reconcile(context.Background(), Owner{SessionID: "s"}, []domain.Line{{ProductID: "P1", Quantity: 1}})
	assert.False(t, res.Success)
}

func TestModule_ClearCartHandlers(t *testing.T) {
	ctx := context.Background()
	m := startTestModule(t, nil)

	svc, err := m.For(Owner{UserID: "user_1"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "P2", 3)
	require.NoError(t, err)

	resp, err := m.clearCart(ctx, ClearCartRequest{UserID: "user_1"}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Cleared)

	c, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = m.clearCart(ctx, ClearCartRequest{}, nil)
	assert.ErrorIs(t, err, ErrNoOwner)

	_, err = svc.Add(ctx, "P1", 1)
	require.NoError(t, err)
	require.NoError(t, m.handleProfileDeleted(ctx, events.ProfileDeletedEvent{UserID: "user_1", DeletedAt: time.Now()}, nil))
	c, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}
