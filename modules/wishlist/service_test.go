package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/WaqasAhmed27/namak-halal/domain/product"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	domain "github.com/WaqasAhmed27/namak-halal/domain/wishlist"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/WaqasAhmed27/namak-halal/modules/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestModule(t *testing.T) (*Module, []product.Product) {
	t.Helper()
	ctx := context.Background()

	db := database.NewPluginModule(database.Config{Path: ":memory:"})
	require.NoError(t, db.Start(ctx))
	t.Cleanup(func() { db.Stop(ctx) })

	products := product.NewRepository(db.DB())
	var created []product.Product
	for _, name := range []string{"Pyramid Salt Lamp", "Salt Sphere"} {
		p := product.Product{Name: name, Slug: product.Slugify(name), Price: 3000, IsActive: true}
		require.NoError(t, products.Create(ctx, &p))
		created = append(created, p)
	}

	m := NewModule()
	m.SetPlugin("database", db)
	require.NoError(t, m.Start(ctx))
	return m, created
}

func TestService_AddAndRemoveAreIdempotent(t *testing.T) {
	m, products := startTestModule(t)
	svc := m.GetService()
	ctx := context.Background()
	me := &user.Identity{UserID: "user_1"}
	pid := products[0].ID

	require.NoError(t, svc.Add(ctx, me, pid))
	require.NoError(t, svc.Add(ctx, me, pid))

	items, err := svc.List(ctx, me)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Pyramid Salt Lamp", items[0].Product.Name)

	require.NoError(t, svc.Remove(ctx, me, pid))
	require.NoError(t, svc.Remove(ctx, me, pid))

	ok, err := svc.Contains(ctx, me, pid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Toggle(t *testing.T) {
	m, products := startTestModule(t)
	svc := m.GetService()
	ctx := context.Background()
	me := &user.Identity{UserID: "user_1"}

	added, err := svc.Toggle(ctx, me, products[1].ID)
	require.NoError(t, err)
	assert.True(t, added)

	ok, err := svc.Contains(ctx, me, products[1].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	added, err = svc.Toggle(ctx, me, products[1].ID)
	require.NoError(t, err)
	assert.False(t, added)

	items, err := svc.List(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)

	_, err = svc.Toggle(ctx, me, "")
	assert.ErrorIs(t, err, domain.ErrProductRequired)
}

func TestService_ScopedToCaller(t *testing.T) {
	m, products := startTestModule(t)
	svc := m.GetService()
	ctx := context.Background()
	alice := &user.Identity{UserID: "alice"}
	bob := &user.Identity{UserID: "bob"}

	require.NoError(t, svc.Add(ctx, alice, products[0].ID))
	require.NoError(t, svc.Add(ctx, alice, products[1].ID))
	require.NoError(t, svc.Remove(ctx, bob, products[0].ID))

	items, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_AnonymousCaller(t *testing.T) {
	m, products := startTestModule(t)
	svc := m.GetService()
	ctx := context.Background()

	_, err := svc.List(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, svc.Add(ctx, nil, products[0].ID), ErrUnauthorized)
	assert.ErrorIs(t, svc.Remove(ctx, &user.Identity{}, products[0].ID), ErrUnauthorized)
	_, err = svc.Toggle(ctx, nil, products[0].ID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	ok, err := svc.Contains(ctx, nil, products[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModule_ProfileDeletedClearsWishlist(t *testing.T) {
	m, products := startTestModule(t)
	ctx := context.Background()
	me := &user.Identity{UserID: "user_1"}
	other := &user.Identity{UserID: "user_2"}

	require.NoError(t, m.GetService().Add(ctx, me, products[0].ID))
	require.NoError(t, m.GetService().Add(ctx, other, products[0].ID))

	err := m.handleProfileDeleted(ctx, events.ProfileDeletedEvent{UserID: "user_1", DeletedAt: time.Now()}, nil)
	require.NoError(t, err)

	items, err := m.GetService().List(ctx, me)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = m.GetService().List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestModule_StartRequiresDatabase(t *testing.T) {
	if err := NewModule().Start(context.Background()); err == nil {
		t.Error("Start() without database plugin should fail")
	}
}
