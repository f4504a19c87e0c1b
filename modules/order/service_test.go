package order

import (
	"context"
	"testing"

	domain "github.com/WaqasAhmed27/namak-halal/domain/order"
	"github.com/WaqasAhmed27/namak-halal/domain/user"
	"github.com/WaqasAhmed27/namak-halal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_BuyerHistoryIsScoped(t *testing.T) {
	w := newTestWriter(t)
	ctx := context.Background()
	svc := NewService(domain.NewRepository(w.db), nil)
	alice := &user.Identity{UserID: "alice"}
	bob := &user.Identity{UserID: "bob"}

	first, err := w.Place(ctx, alice, checkoutRequest(pyramidLine))
	require.NoError(t, err)
	second, err := w.Place(ctx, alice, checkoutRequest(usbLine))
	require.NoError(t, err)
	_, err = w.Place(ctx, nil, checkoutRequest(usbLine))
	require.NoError(t, err)

	orders, err := svc.ListForUser(ctx, alice)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	ids := []string{orders[0].ID, orders[1].ID}
	assert.ElementsMatch(t, []string{first.OrderID, second.OrderID}, ids)
	assert.NotEmpty(t, orders[0].Items)

	orders, err = svc.ListForUser(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, orders)

	got, err := svc.GetForUser(ctx, alice, first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, got.OrderNumber)

	_, err = svc.GetForUser(ctx, bob, first.OrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetForUser(ctx, nil, first.OrderID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestService_UpdateStatus(t *testing.T) {
	w := newTestWriter(t)
	ctx := context.Background()
	var published []events.OrderStatusChangedEvent
	svc := NewService(domain.NewRepository(w.db), func(evt events.OrderStatusChangedEvent) error {
		published = append(published, evt)
		return nil
	})
	admin := &user.Identity{UserID: "admin_1", Role: user.RoleAdmin}

	placed, err := w.Place(ctx, nil, checkoutRequest(pyramidLine))
	require.NoError(t, err)

	t.Run("any valid status from any other", func(t *testing.T) {
		for _, status := range []string{"delivered", "pending", "cancelled", "shipped"} {
			o, err := svc.UpdateStatus(ctx, admin, placed.OrderID, status)
			require.NoError(t, err)
			assert.Equal(t, domain.Status(status), o.Status)
		}
		require.Len(t, published, 4)
		assert.Equal(t, "admin_1", published[3].ChangedBy)
		assert.Equal(t, "shipped", published[3].Status)
	})

	t.Run("invalid status fails before write", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, placed.OrderID, "lost")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)

		o, err := domain.NewRepository(w.db).FindByID(ctx, placed.OrderID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusShipped, o.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, admin, "missing", "confirmed")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_StatsAndRecent(t *testing.T) {
	w := newTestWriter(t)
	ctx := context.Background()
	svc := NewService(domain.NewRepository(w.db), nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	for range 6 {
		_, err := w.Place(ctx, nil, checkoutRequest(pyramidLine))
		require.NoError(t, err)
	}
	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, recent, RecentLimit)

	_, err = svc.UpdateStatus(ctx, nil, recent[0].ID, "confirmed")
	require.NoError(t, err)

	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.OrderCount)
	assert.Equal(t, int64(5), stats.PendingOrders)
	assert.Equal(t, 6*4800.0, stats.Revenue)
}
