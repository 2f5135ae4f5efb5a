package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_CreateSession(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	id, err := f.cart.CreateSession(ctx)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	view, err := f.cart.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	requireMoney(t, "100", view.Totals.Total)
}

func TestCartService_AddItemPersists(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	id, err := f.cart.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.cart.AddItem(ctx, id, lineItem("p1", 1000))
	require.NoError(t, err)
	view, err := f.cart.AddItem(ctx, id, lineItem("p1", 1000))
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	reloaded, err := f.cart.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, view.Items, reloaded.Items)
	requireMoney(t, "2360", reloaded.Totals.Total)

	assert.Equal(t, []string{EventCartUpdated, EventCartUpdated}, f.notifier.types())
}

func TestCartService_AddItemValidation(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	_, err := f.cart.AddItem(ctx, "sess-1", checkout.LineItem{Name: "no id"})
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestCartService_AddItemAcceptsNegativePrice(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	view, err := f.cart.AddItem(ctx, "sess-1", lineItem("p1", -5))
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	requireMoney(t, "-5", view.Totals.Subtotal)
	requireMoney(t, "-0.9", view.Totals.Tax)
	requireMoney(t, "94.1", view.Totals.Total)
}

func TestCartService_UnknownSessionStartsEmpty(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	view, err := f.cart.AddItem(ctx, "purged-session", lineItem("p1", 300))
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	again, err := f.cart.GetCart(ctx, "purged-session")
	require.NoError(t, err)
	assert.Len(t, again.Items, 1)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, err := f.cart.AddItem(ctx, "sess-1", lineItem("p1", 100))
	require.NoError(t, err)

	view, err := f.cart.UpdateQuantity(ctx, "sess-1", "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Items[0].Quantity)

	for _, quantity := range []int{2, 0} {
		view, err = f.cart.UpdateQuantity(ctx, "sess-1", "missing", quantity)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, "p1", view.Items[0].ID)
		assert.Equal(t, 4, view.Items[0].Quantity)
	}

	view, err = f.cart.UpdateQuantity(ctx, "sess-1", "p1", 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, _ = f.cart.AddItem(ctx, "sess-1", lineItem("p1", 100))
	_, _ = f.cart.AddItem(ctx, "sess-1", lineItem("p2", 200))

	view, err := f.cart.RemoveItem(ctx, "sess-1", "p1")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = f.cart.RemoveItem(ctx, "sess-1", "p1")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	_, err = f.cart.ApplyCoupon(ctx, "sess-1", checkout.CodeSave10)
	require.NoError(t, err)

	view, err = f.cart.ClearCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, checkout.CodeSave10, view.AppliedCoupon)
}

func TestCartService_Coupons(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, _ = f.cart.AddItem(ctx, "sess-1", lineItem("p1", 300))

	view, err := f.cart.ApplyCoupon(ctx, "sess-1", checkout.CodeOff250)
	require.NoError(t, err)
	requireMoney(t, "204", view.Totals.Total)

	_, err = f.cart.ApplyCoupon(ctx, "sess-1", "NOPE")
	assert.ErrorIs(t, err, checkout.ErrCouponNotFound)

	view, err = f.cart.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.CodeOff250, view.AppliedCoupon)

	view, err = f.cart.RemoveCoupon(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.AppliedCoupon)
	requireMoney(t, "454", view.Totals.Total)
}

func TestCartService_ListCoupons(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, _ = f.cart.AddItem(ctx, "sess-1", lineItem("p1", 1000))
	_, err := f.cart.ApplyCoupon(ctx, "sess-1", checkout.CodeSave20)
	require.NoError(t, err)

	previews, err := f.cart.ListCoupons(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, previews, 4)

	byCode := map[string]CouponPreview{}
	for _, p := range previews {
		byCode[p.Code] = p
	}
	requireMoney(t, "100", byCode[checkout.CodeSave10].Savings)
	requireMoney(t, "200", byCode[checkout.CodeSave20].Savings)
	requireMoney(t, "100", byCode[checkout.CodeFreeShipping].Savings)
	requireMoney(t, "250", byCode[checkout.CodeOff250].Savings)
	assert.True(t, byCode[checkout.CodeSave20].Applied)
	assert.False(t, byCode[checkout.CodeSave10].Applied)

	savings, err := f.cart.CalculateSavings(ctx, "sess-1", checkout.CodeSave10)
	require.NoError(t, err)
	requireMoney(t, "100", savings)
}

func TestCartService_SaveForLaterAndSelection(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		_, _ = f.cart.AddItem(ctx, "sess-1", lineItem(id, 10))
	}

	view, err := f.cart.SaveForLater(ctx, "sess-1", "a")
	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	require.Len(t, view.SavedItems, 1)

	_, err = f.cart.SetSelection(ctx, "sess-1", []string{"b"})
	require.NoError(t, err)

	view, removed, err := f.cart.RemoveSelected(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "c", view.Items[0].ID)
	assert.Empty(t, view.SelectedItems)
}

func TestCartService_MoveToWishlist(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()
	_, _ = f.cart.AddItem(ctx, "sess-1", lineItem("lipstick", 499))

	view, err := f.cart.MoveToWishlist(ctx, "sess-1", "lipstick")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	favorites, err := f.favorites.FindBySessionID("sess-1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "lipstick", favorites[0].ProductID)

	view, err = f.cart.MoveToWishlist(ctx, "sess-1", "lipstick")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_ViewProduct(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := f.cart.ViewProduct(ctx, "sess-1", lineItem(id, 1))
		require.NoError(t, err)
	}

	view, err := f.cart.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, view.RecentlyViewed, 4)
	assert.Equal(t, "e", view.RecentlyViewed[0].ID)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.cart.AddItem(ctx, "sess-1", lineItem("p1", 10))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.cart.GetCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 20, view.Items[0].Quantity)
}

func TestCartService_EndSessionAndPurge(t *testing.T) {
	f := setupServiceFixture(t)
	ctx := context.Background()

	id, err := f.cart.CreateSession(ctx)
	require.NoError(t, err)
	_, _ = f.cart.AddItem(ctx, id, lineItem("p1", 10))

	require.NoError(t, f.cart.EndSession(ctx, id))
	view, err := f.cart.GetCart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, _ = f.cart.AddItem(ctx, "idle", lineItem("p1", 10))
	f.store.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	deleted, err := f.cart.PurgeIdleSessions(ctx, 24*time.Hour, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
