package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository/memory"
	"github.com/readora/market-service/internal/service/order"
)

func seedBook(t *testing.T, store *memory.Store, book model.Book) model.Book {
	t.Helper()
	created, err := store.CreateBook(context.Background(), book)
	require.NoError(t, err)
	return created
}

func addToCart(t *testing.T, store *memory.Store, userID, bookID int, pt model.PurchaseType) {
	t.Helper()
	_, err := store.AddCartItem(context.Background(), model.CartItem{
		UserID:       userID,
		BookID:       bookID,
		PurchaseType: pt,
	})
	require.NoError(t, err)
}

func TestService_Checkout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	checkoutAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := order.NewService(store, nil, zap.NewExample().Named("test"),
		order.WithNow(func() time.Time { return checkoutAt }))

	rentPrice := 3.5
	bought := seedBook(t, store, model.Book{Title: "Bought", Price: 19.99, Category: "Fiction", IsPublished: true})
	rented := seedBook(t, store, model.Book{Title: "Rented", Price: 10, RentPrice: &rentPrice, Category: "Fiction", IsPublished: true})

	const userID = 4
	addToCart(t, store, userID, bought.ID, model.PurchaseBuy)
	addToCart(t, store, userID, rented.ID, model.PurchaseRent)

	orders, err := svc.Checkout(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.Equal(t, bought.ID, orders[0].BookID)
	require.Equal(t, model.PurchaseBuy, orders[0].PurchaseType)
	require.Equal(t, 19.99, orders[0].Amount)
	require.Nil(t, orders[0].ExpiresAt)
	require.True(t, orders[0].IsActive)

	require.Equal(t, rented.ID, orders[1].BookID)
	require.Equal(t, model.PurchaseRent, orders[1].PurchaseType)
	require.Equal(t, 3.5, orders[1].Amount)
	require.NotNil(t, orders[1].ExpiresAt)
	require.Equal(t, checkoutAt.Add(model.RentalPeriod), *orders[1].ExpiresAt)
	require.True(t, orders[1].IsActive)

	entries, err := store.ListCartEntries(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	t.Parallel()
	store := memory.NewStore()
	svc := order.NewService(store, nil, zap.NewExample().Named("test"))

	_, err := svc.Checkout(context.Background(), 1)
	require.ErrorIs(t, err, errs.ErrEmptyCart)
}

func TestService_Checkout_AllOrNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	svc := order.NewService(store, nil, zap.NewExample().Named("test"))

	valid := seedBook(t, store, model.Book{Title: "Valid", Price: 12, Category: "Fiction", IsPublished: true})
	// No rent price: a rent line on this book must reject the whole checkout.
	noRent := seedBook(t, store, model.Book{Title: "No Rent", Price: 8, Category: "Fiction", IsPublished: true})

	const userID = 5
	addToCart(t, store, userID, valid.ID, model.PurchaseBuy)
	addToCart(t, store, userID, noRent.ID, model.PurchaseRent)

	_, err := svc.Checkout(ctx, userID)
	require.ErrorIs(t, err, errs.ErrInvalidPurchase)

	orders, err := svc.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, orders)

	entries, err := store.ListCartEntries(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestService_RentalExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := order.NewService(store, nil, zap.NewExample().Named("test"),
		order.WithNow(func() time.Time { return now }))

	rentPrice := 2.5
	book := seedBook(t, store, model.Book{Title: "Timed", Price: 10, RentPrice: &rentPrice, Category: "Fiction", IsPublished: true})

	const userID = 6
	addToCart(t, store, userID, book.ID, model.PurchaseRent)
	orders, err := svc.Checkout(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	views, err := svc.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].IsExpired)

	// One day past the rental period: expired on read, isActive untouched.
	now = now.Add(model.RentalPeriod + 24*time.Hour)
	views, err = svc.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.True(t, views[0].IsExpired)
	require.True(t, views[0].IsActive)

	view, err := svc.GetOrder(ctx, userID, orders[0].ID)
	require.NoError(t, err)
	require.True(t, view.IsExpired)
}

func TestService_GetOrder_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	svc := order.NewService(store, nil, zap.NewExample().Named("test"))

	book := seedBook(t, store, model.Book{Title: "Private", Price: 7, Category: "Fiction", IsPublished: true})
	addToCart(t, store, 1, book.ID, model.PurchaseBuy)
	orders, err := svc.Checkout(ctx, 1)
	require.NoError(t, err)

	_, err = svc.GetOrder(ctx, 2, orders[0].ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = svc.GetOrder(ctx, 1, 99)
	require.ErrorIs(t, err, errs.ErrNotFound)

	view, err := svc.GetOrder(ctx, 1, orders[0].ID)
	require.NoError(t, err)
	require.Equal(t, orders[0].ID, view.ID)
}
