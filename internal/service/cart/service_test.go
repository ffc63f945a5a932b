package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository/memory"
	"github.com/readora/market-service/internal/service/cart"
)

func TestService_Add(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	svc := cart.NewService(store, zap.NewExample().Named("test"))

	book, err := store.CreateBook(ctx, model.Book{Title: "Wanted", Price: 11, Category: "Fiction", IsPublished: true})
	require.NoError(t, err)

	_, err = svc.Add(ctx, 1, model.AddCartItemRequest{BookID: 99, PurchaseType: model.PurchaseBuy})
	require.ErrorIs(t, err, errs.ErrNotFound)

	item, err := svc.Add(ctx, 1, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)
	require.Equal(t, 1, item.ID)
	require.Equal(t, model.PurchaseBuy, item.PurchaseType)

	// Adding the same book again is allowed and yields a second row.
	again, err := svc.Add(ctx, 1, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)
	require.Equal(t, 2, again.ID)

	// A rent intent on a book without a rent price is accepted here;
	// checkout is where it fails.
	rentIntent, err := svc.Add(ctx, 1, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseRent})
	require.NoError(t, err)
	require.Equal(t, model.PurchaseRent, rentIntent.PurchaseType)

	entries, err := svc.ListWithBooks(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "Wanted", entries[0].Book.Title)
}

func TestService_Remove_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	svc := cart.NewService(store, zap.NewExample().Named("test"))

	book, err := store.CreateBook(ctx, model.Book{Title: "Fleeting", Price: 6, Category: "Fiction", IsPublished: true})
	require.NoError(t, err)

	item, err := svc.Add(ctx, 2, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, item.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = svc.Remove(ctx, item.ID)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestService_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()
	svc := cart.NewService(store, zap.NewExample().Named("test"))

	book, err := store.CreateBook(ctx, model.Book{Title: "Stacked", Price: 4, Category: "Fiction", IsPublished: true})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.Add(ctx, 3, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseBuy})
		require.NoError(t, err)
	}
	_, err = svc.Add(ctx, 4, model.AddCartItemRequest{BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 3))

	entries, err := svc.ListWithBooks(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, entries)

	// Other carts are untouched, clearing again stays a no-op.
	entries, err = svc.ListWithBooks(ctx, 4)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, svc.Clear(ctx, 3))
}
