package memory_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
	"github.com/readora/market-service/internal/repository/memory"
)

func TestStore_IDsMonotonic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	b1, err := store.CreateBook(ctx, model.Book{Title: "One", Price: 1, Category: "Fiction"})
	require.NoError(t, err)
	b2, err := store.CreateBook(ctx, model.Book{Title: "Two", Price: 2, Category: "Fiction"})
	require.NoError(t, err)
	require.Equal(t, 1, b1.ID)
	require.Equal(t, 2, b2.ID)

	// Deleted ids are never reused.
	ok, err := store.DeleteBook(ctx, b2.ID)
	require.NoError(t, err)
	require.True(t, ok)
	b3, err := store.CreateBook(ctx, model.Book{Title: "Three", Price: 3, Category: "Fiction"})
	require.NoError(t, err)
	require.Equal(t, 3, b3.ID)

	// Entities count independently.
	u, err := store.CreateUser(ctx, model.User{Username: "first", Email: "f@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
}

func TestStore_WithinTx_Rollback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.NewStore()

	book, err := store.CreateBook(ctx, model.Book{Title: "Kept", Price: 5, Category: "Fiction"})
	require.NoError(t, err)
	item, err := store.AddCartItem(ctx, model.CartItem{UserID: 1, BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.CreateOrder(ctx, model.Order{UserID: 1, BookID: book.ID, PurchaseType: model.PurchaseBuy, Amount: 5}); err != nil {
			return err
		}
		if err := tx.ClearCart(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	orders, err := store.ListUserOrders(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, orders)

	items, err := store.ListCartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, item.ID, items[0].ID)

	// A successful transaction commits in place.
	err = store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.CreateOrder(ctx, model.Order{UserID: 1, BookID: book.ID, PurchaseType: model.PurchaseBuy, Amount: 5}); err != nil {
			return err
		}
		return tx.ClearCart(ctx, 1)
	})
	require.NoError(t, err)

	orders, err = store.ListUserOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	items, err = store.ListCartItems(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
}
