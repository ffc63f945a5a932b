package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository/memory"
	"github.com/readora/market-service/internal/service/access"
	"github.com/readora/market-service/internal/service/catalog"
)

func newCatalog(t *testing.T) (*catalog.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return catalog.NewService(store, nil, zap.NewExample().Named("test")), store
}

func createBook(t *testing.T, svc *catalog.Service, author access.Actor, req model.CreateBookRequest) model.Book {
	t.Helper()
	book, err := svc.CreateBook(context.Background(), author, req)
	require.NoError(t, err)
	return book
}

func TestService_CreateBook(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalog(t)
	ctx := context.Background()
	author := access.Actor{ID: 1, IsAuthor: true}

	book, err := svc.CreateBook(ctx, author, model.CreateBookRequest{
		Title:       "Night Trains",
		Description: "Sleeper routes of Europe",
		Price:       12.5,
		Category:    "Non-Fiction",
	})
	require.NoError(t, err)
	require.Equal(t, 1, book.ID)
	require.Equal(t, author.ID, book.AuthorID)
	require.True(t, book.IsPublished)
	require.False(t, book.IsFeatured)
	require.Zero(t, book.Rating)
	require.Zero(t, book.ReviewCount)

	_, err = svc.CreateBook(ctx, access.Actor{ID: 2, IsAuthor: false}, model.CreateBookRequest{
		Title:       "Unauthorized",
		Description: "nope",
		Price:       1,
		Category:    "Fiction",
	})
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestService_UpdateBook_Ownership(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalog(t)
	ctx := context.Background()
	author := access.Actor{ID: 1, IsAuthor: true}
	other := access.Actor{ID: 2, IsAuthor: true}

	book := createBook(t, svc, author, model.CreateBookRequest{
		Title:       "First Edition",
		Description: "draft",
		Price:       10,
		Category:    "Fiction",
	})

	title := "Second Edition"
	_, err := svc.UpdateBook(ctx, other, book.ID, model.UpdateBookRequest{Title: &title})
	require.ErrorIs(t, err, errs.ErrForbidden)

	updated, err := svc.UpdateBook(ctx, author, book.ID, model.UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Second Edition", updated.Title)
	require.Equal(t, 10.0, updated.Price)

	_, err = svc.UpdateBook(ctx, author, 99, model.UpdateBookRequest{Title: &title})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_DeleteBook_CascadesCart(t *testing.T) {
	t.Parallel()
	svc, store := newCatalog(t)
	ctx := context.Background()
	author := access.Actor{ID: 1, IsAuthor: true}

	book := createBook(t, svc, author, model.CreateBookRequest{
		Title:       "Short Lived",
		Description: "gone soon",
		Price:       5,
		Category:    "Fiction",
	})

	_, err := store.AddCartItem(ctx, model.CartItem{UserID: 7, BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)
	_, err = store.AddCartItem(ctx, model.CartItem{UserID: 8, BookID: book.ID, PurchaseType: model.PurchaseBuy})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteBook(ctx, access.Actor{ID: 2, IsAuthor: true}, book.ID), errs.ErrForbidden)

	require.NoError(t, svc.DeleteBook(ctx, author, book.ID))

	_, err = svc.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	for _, userID := range []int{7, 8} {
		entries, err := store.ListCartEntries(ctx, userID)
		require.NoError(t, err)
		require.Empty(t, entries)
	}

	require.ErrorIs(t, svc.DeleteBook(ctx, author, book.ID), errs.ErrNotFound)
}

func TestService_CreateReview_Aggregates(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalog(t)
	ctx := context.Background()
	author := access.Actor{ID: 1, IsAuthor: true}

	book := createBook(t, svc, author, model.CreateBookRequest{
		Title:       "Rated",
		Description: "reviews welcome",
		Price:       8,
		Category:    "Fiction",
	})

	// Mean of 5, 4, 5 is 4.666..., rounds half-up to 4.7.
	for i, rating := range []int{5, 4, 5} {
		_, err := svc.CreateReview(ctx, access.Actor{ID: 10 + i}, book.ID, model.CreateReviewRequest{Rating: rating})
		require.NoError(t, err)
	}

	got, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 4.7, got.Rating)
	require.Equal(t, 3, got.ReviewCount)

	reviews, err := svc.ListReviews(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	require.Equal(t, []int{1, 2, 3}, []int{reviews[0].ID, reviews[1].ID, reviews[2].ID})

	_, err = svc.CreateReview(ctx, author, 42, model.CreateReviewRequest{Rating: 5})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_Reviews_EmptyBook(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalog(t)
	ctx := context.Background()

	book := createBook(t, svc, access.Actor{ID: 1, IsAuthor: true}, model.CreateBookRequest{
		Title:       "Unreviewed",
		Description: "silence",
		Price:       3,
		Category:    "Mystery",
	})

	reviews, err := svc.ListReviews(ctx, book.ID)
	require.NoError(t, err)
	require.Empty(t, reviews)

	got, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, got.Rating)
	require.Equal(t, 0, got.ReviewCount)
}

func TestService_ListBooks_Filters(t *testing.T) {
	t.Parallel()
	svc, _ := newCatalog(t)
	ctx := context.Background()
	alice := access.Actor{ID: 1, IsAuthor: true}
	bob := access.Actor{ID: 2, IsAuthor: true}

	featured := true
	createBook(t, svc, alice, model.CreateBookRequest{
		Title: "Go Patterns", Description: "concurrency pipelines", Price: 20, Category: "Technology", IsFeatured: &featured,
	})
	createBook(t, svc, alice, model.CreateBookRequest{
		Title: "Quiet Mornings", Description: "slow living", Price: 9, Category: "Self-Help",
	})
	createBook(t, svc, bob, model.CreateBookRequest{
		Title: "Database Internals", Description: "b-trees and logs", Price: 30, Category: "Technology",
	})

	books, err := svc.ListBooks(ctx, model.BookFilter{Category: "Technology"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	books, err = svc.ListBooks(ctx, model.BookFilter{AuthorID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, books, 2)

	books, err = svc.ListBooks(ctx, model.BookFilter{IsFeatured: &featured})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Go Patterns", books[0].Title)

	books, err = svc.ListBooks(ctx, model.BookFilter{Search: "b-trees"})
	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Equal(t, "Database Internals", books[0].Title)

	dashboard, err := svc.AuthorBooks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, dashboard, 2)

	_, err = svc.AuthorBooks(ctx, access.Actor{ID: 9, IsAuthor: false})
	require.ErrorIs(t, err, errs.ErrForbidden)
}
