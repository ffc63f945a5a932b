package cart

import (
	"context"

	"go.uber.org/zap"

	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
)

// Service manages pending purchase intents per user.
type Service struct {
	log  *zap.Logger
	repo repository.Store
}

func NewService(repo repository.Store, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// ListWithBooks returns the user's cart joined with book data, in cart
// insertion order.
func (s *Service) ListWithBooks(ctx context.Context, userID int) ([]model.CartEntry, error) {
	return s.repo.ListCartEntries(ctx, userID)
}

// Add inserts unconditionally once the book is known to exist. Adding the
// same book twice yields two rows, deduplication is deliberately absent.
func (s *Service) Add(ctx context.Context, userID int, req model.AddCartItemRequest) (model.CartItem, error) {
	if _, err := s.repo.GetBook(ctx, req.BookID); err != nil {
		return model.CartItem{}, err
	}
	return s.repo.AddCartItem(ctx, model.CartItem{
		UserID:       userID,
		BookID:       req.BookID,
		PurchaseType: req.PurchaseType,
	})
}

// Remove deletes by id and is idempotent: removing a missing row reports
// false without an error.
func (s *Service) Remove(ctx context.Context, id int) (bool, error) {
	return s.repo.RemoveCartItem(ctx, id)
}

// Clear succeeds even when the cart is already empty.
func (s *Service) Clear(ctx context.Context, userID int) error {
	return s.repo.ClearCart(ctx, userID)
}
