package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
	"github.com/readora/market-service/pkg/kafka"
)

// Service converts carts into orders and serves order history.
type Service struct {
	log      *zap.Logger
	repo     repository.Store
	enqueuer kafka.Enqueuer
	now      func() time.Time
}

type Option func(*Service)

// WithNow pins the clock, used by tests to assert exact expiry dates.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository.Store, enqueuer kafka.Enqueuer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log,
		repo:     repo,
		enqueuer: enqueuer,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, op := range opts {
		op(s)
	}
	return s
}

// Checkout turns every cart row into one order, all or nothing. Each line is
// validated before anything is written: one rent line on a book without a
// rent price rejects the whole checkout and leaves the cart untouched.
func (s *Service) Checkout(ctx context.Context, userID int) ([]model.Order, error) {
	entries, err := s.repo.ListCartEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errs.ErrEmptyCart
	}

	now := s.now()
	lines := make([]model.Order, 0, len(entries))
	for _, entry := range entries {
		line := model.Order{
			UserID:       userID,
			BookID:       entry.BookID,
			PurchaseType: entry.PurchaseType,
			IsActive:     true,
		}
		switch entry.PurchaseType {
		case model.PurchaseBuy:
			line.Amount = entry.Book.Price
		case model.PurchaseRent:
			if entry.Book.RentPrice == nil {
				return nil, errs.ErrInvalidPurchase
			}
			line.Amount = *entry.Book.RentPrice
			expiresAt := now.Add(model.RentalPeriod)
			line.ExpiresAt = &expiresAt
		default:
			return nil, errs.ErrInvalidInput
		}
		lines = append(lines, line)
	}

	var orders []model.Order
	if err := s.repo.WithinTx(ctx, func(tx repository.Store) error {
		orders = orders[:0]
		for _, line := range lines {
			created, err := tx.CreateOrder(ctx, line)
			if err != nil {
				return err
			}
			orders = append(orders, created)
		}
		return tx.ClearCart(ctx, userID)
	}); err != nil {
		return nil, err
	}

	s.publishOrders(orders)

	return orders, nil
}

func (s *Service) publishOrders(orders []model.Order) {
	if s.enqueuer == nil {
		return
	}
	for _, o := range orders {
		if err := s.enqueuer.Enqueue(kafka.OrdersTopic, kafka.OrderEvent{
			EventID:      uuid.NewString(),
			OrderID:      o.ID,
			UserID:       o.UserID,
			BookID:       o.BookID,
			PurchaseType: string(o.PurchaseType),
			Amount:       o.Amount,
			CreatedAt:    o.CreatedAt,
		}); err != nil {
			s.log.Warn("enqueue order event", zap.Int("orderID", o.ID), zap.Error(err))
		}
	}
}

// ListUserOrders returns the user's order history with expiry computed at
// read time, isActive itself never flips.
func (s *Service) ListUserOrders(ctx context.Context, userID int) ([]model.OrderView, error) {
	orders, err := s.repo.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, model.OrderView{Order: o, IsExpired: o.Expired(now)})
	}
	return views, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, id int) (model.OrderView, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return model.OrderView{}, err
	}
	if o.UserID != userID {
		return model.OrderView{}, errs.ErrForbidden
	}
	return model.OrderView{Order: o, IsExpired: o.Expired(s.now())}, nil
}
