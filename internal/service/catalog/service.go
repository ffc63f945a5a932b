package catalog

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
	"github.com/readora/market-service/internal/service/access"
	"github.com/readora/market-service/pkg/kafka"
)

// Service owns the book catalog and its review aggregates.
type Service struct {
	log      *zap.Logger
	repo     repository.Store
	enqueuer kafka.Enqueuer
}

func NewService(repo repository.Store, enqueuer kafka.Enqueuer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		enqueuer: enqueuer,
	}
}

func (s *Service) Categories() []string {
	return model.Categories
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, actor access.Actor, req model.CreateBookRequest) (model.Book, error) {
	if err := access.CanCreateBook(actor); err != nil {
		return model.Book{}, err
	}

	book := model.Book{
		Title:       req.Title,
		AuthorID:    actor.ID,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Price:       req.Price,
		RentPrice:   req.RentPrice,
		Category:    req.Category,
		IsPublished: true,
		IsFeatured:  false,
	}
	if req.IsPublished != nil {
		book.IsPublished = *req.IsPublished
	}
	if req.IsFeatured != nil {
		book.IsFeatured = *req.IsFeatured
	}
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, actor access.Actor, id int, req model.UpdateBookRequest) (model.Book, error) {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	if err := access.CanMutateBook(actor, book); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

// DeleteBook removes the book and every cart row referencing it in one
// transaction, so no cart listing can observe an orphaned entry.
func (s *Service) DeleteBook(ctx context.Context, actor access.Actor, id int) error {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if err := access.CanMutateBook(actor, book); err != nil {
		return err
	}

	return s.repo.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteCartItemsByBook(ctx, id); err != nil {
			return err
		}
		ok, err := tx.DeleteBook(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrNotFound
		}
		return nil
	})
}

func (s *Service) AuthorBooks(ctx context.Context, actor access.Actor) ([]model.Book, error) {
	if err := access.CanAccessAuthorDashboard(actor); err != nil {
		return nil, err
	}
	return s.repo.ListBooks(ctx, model.BookFilter{AuthorID: &actor.ID})
}

func (s *Service) ListReviews(ctx context.Context, bookID int) ([]model.Review, error) {
	return s.repo.ListReviews(ctx, bookID)
}

// CreateReview persists the review, then synchronously recomputes the book's
// aggregate so the recompute sees its own just-created row.
func (s *Service) CreateReview(ctx context.Context, actor access.Actor, bookID int, req model.CreateReviewRequest) (model.Review, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return model.Review{}, err
	}

	review, err := s.repo.CreateReview(ctx, model.Review{
		UserID:  actor.ID,
		BookID:  bookID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return model.Review{}, err
	}

	s.recomputeRating(ctx, bookID)

	if s.enqueuer != nil {
		if err := s.enqueuer.Enqueue(kafka.ReviewsTopic, kafka.ReviewEvent{
			EventID:   uuid.NewString(),
			ReviewID:  review.ID,
			BookID:    review.BookID,
			Rating:    review.Rating,
			CreatedAt: review.CreatedAt,
		}); err != nil {
			s.log.Warn("enqueue review event", zap.Error(err))
		}
	}

	return review, nil
}

// recomputeRating sets rating to the mean of all review ratings rounded
// half-up to one decimal, 0.0 when there are none. A vanished book is a
// silent no-op: the review itself was already created.
func (s *Service) recomputeRating(ctx context.Context, bookID int) {
	reviews, err := s.repo.ListReviews(ctx, bookID)
	if err != nil {
		s.log.Warn("recompute rating: list reviews", zap.Int("bookID", bookID), zap.Error(err))
		return
	}

	rating := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, rv := range reviews {
			sum += rv.Rating
		}
		rating = roundToTenth(float64(sum) / float64(len(reviews)))
	}

	if err := s.repo.UpdateBookRating(ctx, bookID, rating, len(reviews)); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return
		}
		s.log.Warn("recompute rating: update book", zap.Int("bookID", bookID), zap.Error(err))
	}
}

// roundToTenth rounds half-up to one decimal: 4.66... -> 4.7.
func roundToTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}
