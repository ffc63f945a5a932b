package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/model"
)

// Store owns every persisted record. Ids are per-entity serials starting at 1
// and are never reused. All methods present a single consistent view.
type Store interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUser(ctx context.Context, id int, upd model.UpdateProfileRequest) (model.User, error)

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int, upd model.UpdateBookRequest) (model.Book, error)
	UpdateBookRating(ctx context.Context, id int, rating float64, reviewCount int) error
	DeleteBook(ctx context.Context, id int) (bool, error)

	ListCartItems(ctx context.Context, userID int) ([]model.CartItem, error)
	ListCartEntries(ctx context.Context, userID int) ([]model.CartEntry, error)
	AddCartItem(ctx context.Context, item model.CartItem) (model.CartItem, error)
	RemoveCartItem(ctx context.Context, id int) (bool, error)
	ClearCart(ctx context.Context, userID int) error
	DeleteCartItemsByBook(ctx context.Context, bookID int) error

	CreateOrder(ctx context.Context, order model.Order) (model.Order, error)
	GetOrder(ctx context.Context, id int) (model.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]model.Order, error)

	CreateReview(ctx context.Context, review model.Review) (model.Review, error)
	ListReviews(ctx context.Context, bookID int) ([]model.Review, error)

	// WithinTx runs fn against a store whose writes commit or roll back
	// together. The checkout and book-deletion cascades run through it.
	WithinTx(ctx context.Context, fn func(s Store) error) error
}

const (
	usersTableName     = `users`
	booksTableName     = `books`
	cartItemsTableName = `cart_items`
	ordersTableName    = `orders`
	reviewsTableName   = `reviews`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repository struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		ext: db,
		log: log.Named("repo"),
	}, nil
}

func (r *repository) WithinTx(ctx context.Context, fn func(s Store) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	txRepo := &repository{
		db:  r.db,
		ext: tx,
		log: r.log,
	}
	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Warn("tx rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit tx")
}
