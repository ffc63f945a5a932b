package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/model"
)

func (r *repository) ListCartItems(ctx context.Context, userID int) ([]model.CartItem, error) {
	q, args, err := qb.Select("*").
		From(cartItemsTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	if err := sqlx.SelectContext(ctx, r.ext, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCartEntries joins cart rows with their books in cart insertion order.
// Book deletion cascades cart rows inside one tx, so the inner join cannot
// drop entries.
func (r *repository) ListCartEntries(ctx context.Context, userID int) ([]model.CartEntry, error) {
	q, args, err := qb.Select(
		"ci.id", "ci.user_id", "ci.book_id", "ci.purchase_type", "ci.created_at",
		`b.id as "book.id"`, `b.title as "book.title"`, `b.author_id as "book.author_id"`,
		`b.description as "book.description"`, `b.cover_image as "book.cover_image"`,
		`b.price as "book.price"`, `b.rent_price as "book.rent_price"`,
		`b.category as "book.category"`, `b.is_published as "book.is_published"`,
		`b.is_featured as "book.is_featured"`, `b.created_at as "book.created_at"`,
		`b.rating as "book.rating"`, `b.review_count as "book.review_count"`).
		From(cartItemsTableName + " ci").
		Join(booksTableName + " b on b.id = ci.book_id").
		Where(sq.Eq{"ci.user_id": userID}).
		OrderBy("ci.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var entries []model.CartEntry
	if err := sqlx.SelectContext(ctx, r.ext, &entries, q, args...); err != nil {
		r.log.Error("ListCartEntries", zap.String("q", q), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

func (r *repository) AddCartItem(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	q, args, err := qb.Insert(cartItemsTableName).
		Columns("user_id", "book_id", "purchase_type").
		Values(item.UserID, item.BookID, item.PurchaseType).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.CartItem{}, err
	}

	var created model.CartItem
	if err := sqlx.GetContext(ctx, r.ext, &created, q, args...); err != nil {
		r.log.Error("AddCartItem", zap.String("q", q), zap.Error(err))
		return model.CartItem{}, err
	}
	return created, nil
}

func (r *repository) RemoveCartItem(ctx context.Context, id int) (bool, error) {
	q, args, err := qb.Delete(cartItemsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := r.ext.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) ClearCart(ctx context.Context, userID int) error {
	q, args, err := qb.Delete(cartItemsTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.ext.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) DeleteCartItemsByBook(ctx context.Context, bookID int) error {
	q, args, err := qb.Delete(cartItemsTableName).
		Where(sq.Eq{"book_id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.ext.ExecContext(ctx, q, args...)
	return err
}
