package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
)

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author_id", "description", "cover_image", "price", "rent_price",
			"category", "is_published", "is_featured").
		Values(book.Title, book.AuthorID, book.Description, book.CoverImage, book.Price, book.RentPrice,
			book.Category, book.IsPublished, book.IsFeatured).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := sqlx.GetContext(ctx, r.ext, &created, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	q, args, err := qb.Select("*").
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.ext, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	b := qb.Select("*").
		From(booksTableName).
		OrderBy("id")

	if filter.Category != "" {
		b = b.Where(sq.Eq{"category": filter.Category})
	}
	if filter.AuthorID != nil {
		b = b.Where(sq.Eq{"author_id": *filter.AuthorID})
	}
	if filter.IsFeatured != nil {
		b = b.Where(sq.Eq{"is_featured": *filter.IsFeatured})
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		b = b.Where(sq.Or{
			sq.Expr("lower(title) like ?", term),
			sq.Expr("lower(description) like ?", term),
		})
	}

	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := sqlx.SelectContext(ctx, r.ext, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int, upd model.UpdateBookRequest) (model.Book, error) {
	b := qb.Update(booksTableName).Where(sq.Eq{"id": id})
	changed := false
	set := func(column string, v interface{}) {
		b = b.Set(column, v)
		changed = true
	}
	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.CoverImage != nil {
		set("cover_image", *upd.CoverImage)
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.RentPrice != nil {
		set("rent_price", *upd.RentPrice)
	}
	if upd.Category != nil {
		set("category", *upd.Category)
	}
	if upd.IsPublished != nil {
		set("is_published", *upd.IsPublished)
	}
	if upd.IsFeatured != nil {
		set("is_featured", *upd.IsFeatured)
	}
	if !changed {
		return r.GetBook(ctx, id)
	}

	q, args, err := b.Suffix("returning *").ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, r.ext, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) UpdateBookRating(ctx context.Context, id int, rating float64, reviewCount int) error {
	q := `
update books
    set rating = $2, review_count = $3
where id = $1`
	res, err := r.ext.ExecContext(ctx, q, id, rating, reviewCount)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteBook(ctx context.Context, id int) (bool, error) {
	q, args, err := qb.Delete(booksTableName).
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
