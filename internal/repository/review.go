package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/model"
)

func (r *repository) CreateReview(ctx context.Context, review model.Review) (model.Review, error) {
	q, args, err := qb.Insert(reviewsTableName).
		Columns("user_id", "book_id", "rating", "comment").
		Values(review.UserID, review.BookID, review.Rating, review.Comment).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Review{}, err
	}

	var created model.Review
	if err := sqlx.GetContext(ctx, r.ext, &created, q, args...); err != nil {
		r.log.Error("CreateReview", zap.String("q", q), zap.Error(err))
		return model.Review{}, err
	}
	return created, nil
}

func (r *repository) ListReviews(ctx context.Context, bookID int) ([]model.Review, error) {
	q, args, err := qb.Select("*").
		From(reviewsTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var reviews []model.Review
	if err := sqlx.SelectContext(ctx, r.ext, &reviews, q, args...); err != nil {
		return nil, err
	}
	return reviews, nil
}
