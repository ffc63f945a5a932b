package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
)

func (r *repository) CreateOrder(ctx context.Context, order model.Order) (model.Order, error) {
	q, args, err := qb.Insert(ordersTableName).
		Columns("user_id", "book_id", "purchase_type", "amount", "expires_at", "is_active").
		Values(order.UserID, order.BookID, order.PurchaseType, order.Amount, order.ExpiresAt, order.IsActive).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Order{}, err
	}

	var created model.Order
	if err := sqlx.GetContext(ctx, r.ext, &created, q, args...); err != nil {
		r.log.Error("CreateOrder", zap.String("q", q), zap.Error(err))
		return model.Order{}, err
	}
	return created, nil
}

func (r *repository) GetOrder(ctx context.Context, id int) (model.Order, error) {
	q, args, err := qb.Select("*").
		From(ordersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Order{}, err
	}

	var order model.Order
	if err := sqlx.GetContext(ctx, r.ext, &order, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, errs.ErrNotFound
		}
		return model.Order{}, err
	}
	return order, nil
}

func (r *repository) ListUserOrders(ctx context.Context, userID int) ([]model.Order, error) {
	q, args, err := qb.Select("*").
		From(ordersTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := sqlx.SelectContext(ctx, r.ext, &orders, q, args...); err != nil {
		return nil, err
	}
	return orders, nil
}
