package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
)

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("username", "password_hash", "email", "full_name", "bio", "is_author", "avatar_url").
		Values(user.Username, user.PasswordHash, user.Email, user.FullName, user.Bio, user.IsAuthor, user.AvatarURL).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := sqlx.GetContext(ctx, r.ext, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrExists
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int) (model.User, error) {
	q, args, err := qb.Select("*").
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := sqlx.GetContext(ctx, r.ext, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUserBy(ctx, "username", username)
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUserBy(ctx, "email", email)
}

// getUserBy matches case-insensitively, usernames and emails are unique
// modulo case.
func (r *repository) getUserBy(ctx context.Context, column, value string) (model.User, error) {
	q, args, err := qb.Select("*").
		From(usersTableName).
		Where(sq.Expr("lower("+column+") = lower(?)", value)).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := sqlx.GetContext(ctx, r.ext, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) UpdateUser(ctx context.Context, id int, upd model.UpdateProfileRequest) (model.User, error) {
	b := qb.Update(usersTableName).Where(sq.Eq{"id": id})
	changed := false
	if upd.FullName != nil {
		b = b.Set("full_name", *upd.FullName)
		changed = true
	}
	if upd.Bio != nil {
		b = b.Set("bio", *upd.Bio)
		changed = true
	}
	if upd.AvatarURL != nil {
		b = b.Set("avatar_url", *upd.AvatarURL)
		changed = true
	}
	if !changed {
		return r.GetUser(ctx, id)
	}

	q, args, err := b.Suffix("returning *").ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := sqlx.GetContext(ctx, r.ext, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
