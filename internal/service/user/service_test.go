package user_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository/memory"
	"github.com/readora/market-service/internal/service/user"
	"github.com/readora/market-service/pkg/auth"
)

func newUserService() *user.Service {
	return user.NewService(memory.NewStore(), zap.NewExample().Named("test"))
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newUserService()

	u, err := svc.Register(ctx, model.RegisterRequest{
		Username: "shelfworm",
		Password: "secret1",
		Email:    "sw@example.com",
		FullName: "Shelf Worm",
		IsAuthor: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.True(t, u.IsAuthor)
	require.NotEqual(t, "secret1", u.PasswordHash)

	// Username collisions are case-insensitive, email likewise.
	_, err = svc.Register(ctx, model.RegisterRequest{
		Username: "SHELFWORM",
		Password: "secret2",
		Email:    "other@example.com",
		FullName: "Copycat",
	})
	require.ErrorIs(t, err, errs.ErrExists)

	_, err = svc.Register(ctx, model.RegisterRequest{
		Username: "someoneelse",
		Password: "secret2",
		Email:    "SW@example.com",
		FullName: "Copycat",
	})
	require.ErrorIs(t, err, errs.ErrExists)
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newUserService()

	registered, err := svc.Register(ctx, model.RegisterRequest{
		Username: "reader",
		Password: "secret1",
		Email:    "reader@example.com",
		FullName: "Avid Reader",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "reader", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotZero(t, resp.ExpiresIn)

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return auth.JWTKey, nil
	})
	require.NoError(t, err)
	require.Equal(t, registered.ID, claims.Profile.UserID)
	require.Equal(t, "reader", claims.Profile.Username)
	require.Equal(t, "reader@example.com", claims.Email)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "reader", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "ghost", Password: "secret1"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestService_UpdateProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newUserService()

	u, err := svc.Register(ctx, model.RegisterRequest{
		Username: "editme",
		Password: "secret1",
		Email:    "editme@example.com",
		FullName: "Before",
	})
	require.NoError(t, err)

	fullName := "After"
	bio := "writes about trains"
	updated, err := svc.UpdateProfile(ctx, u.ID, model.UpdateProfileRequest{FullName: &fullName, Bio: &bio})
	require.NoError(t, err)
	require.Equal(t, "After", updated.FullName)
	require.NotNil(t, updated.Bio)
	require.Equal(t, "writes about trains", *updated.Bio)
	require.Equal(t, "editme@example.com", updated.Email)

	_, err = svc.UpdateProfile(ctx, 99, model.UpdateProfileRequest{FullName: &fullName})
	require.ErrorIs(t, err, errs.ErrNotFound)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "After", got.FullName)
}
