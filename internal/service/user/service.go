package user

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
	"github.com/readora/market-service/pkg/auth"
)

const tokenTTL = 24 * time.Hour

// Service handles registration, login and profiles.
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

// Register creates an account. Usernames and emails are unique
// case-insensitively, collisions fail with ErrExists.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return model.User{}, errs.ErrExists
	} else if !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, err
	}
	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return model.User{}, errs.ErrExists
	} else if !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}

	return s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		FullName:     req.FullName,
		Bio:          req.Bio,
		IsAuthor:     req.IsAuthor,
		AvatarURL:    req.AvatarURL,
	})
}

// Login verifies credentials and issues an HS256 token carrying the
// authenticated profile. Unknown user and wrong password are both
// ErrUnauthorized, the caller cannot tell which.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	u, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errs.ErrUnauthorized
		}
		return model.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errs.ErrUnauthorized
	}

	expirationTime := time.Now().Add(tokenTTL)
	claims := &auth.Claims{
		Profile: auth.Profile{
			UserID:   u.ID,
			Username: u.Username,
			IsAuthor: u.IsAuthor,
		},
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JWTKey)
	if err != nil {
		return model.LoginResponse{}, errors.Wrap(err, "sign token")
	}

	return model.LoginResponse{
		ExpiresIn:   int(expirationTime.Unix()),
		AccessToken: tokenString,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (model.User, error) {
	return s.repo.UpdateUser(ctx, id, req)
}
