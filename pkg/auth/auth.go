package auth

import (
	"context"
	"os"

	"github.com/golang-jwt/jwt/v4"
)

// JWTKey signs first-party access tokens. Overridable for deployments via
// JWT_SECRET, the default only serves local runs.
var JWTKey = []byte("market-dev-secret")

func init() {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		JWTKey = []byte(s)
	}
}

type Profile struct {
	UserID   int    `json:"userId"`
	Username string `json:"username"`
	IsAuthor bool   `json:"isAuthor"`
}

type Claims struct {
	Profile Profile `json:"profile"`
	Email   string  `json:"email"`
	jwt.RegisteredClaims
}

type contextKey int

const identityKey contextKey = iota + 1

// SetAuthContext stores the authenticated profile for downstream handlers.
func SetAuthContext(ctx context.Context, profile Profile) context.Context {
	return context.WithValue(ctx, identityKey, profile)
}

// FromContext returns the authenticated profile, ok is false when the
// request carried no valid token.
func FromContext(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(identityKey).(Profile)
	return p, ok
}
