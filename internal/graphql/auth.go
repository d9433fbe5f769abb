package graphql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned by verifiers for any credential problem.
// The guard collapses every variant (missing, expired, malformed, wrong
// signature) into AUTHENTICATION_REQUIRED so callers cannot probe which
// one occurred.
var ErrInvalidToken = errors.New("invalid credential")

// Principal is the resolved identity for one request. Derived fresh per
// request from the bearer credential, never persisted.
type Principal struct {
	UserID    uint
	Email     string
	Staff     bool
	Anonymous bool
	// Key identifies the principal to the rate limiter: the user id for
	// authenticated callers, the network origin for anonymous ones.
	Key string
}

// Verifier turns a bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// Guard resolves the calling principal and enforces that protected
// operations have a non-anonymous one.
type Guard struct {
	verifier Verifier
}

func NewGuard(verifier Verifier) *Guard {
	return &Guard{verifier: verifier}
}

// Resolve authenticates the request for the given operation. origin is the
// anonymous principal key (client network address). A present-but-bad
// token fails even on operations that allow anonymous access.
func (g *Guard) Resolve(ctx context.Context, authHeader, origin string, allowAnonymous bool) (Principal, error) {
	if strings.TrimSpace(authHeader) == "" {
		if allowAnonymous {
			return Principal{Anonymous: true, Key: "anon:" + origin}, nil
		}
		return Principal{}, NewAuthRequired()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Principal{}, NewAuthRequired()
	}
	p, err := g.verifier.Verify(ctx, strings.TrimSpace(parts[1]))
	if err != nil {
		return Principal{}, NewAuthRequired()
	}
	p.Key = fmt.Sprintf("user:%d", p.UserID)
	return p, nil
}

// Claims are the custom JWT claims issued at login.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HMAC-signed tokens issued by loginUser.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: claims.UserID, Email: claims.Email, Staff: claims.IsStaff}, nil
}

// IssueToken signs a token for the given user, used by the login and
// registration resolvers.
func IssueToken(secret string, userID uint, email string, staff bool, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		IsStaff: staff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
