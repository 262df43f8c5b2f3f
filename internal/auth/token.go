package auth

import (
	"errors"
	"fmt"
	"time"

	"bloghub/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed = errors.New("session token is malformed")
	ErrTokenExpired   = errors.New("session token has expired")
)

// Claims carries the exact expiry in ExpiresAtNano. The registered exp claim
// only has whole-second precision, so it is rounded up and acts as a bound.
type Claims struct {
	jwt.RegisteredClaims
	ExpiresAtNano int64 `json:"exp_ns,omitempty"`
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecretKey),
		ttl:    cfg.TokenTTL,
	}
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func ceilSecond(t time.Time) time.Time {
	whole := t.Truncate(time.Second)
	if whole.Before(t) {
		return whole.Add(time.Second)
	}
	return whole
}

func (m *TokenManager) Issue(userID string, now time.Time) (string, error) {
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilSecond(expiresAt)),
		},
		ExpiresAtNano: expiresAt.UnixNano(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Verify returns ErrTokenExpired only for tokens whose signature checks out;
// everything else that fails is ErrTokenMalformed.
func (m *TokenManager) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenMalformed
	}
	if claims.ExpiresAtNano != 0 && !now.Before(time.Unix(0, claims.ExpiresAtNano)) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
