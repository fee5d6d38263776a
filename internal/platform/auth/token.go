// Package auth はパスワードハッシュとアクセストークンの発行・検証を提供します。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken はトークンの署名・形式・有効期限のいずれかが不正な場合に返却されます。
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrInvalidSecret は署名鍵が短すぎる場合に返却されます。
	ErrInvalidSecret = errors.New("auth: jwt secret must be at least 32 bytes")
)

const minSecretLength = 32

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Claims はアクセストークンのクレームです。Subject にプロフィール ID を格納します。
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Token は発行済みのアクセストークンです。
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenManager は HS256 のアクセストークンを発行・検証します。
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  Clock
}

// NewTokenManager は TokenManager を生成します。
func NewTokenManager(secret, issuer string, ttl time.Duration, clock Clock) (*TokenManager, error) {
	if len(secret) < minSecretLength {
		return nil, ErrInvalidSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive")
	}
	if clock == nil {
		clock = realClock{}
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl, clock: clock}, nil
}

// Issue はプロフィール ID を主体とするトークンを発行します。
func (m *TokenManager) Issue(profileID, email string) (Token, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   profileID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify はトークンを検証しクレームを返します。
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
