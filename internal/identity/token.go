package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelease/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsStudent bool   `json:"student"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(user *domain.User) (string, *domain.Session, error) {
	if len(t.secret) == 0 {
		return "", nil, errors.New("access token secret is not configured")
	}
	now := t.now()
	claims := &Claims{
		Email:     user.Email,
		Name:      user.Name,
		IsStudent: user.IsStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims.session(), nil
}

func (t *TokenIssuer) Parse(token string) (*domain.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims.session(), nil
}

func (c *Claims) session() *domain.Session {
	s := &domain.Session{
		UserID:    c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		IsStudent: c.IsStudent,
		TokenID:   c.ID,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
