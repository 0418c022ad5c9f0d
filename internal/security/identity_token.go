package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

var (
	ErrTokenMissing = errors.New("missing token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("expired token")
	ErrWeakSecret   = errors.New("secret key must be at least 32 characters")
)

type identityClaims struct {
	jwt.RegisteredClaims
}

// TokenAuthority signs and verifies the HS256 bearer tokens that carry an
// external identity subject.
type TokenAuthority struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenAuthority(secret string, issuer string) (*TokenAuthority, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	return &TokenAuthority{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}, nil
}

func (authority *TokenAuthority) SetClock(now func() time.Time) {
	if now != nil {
		authority.now = now
	}
}

func (authority *TokenAuthority) Mint(subject string, ttl time.Duration) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", fmt.Errorf("mint token: empty subject")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := authority.now()

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    authority.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(authority.secret)
}

// Verify returns the subject of a valid token.
func (authority *TokenAuthority) Verify(rawToken string) (string, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", ErrTokenMissing
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(authority.now),
	}
	if authority.issuer != "" {
		options = append(options, jwt.WithIssuer(authority.issuer))
	}

	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		return authority.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
