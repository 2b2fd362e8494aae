package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskroster/taskroster/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	Type  string `json:"typ"`
	Email string `json:"email,omitempty"`
}

type TokenPair struct {
	Access     string
	Refresh    string
	RefreshJTI string
	ExpiresIn  time.Duration
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(env *config.AuthEnv) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(env.JWTSecret),
		issuer:     env.JWTIssuer,
		accessTTL:  env.AccessTokenTTL,
		refreshTTL: env.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *TokenIssuer) Issue(userID, email string) (*TokenPair, error) {
	now := i.now()
	access, err := i.sign(userID, email, TokenTypeAccess, ulid.Make().String(), now, i.accessTTL)
	if err != nil {
		return nil, err
	}
	jti := ulid.Make().String()
	refresh, err := i.sign(userID, "", TokenTypeRefresh, jti, now, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh, RefreshJTI: jti, ExpiresIn: i.accessTTL}, nil
}

func (i *TokenIssuer) sign(userID, email, typ, jti string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    i.issuer,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:  typ,
		Email: email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry, issuer and token type.
func (i *TokenIssuer) Parse(token, wantType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("invalid token: expected %s token, got %q", wantType, claims.Type)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return &claims, nil
}
