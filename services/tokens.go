package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoa-server/confs"
	"hoa-server/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both access and refresh tokens.
// Refresh tokens also carry a jti so they can be revoked.
type Claims struct {
	UserID uint          `json:"userId"`
	Email  string        `json:"email"`
	Role   entities.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RevocationStore remembers refresh token ids that may no longer be used.
type RevocationStore interface {
	// Revoke reports false when id had already been revoked.
	Revoke(ctx context.Context, id string, until time.Time) (bool, error)
	IsRevoked(ctx context.Context, id string) (bool, error)
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	revoked       RevocationStore
	now           func() time.Time
}

func NewTokenService(cfg confs.AuthConfig, revoked RevocationStore) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		revoked:       revoked,
		now:           time.Now,
	}
}

// IssuePair signs a fresh access and refresh token for user.
func (s *TokenService) IssuePair(user *entities.User) (*TokenPair, error) {
	now := s.now()
	access, err := s.sign(user, now, s.accessTTL, "", s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(user, now, s.refreshTTL, uuid.NewString(), s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(user *entities.User, now time.Time, ttl time.Duration, id string, secret []byte) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token's signature and expiry.
func (s *TokenService) ParseAccess(token string) (*Claims, error) {
	return parse(token, s.accessSecret)
}

// ParseRefresh verifies a refresh token and rejects revoked ones.
func (s *TokenService) ParseRefresh(ctx context.Context, token string) (*Claims, error) {
	claims, err := parse(token, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// Revoke blocks the refresh token until it would have expired anyway.
// It returns ErrInvalidToken when the token was revoked in the meantime,
// which makes rotation single use even under concurrent refreshes.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	if s.revoked == nil || claims.ID == "" {
		return nil
	}
	until := s.now().Add(s.refreshTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	claimed, err := s.revoked.Revoke(ctx, claims.ID, until)
	if err != nil {
		return err
	}
	if !claimed {
		return ErrInvalidToken
	}
	return nil
}

func parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
