package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dealroom-et/dealroom/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token expired")
)

const refreshCookieName = "dealroom-refresh"

// TokenConfig configures access and refresh token issuance.
type TokenConfig struct {
	Secret          []byte
	Issuer          string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	RefreshHashKey  []byte // 32 or 64 bytes
	RefreshBlockKey []byte // 16, 24 or 32 bytes
}

// TokenService issues HS256 access tokens and encrypted refresh tokens.
type TokenService struct {
	cfg   TokenConfig
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// AccessClaims are the claims carried by an access token.
type AccessClaims struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Staff     bool   `json:"is_staff"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type refreshPayload struct {
	UserID    string `json:"uid"`
	JTI       string `json:"jti"`
	ExpiresAt int64  `json:"exp"`
}

// TokenPair is returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: token secret is empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	codec := securecookie.New(cfg.RefreshHashKey, cfg.RefreshBlockKey)
	codec.MaxAge(int(cfg.RefreshTTL / time.Second))
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &TokenService{cfg: cfg, codec: codec, now: time.Now}, nil
}

// IssueAccess signs a short-lived access token for u.
func (s *TokenService) IssueAccess(u models.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		Username:  u.Username,
		Email:     u.Email,
		Staff:     u.IsStaff,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   u.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
}

// ParseAccess verifies an access token and returns its principal.
func (s *TokenService) ParseAccess(token string) (Principal, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != "access" || claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		UserID:   claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		IsStaff:  claims.Staff,
	}, nil
}

// IssueRefresh encodes an encrypted, authenticated refresh token for u.
func (s *TokenService) IssueRefresh(u models.User) (string, error) {
	return s.codec.Encode(refreshCookieName, refreshPayload{
		UserID:    u.ID.Hex(),
		JTI:       uuid.NewString(),
		ExpiresAt: s.now().Add(s.cfg.RefreshTTL).Unix(),
	})
}

// ParseRefresh decodes a refresh token and returns the user id it was issued for.
func (s *TokenService) ParseRefresh(token string) (string, error) {
	var p refreshPayload
	if err := s.codec.Decode(refreshCookieName, token, &p); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if p.UserID == "" {
		return "", ErrInvalidToken
	}
	if s.now().Unix() >= p.ExpiresAt {
		return "", ErrExpiredToken
	}
	return p.UserID, nil
}

// IssuePair issues both tokens.
func (s *TokenService) IssuePair(u models.User) (TokenPair, error) {
	access, err := s.IssueAccess(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefresh(u)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
