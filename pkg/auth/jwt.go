package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by access and refresh tokens. TokenID backs the
// revocation list: revoking a token only needs its jti and expiry.
type Claims struct {
	jwt.RegisteredClaims
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
}

// TokenID returns the jti of the token.
func (c *Claims) TokenID() string {
	return c.ID
}

// JWTService issues and validates bearer credentials.
type JWTService interface {
	GenerateAccessToken(accountID uuid.UUID, email string) (string, error)
	GenerateRefreshToken(accountID uuid.UUID, email string) (string, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
	AccessTokenTTL() time.Duration
}

type jwtService struct {
	secret        []byte
	refreshSecret []byte
	expiry        time.Duration
	refreshExpiry time.Duration
}

// Config holds JWT signing configuration.
type Config struct {
	Secret             string
	RefreshSecret      string
	ExpiryHours        int
	RefreshExpiryHours int
}

func NewJWTService(cfg Config) JWTService {
	if cfg.ExpiryHours <= 0 {
		cfg.ExpiryHours = 24
	}
	if cfg.RefreshExpiryHours <= 0 {
		cfg.RefreshExpiryHours = 24 * 7
	}
	return &jwtService{
		secret:        []byte(cfg.Secret),
		refreshSecret: []byte(cfg.RefreshSecret),
		expiry:        time.Duration(cfg.ExpiryHours) * time.Hour,
		refreshExpiry: time.Duration(cfg.RefreshExpiryHours) * time.Hour,
	}
}

func (s *jwtService) GenerateAccessToken(accountID uuid.UUID, email string) (string, error) {
	return s.generate(accountID, email, s.secret, s.expiry)
}

func (s *jwtService) GenerateRefreshToken(accountID uuid.UUID, email string) (string, error) {
	return s.generate(accountID, email, s.refreshSecret, s.refreshExpiry)
}

func (s *jwtService) generate(accountID uuid.UUID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AccountID: accountID,
		Email:     email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, s.secret)
}

func (s *jwtService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, s.refreshSecret)
}

func (s *jwtService) validate(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.expiry
}
