package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository"
	"github.com/jwalitptl/smartplan-api/pkg/auth"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

const bcryptCost = 12

// invalidCredentials is the uniform message for both unknown email and
// password mismatch, so login never reveals which factor failed.
const invalidCredentials = "invalid credentials"

type Service struct {
	accountRepo repository.AccountRepository
	tokenStore  repository.TokenStore
	jwtSvc      auth.JWTService
}

func NewService(accountRepo repository.AccountRepository, tokenStore repository.TokenStore, jwtSvc auth.JWTService) *Service {
	return &Service{
		accountRepo: accountRepo,
		tokenStore:  tokenStore,
		jwtSvc:      jwtSvc,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, *model.TokenResponse, error) {
	if req.Email == "" {
		return nil, nil, apperrors.Validation("email is required")
	}
	if req.Password == "" {
		return nil, nil, apperrors.Validation("password is required")
	}

	email := normalizeEmail(req.Email)

	if _, err := s.accountRepo.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.Conflict("a user with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	account := &model.Account{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hashed),
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if err == repository.ErrDuplicate {
			return nil, nil, apperrors.Conflict("a user with this email already exists")
		}
		return nil, nil, apperrors.Internal(err)
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	return account, tokens, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.Account, *model.TokenResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, apperrors.Unauthorized(invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized(invalidCredentials)
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	return account, tokens, nil
}

// Logout revokes the presented access token for the remainder of its
// lifetime. Presenting an invalid token is an auth failure, not a no-op.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtSvc.ValidateAccessToken(accessToken)
	if err != nil {
		return apperrors.Unauthorized("invalid token")
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenStore.Revoke(ctx, claims.TokenID(), ttl); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// Authenticate validates an access token against the signature and the
// revocation list. Used by the bearer middleware.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}

	revoked, err := s.tokenStore.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("token has been revoked")
	}

	return claims, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	account, err := s.accountRepo.Get(ctx, claims.AccountID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tokens, nil
}

func (s *Service) CurrentAccount(ctx context.Context, accountID uuid.UUID) (*model.Account, error) {
	account, err := s.accountRepo.Get(ctx, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.Unauthorized("account no longer exists")
		}
		return nil, apperrors.Internal(err)
	}
	return account, nil
}

func (s *Service) generateTokens(account *model.Account) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
