package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/smartplan-api/internal/model"
	"github.com/jwalitptl/smartplan-api/internal/repository/memory"
	"github.com/jwalitptl/smartplan-api/pkg/auth"
	apperrors "github.com/jwalitptl/smartplan-api/pkg/errors"
)

func newTestService() *Service {
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	return NewService(memory.NewAccountRepository(), memory.NewTokenStore(), jwtSvc)
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	account, tokens, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "Agent@Example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)
	require.NotNil(t, account)
	require.NotNil(t, tokens)

	assert.Equal(t, "agent@example.com", account.Email)
	assert.Equal(t, "Jane Agent", account.FullName)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, "secret-password", account.PasswordHash)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &model.RegisterRequest{Password: "secret-password"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, _, err = svc.Register(ctx, &model.RegisterRequest{Email: "agent@example.com"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, _, err = svc.Register(ctx, &model.RegisterRequest{
		Email:    "AGENT@example.com",
		Password: "other-password",
		FullName: "Impostor",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)

	account, tokens, err := svc.Login(ctx, "agent@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", account.Email)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginUniformFailure(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "secret-password")
	_, _, wrongErr := svc.Login(ctx, "agent@example.com", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.True(t, apperrors.IsCode(unknownErr, apperrors.CodeUnauthorized))
	assert.True(t, apperrors.IsCode(wrongErr, apperrors.CodeUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, tokens.AccessToken))

	_, err = svc.Authenticate(ctx, tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLogoutInvalidToken(t *testing.T) {
	svc := newTestService()

	err := svc.Logout(context.Background(), "not-a-token")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestRefresh(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "agent@example.com",
		Password: "secret-password",
		FullName: "Jane Agent",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)

	// An access token is not accepted as a refresh token.
	_, err = svc.Refresh(ctx, tokens.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
