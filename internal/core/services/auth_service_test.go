package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/config"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/core/money"
	"lms-loanapi/internal/core/services"
	"lms-loanapi/internal/pkg/password"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newAuthService(t *testing.T) (*services.AuthService, *store, *fakeRefreshTokenRepo) {
	t.Helper()
	s := newStore()
	tokenRepo := newFakeRefreshTokenRepo()
	auth := services.NewAuthService(&fakeUserRepo{s: s}, tokenRepo, &fakeCustomerRepo{s: s}, testConfig())
	return auth, s, tokenRepo
}

func TestAuthService_Register(t *testing.T) {
	auth, s, _ := newAuthService(t)

	result, err := auth.Register(context.Background(), &services.RegisterInput{
		Username: "john.doe",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "john.doe", result.User.Username)
	assert.Equal(t, string(domain.RoleCustomer), result.User.Role)
	// no customer profile until an admin grants a credit limit
	assert.Nil(t, result.User.CustomerID)

	// stored password is hashed
	stored, err := (&fakeUserRepo{s: s}).GetByUsername(context.Background(), "john.doe")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.Password)
	assert.True(t, password.Verify("password123", stored.Password))

	_, err = auth.Register(context.Background(), &services.RegisterInput{
		Username: "john.doe",
		Password: "password456",
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	_, err = auth.Register(context.Background(), &services.RegisterInput{
		Username: "short.pw",
		Password: "short",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Login(t *testing.T) {
	auth, s, _ := newAuthService(t)

	hashed, err := password.Hash("password123")
	require.NoError(t, err)
	user := s.addUser(&models.User{Username: "john.doe", Password: hashed, Role: string(domain.RoleCustomer), IsActive: true})
	customer := s.addCustomer(&models.Customer{UserID: user.ID, Name: "John", Surname: "Doe", CreditLimit: money.MustFromString("10000.00")})

	result, err := auth.Login(context.Background(), &services.LoginInput{Username: "john.doe", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	require.NotNil(t, result.User.CustomerID)
	assert.Equal(t, customer.ID, *result.User.CustomerID)

	_, err = auth.Login(context.Background(), &services.LoginInput{Username: "john.doe", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), &services.LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user.IsActive = false
	_, err = auth.Login(context.Background(), &services.LoginInput{Username: "john.doe", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_Refresh_Rotation(t *testing.T) {
	auth, _, tokenRepo := newAuthService(t)

	registered, err := auth.Register(context.Background(), &services.RegisterInput{
		Username: "john.doe",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// the presented token is single use
	_, err = auth.Refresh(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// the rotated one still works
	_, err = auth.Refresh(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)

	// two revoked, one live
	live := 0
	for _, token := range tokenRepo.tokens {
		if token.RevokedAt == nil {
			live++
		}
	}
	assert.Equal(t, 1, live)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	auth, _, _ := newAuthService(t)

	_, err := auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestAuthService_LogoutAll(t *testing.T) {
	auth, _, tokenRepo := newAuthService(t)

	registered, err := auth.Register(context.Background(), &services.RegisterInput{
		Username: "john.doe",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, auth.LogoutAll(context.Background(), registered.User.ID))
	for _, token := range tokenRepo.tokens {
		assert.NotNil(t, token.RevokedAt)
	}
}
