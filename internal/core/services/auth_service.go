package services

import (
	"context"
	"errors"
	"log"

	"lms-loanapi/internal/adapters/persistence/models"
	"lms-loanapi/internal/adapters/persistence/repositories"
	"lms-loanapi/internal/config"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/pkg/jwt"
	"lms-loanapi/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	customerRepo     repositories.CustomerRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	customerRepo repositories.CustomerRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		customerRepo:     customerRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new customer user. The customer profile with its
// credit limit is created separately by an admin.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if input.Username == "" || !password.Validate(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashed,
		Role:     string(domain.RoleCustomer),
		IsActive: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("User registered: %s", user.Username)
	return s.buildAuthResponse(ctx, user)
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	log.Printf("User logged in: %s", user.Username)
	return s.buildAuthResponse(ctx, user)
}

// Refresh rotates the refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	tokenHash := password.HashToken(refreshToken)
	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if stored.IsRevoked() {
		return nil, domain.ErrTokenInvalid
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Token rotation: the presented refresh token is single use
	if err := s.refreshTokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(ctx, user)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.refreshTokenRepo.RevokeAllByUserID(ctx, userID)
}

// Me returns the profile of the given user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	userResponse := user.ToResponse()
	if customer, err := s.customerRepo.GetByUserID(ctx, user.ID); err == nil {
		userResponse.CustomerID = &customer.ID
	}
	return userResponse, nil
}

// buildAuthResponse issues a token pair and stores the refresh token hash
func (s *AuthService) buildAuthResponse(ctx context.Context, user *models.User) (*AuthResponse, error) {
	var customerID *uint
	if customer, err := s.customerRepo.GetByUserID(ctx, user.ID); err == nil {
		customerID = &customer.ID
	}

	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		customerID,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	token := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	userResponse := user.ToResponse()
	userResponse.CustomerID = customerID

	return &AuthResponse{
		User:         userResponse,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
