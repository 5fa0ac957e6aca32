package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clinops/internal/auth"
	apperrors "clinops/internal/errors"
	"clinops/internal/model"
	"clinops/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// Unknown emails and wrong passwords are indistinguishable.
	ErrInvalidCredentials = &apperrors.Error{Kind: apperrors.ErrUnauthorized, Message: "Invalid email or password", Code: "INVALID_CREDENTIALS"}
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = &apperrors.Error{Kind: apperrors.ErrConflict, Message: "User with this email already exists", Code: "USER_ALREADY_EXISTS"}
	// ErrSessionInvalid is returned when a session does not resolve to a user.
	ErrSessionInvalid = &apperrors.Error{Kind: apperrors.ErrUnauthorized, Message: "Not authenticated"}
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password string, name *string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, principal *auth.Principal) error
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with hashed password and signs a session token.
func (s *authService) Register(ctx context.Context, email, password string, name *string) (*model.User, string, error) {
	email = NormalizeEmail(email)

	// Check if user already exists
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", ErrUserAlreadyExists
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	// Signed before the insert; a signing failure must not leave a row.
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         trimmedOrNil(name),
	}

	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and signs a session token.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Logout revokes the session token for the rest of its lifetime. A nil
// principal is a no-op.
func (s *authService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || s.tokenStore == nil {
		return nil
	}
	ttl := timeUntil(principal.ExpiresAt)
	return s.tokenStore.Revoke(ctx, principal.TokenID, ttl)
}

// Me loads the user behind a session.
func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
