package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	profileRepo "coursebook/database/repository/profile"
	userRepo "coursebook/database/repository/user"
	"coursebook/models"
	"coursebook/utils"
)

// Issued tokens stay valid for a day.
const tokenValidity = 24 * time.Hour

var (
	// ErrEmailTaken signals that an identity already exists for the email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; login never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthResult is a freshly minted token plus the identity behind it.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService registers identities and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Users    userRepo.UserRepository
	Profiles profileRepo.ProfileRepository
}

// Register creates an identity with the user role, seeds its profile and
// returns a signed token.
func (svc *DefaultAuthService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	existing, err := svc.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		Role:         "user",
		PasswordHash: string(hash),
	}
	if err := svc.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := svc.Profiles.Upsert(ctx, &models.Profile{UserID: u.ID, FullName: req.FullName}); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

// Login verifies credentials and returns a signed token.
func (svc *DefaultAuthService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	u, err := svc.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}
