package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	profileRepo "coursebook/database/repository/profile"
	userRepo "coursebook/database/repository/user"
	"coursebook/models"
)

var (
	// ErrProfileNotFound signals that the user has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrUserNotFound signals that no identity record matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword signals a current-password mismatch on change.
	ErrWrongPassword = errors.New("current password is incorrect")
)

// UserService manages profiles and credentials for authenticated users.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error
	// GetUser resolves an identity record; used by the auth middleware.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Profiles profileRepo.ProfileRepository
}

func (svc *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := svc.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (svc *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.Profile, error) {
	p := &models.Profile{
		UserID:     userID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		PictureURL: req.PictureURL,
	}
	return svc.Profiles.Upsert(ctx, p)
}

// ChangePassword verifies the current password before rehashing. Password
// hashing uses bcrypt at the default cost.
func (svc *DefaultUserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	u, err := svc.Repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	return svc.Repo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (svc *DefaultUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := svc.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
