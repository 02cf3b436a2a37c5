// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/pkg/auth"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUserExists       = errors.New("username or email already taken")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidInput     = errors.New("invalid registration data")
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
	log             logrus.FieldLogger
}

// NewService creates a new user service
func NewService(db *gorm.DB, passwords *auth.PasswordManager, log logrus.FieldLogger) *Service {
	return &Service{
		db:              db,
		passwordManager: passwords,
		log:             log,
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username        string `form:"username" binding:"required,max=50"`
	Email           string `form:"email" binding:"required,email,max=255"`
	Password        string `form:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Validate password confirmation
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	// Check if user already exists
	var taken int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&taken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if taken > 0 {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	user := User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return &user, nil
}

// Authenticate checks a username and password
func (s *Service) Authenticate(ctx context.Context, req *LoginRequest) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// GetByID retrieves a user by id
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return &user, nil
}

// EnsureAdmin creates the administrator account if no user holds its
// username yet. An existing user with that name is promoted.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) (*User, error) {
	var existing User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		if !existing.IsAdmin {
			if err := s.db.WithContext(ctx).Model(&existing).Update("is_admin", true).Error; err != nil {
				return nil, fmt.Errorf("failed to promote admin: %w", err)
			}
			existing.IsAdmin = true
		}
		return &existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := s.passwordManager.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.WithField("username", username).Info("admin account created")
	return &admin, nil
}
