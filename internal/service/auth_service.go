package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"ganspro/internal/model"
	"ganspro/internal/repository"
	"ganspro/internal/utils"
)

var (
	ErrMissingFields      = errors.New("all fields are required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrAccountExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Same shape check the signup form applies client-side.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// AuthService provides account registration and credential verification
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*model.Account, error)
	Login(ctx context.Context, email, password string) (model.Identity, string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	studentRepo repository.StudentRepository
	jwtUtil     *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, studentRepo repository.StudentRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		jwtUtil:     jwtUtil,
	}
}

// Register creates a new account with the default student role
func (s *authService) Register(ctx context.Context, email, password, name string) (*model.Account, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleStudent // Default role

	// Check for initial admin setup via environment variable
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && email == initialAdminEmail {
		role = model.RoleAdmin
		log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_EMAIL.", email)
	}

	now := time.Now()
	account := &model.Account{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
		Balance:      0,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
		// EmailVerified stays nil until the verification flow confirms it.
	}

	if err := s.userRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race between the existence check and the insert.
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to create account in repository: %w", err)
	}

	if account.Role == model.RoleStudent {
		profile := &model.StudentProfile{
			UserID:    account.ID,
			Status:    "Active",
			StudentNo: fmt.Sprintf("STU-%d-%04d", now.Year(), account.ID),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.studentRepo.CreateProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("account created, but failed to create student profile: %w", err)
		}
	}

	return account, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (model.Identity, string, error) {
	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return model.Identity{}, "", fmt.Errorf("error finding account by email: %w", err)
	}
	if account == nil {
		return model.Identity{}, "", ErrInvalidCredentials // Account not found
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return model.Identity{}, "", ErrInvalidCredentials // Password mismatch
	}

	identity := model.IdentityOf(account)

	token, err := s.jwtUtil.GenerateToken(identity)
	if err != nil {
		return model.Identity{}, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return identity, token, nil
}
