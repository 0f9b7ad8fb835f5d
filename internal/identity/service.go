// Package identity implements registration, login, and user lookups.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medbook/medbook/internal/domain"
)

// TokenAuthenticator issues and verifies access tokens.
type TokenAuthenticator interface {
	IssueToken(userID string) (string, error)
	VerifyToken(token string) (userID string, err error)
}

// Service implements the identity business logic.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	auth   TokenAuthenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, hasher PasswordHasher, auth TokenAuthenticator) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		auth:   auth,
	}
}

// RegisterInput contains registration data. Role defaults to patient
// when empty.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Register creates a user and returns it together with a fresh access
// token. Duplicate emails surface as ErrEmailExists via the storage
// uniqueness constraint; there is no separate existence check.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	role := domain.Role(input.Role)
	if input.Role == "" {
		role = domain.RolePatient
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidRole, input.Role)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Name:         input.Name,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// LoginInput contains login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a fresh access
// token. An unknown email and a wrong password both map to
// ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		// A stored hash bcrypt cannot parse is a data error, not a wrong
		// password; surfacing it as ErrInvalidCredentials would hide it.
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// ValidateToken verifies an access token and returns its subject. Used by
// the auth middleware; the caller's role is not embedded in the token and
// must be read from the store when a decision depends on it.
func (s *Service) ValidateToken(_ context.Context, token string) (string, error) {
	userID, err := s.auth.VerifyToken(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// GetUserByID returns a user by id.
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// ListDoctors returns all users with the doctor role.
func (s *Service) ListDoctors(ctx context.Context) ([]domain.User, error) {
	doctors, err := s.repo.ListUsersByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}
