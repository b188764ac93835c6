// Package auth provides password hashing, session tokens and the sign-in /
// sign-up flows shared by the web API and the extension coordinator.
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/sneyderangulo/readinglist/internal/apperror"
	"github.com/sneyderangulo/readinglist/internal/domain"
)

// UserStore is the slice of the persistent store the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}

// Service owns account creation and credential checks.
type Service struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenService
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenService) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Tokens exposes the token service for middleware wiring.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// SignUp creates an account and returns the session projection plus a signed
// token.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (domain.AuthUser, string, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.AuthUser{}, "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.AuthUser{}, "", err
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.AuthUser{}, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.AuthUser{}, "", err
	}
	return user.Session(), token, nil
}

// SignIn checks the credentials and returns the session projection plus a
// signed token. Wrong email and wrong password are indistinguishable to the
// caller.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.AuthUser, string, error) {
	if err := validateCredentials(email, password); err != nil {
		return domain.AuthUser{}, "", err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return domain.AuthUser{}, "", apperror.Unauthorized("invalid email or password")
		}
		return domain.AuthUser{}, "", err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return domain.AuthUser{}, "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return domain.AuthUser{}, "", err
	}
	return user.Session(), token, nil
}

// CurrentUser resolves a user id (from a validated token) to the session
// projection.
func (s *Service) CurrentUser(ctx context.Context, userID string) (domain.AuthUser, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return domain.AuthUser{}, err
	}
	return user.Session(), nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return apperror.Validation("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperror.Validation("email", "email is not valid")
	}
	if password == "" {
		return apperror.Validation("password", "password is required")
	}
	if len(password) < 8 {
		return apperror.Validation("password", "password must be at least 8 characters")
	}
	return nil
}
