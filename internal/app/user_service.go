package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"techquiz-service/internal/domain"
)

// TokenIssuer signs an access token for a user ID.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// UserService handles registration and login.
type UserService struct {
	users  UserRepository
	tokens TokenIssuer
	log    *slog.Logger
}

func NewUserService(users UserRepository, tokens TokenIssuer, log *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, log: log}
}

// AuthResponse pairs the public user view with a fresh access token.
type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates an account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := domain.ValidateRegistration(name, email, password).OrNil(); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return AuthResponse{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return AuthResponse{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("user registered", "userId", user.ID)
	return AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email and bad password yield the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := domain.ValidateLogin(email, password).OrNil(); err != nil {
		return AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return AuthResponse{}, domain.ErrInvalidCredentials
		}
		return AuthResponse{}, fmt.Errorf("lookup email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResponse{User: user, Token: token}, nil
}

// Profile returns the public view of one account.
func (s *UserService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
