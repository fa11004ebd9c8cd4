package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
	"github.com/devconnector/profile-api/internal/pkg/password"
	"github.com/devconnector/profile-api/internal/pkg/token"
)

// AuthService implements registration, login, and current-user lookup.
type AuthService struct {
	users  ports.UserRepository
	tokens *token.Service
	events ports.EventPublisher
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens *token.Service, events ports.EventPublisher, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, events: events, logger: logger}
}

// Register creates an account with a gravatar-derived avatar and a bcrypt
// password hash, then returns a token for the new user.
func (s *AuthService) Register(ctx context.Context, name, email, plain string) (string, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("register: %w", err)
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       gravatarURL(email),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return s.tokens.Issue(created.ID)
}

// Login authenticates by email and password. An unknown email and a wrong
// password both return ErrInvalidCredentials so callers cannot enumerate
// registered addresses.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !password.Verify(plain, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	s.events.Publish(ports.ProfileEventInput{UserID: user.ID, Action: ports.ActionLogin, At: time.Now().UTC()})
	return tok, nil
}

// CurrentUser loads the authenticated caller's account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// gravatarURL derives the avatar from the e-mail the way Gravatar specifies:
// md5 of the trimmed, lowercased address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}
