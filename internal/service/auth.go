package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/security/password"
	"github.com/msomdec/hublocal-manager/internal/security/token"
)

// Session is what a successful register or login hands back to the caller.
type Session struct {
	Identity domain.Identity
	Token    string
}

// AuthService handles user registration, login, and token resolution.
type AuthService struct {
	users             domain.UserRepository
	hasher            *password.Hasher
	tokens            *token.Issuer
	minPasswordLength int
}

// NewAuthService creates a new AuthService. minPasswordLength is the shortest
// password Register accepts.
func NewAuthService(users domain.UserRepository, hasher *password.Hasher, tokens *token.Issuer, minPasswordLength int) *AuthService {
	return &AuthService{
		users:             users,
		hasher:            hasher,
		tokens:            tokens,
		minPasswordLength: minPasswordLength,
	}
}

// Register creates a new user account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, plaintext string) (*Session, error) {
	if err := s.validateRegistration(name, email, plaintext); err != nil {
		return nil, err
	}

	// Fast path only; the unique index on users.email decides races.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)
	return s.newSession(user)
}

// Login verifies credentials and signs a token. Unknown emails and wrong
// passwords both return domain.ErrInvalidCredentials after a bcrypt compare.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.hasher.VerifyNone(plaintext)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// ResolveIdentity maps verified claims back to a live user. A deleted user or
// an email that no longer matches the token yields domain.ErrUnauthorized.
func (s *AuthService) ResolveIdentity(ctx context.Context, claims *token.Claims) (*domain.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if user.Email != claims.Email {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Authenticate verifies a bearer token and resolves its user. Verification
// failures wrap both domain.ErrUnauthorized and the token package error, so
// callers can tell token.ErrExpired apart.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return s.ResolveIdentity(ctx, claims)
}

func (s *AuthService) newSession(user *domain.User) (*Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Identity: user.Identity(), Token: signed}, nil
}

func (s *AuthService) validateRegistration(name, email, plaintext string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !validEmail(email) {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(plaintext) < s.minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, s.minPasswordLength)
	}
	if len(plaintext) > password.MaxLength {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, password.MaxLength)
	}
	return nil
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}
