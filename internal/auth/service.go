// Package auth is the session-issuing half of the backend collaborator:
// it checks admin passwords and hands out access/refresh token pairs.
//
// Access tokens are HS256 JWTs signed with the backend key. Refresh tokens
// are opaque, single-use, and rotated on every refresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/sujalbistaa/secretos/internal/apperr"
	"github.com/sujalbistaa/secretos/internal/models"
	"github.com/sujalbistaa/secretos/internal/repository"
)

// Session is an issued token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         models.AdminUser
}

type Service struct {
	users      repository.AdminUserRepository
	sessions   SessionStore
	signer     *signer
	refreshTTL time.Duration
	hashParams *argon2id.Params
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for token issuance and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.signer.now = now }
}

// WithHashParams overrides the argon2id parameters used for new hashes.
func WithHashParams(p *argon2id.Params) Option {
	return func(s *Service) { s.hashParams = p }
}

func NewService(users repository.AdminUserRepository, sessions SessionStore, key string, accessTTL, refreshTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		users:      users,
		sessions:   sessions,
		signer:     &signer{key: []byte(key), ttl: accessTTL, now: time.Now},
		refreshTTL: refreshTTL,
		hashParams: argon2id.DefaultParams,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignInWithPassword checks the credentials and issues a new session.
// Bad credentials yield ErrInvalidCredentials.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, _, err := argon2id.CheckHash(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, *user)
}

// Refresh exchanges a refresh token for a new session. The old refresh
// token stops working.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	userID, ok, err := s.sessions.Take(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	return s.issue(ctx, *user)
}

// Verify validates an access token.
func (s *Service) Verify(accessToken string) (*Claims, error) {
	return s.signer.parse(accessToken)
}

// SignOut revokes a refresh token.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.sessions.Delete(ctx, refreshToken)
}

// EnsureAdmin creates the admin account if no user with that email exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, fmt.Errorf("admin bootstrap needs both email and password")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return false, fmt.Errorf("bootstrap lookup admin: %w", err)
	}

	hash, err := argon2id.CreateHash(password, s.hashParams)
	if err != nil {
		return false, fmt.Errorf("bootstrap hash password: %w", err)
	}
	if err := s.users.Create(ctx, &models.AdminUser{Email: email, PasswordHash: hash}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) issue(ctx context.Context, user models.AdminUser) (*Session, error) {
	access, expires, err := s.signer.sign(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	if err := s.sessions.Save(ctx, refresh, user.ID, s.refreshTTL); err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expires,
		User:         user,
	}, nil
}
