package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/shoplane/shoplane-backend/pkg/auth"
	"github.com/shoplane/shoplane-backend/pkg/config"
	"github.com/shoplane/shoplane-backend/pkg/db"
	"github.com/shoplane/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/shoplane/shoplane-backend/pkg/errors"
	"github.com/shoplane/shoplane-backend/pkg/redis"
	"github.com/shoplane/shoplane-backend/pkg/security"
)

// UserRepository resolves credentials to identity records.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore tracks issued access sessions.
type SessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SessionKey(sessionID string) string
}

// LoginResult carries the minted token and its subject.
type LoginResult struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
}

// Service authenticates users and validates live sessions.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// ServiceParams bundles the service dependencies.
type ServiceParams struct {
	Users    UserRepository
	Sessions SessionStore
	JWT      config.JWTConfig
}

type service struct {
	users    UserRepository
	sessions SessionStore
	jwt      config.JWTConfig
}

// NewService wires an auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{users: params.Users, sessions: params.Sessions, jwt: params.JWT}, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := time.Now().UTC()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		Permissions: user.Permissions,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if s.sessions != nil {
		claims, err := auth.ParseAccessToken(s.jwt, token)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read minted token")
		}
		key := s.sessions.SessionKey(claims.ID)
		if err := s.sessions.Set(ctx, key, user.ID, s.jwt.Expiration()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
		}
	}

	return &LoginResult{
		Token:       token,
		ExpiresAt:   now.Add(s.jwt.Expiration()),
		UserID:      user.ID,
		Username:    user.Username,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}, nil
}

// HasSession reports whether the session id is still live. With no session
// store configured every parsed token is accepted.
func (s *service) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if s.sessions == nil {
		return true, nil
	}
	_, err := s.sessions.Get(ctx, s.sessions.SessionKey(sessionID))
	if err == redis.ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
