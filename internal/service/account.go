package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/repository"
	"github.com/harith2255/ecommerce-frontend/internal/upstream"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

// Authenticator exchanges credentials for an identity and bearer token.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*upstream.Credentials, error)
	Login(ctx context.Context, email, password string) (*upstream.Credentials, error)
}

// RegisterInput holds the sign-up form fields.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput holds the sign-in form fields.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// tokenClaims is the subset of the platform JWT we rely on.
type tokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// AccountService signs users in and out and resolves bearer tokens back to
// sessions. Sessions are kept in durable storage so a restart does not sign
// everyone out; if the record is gone the session is rebuilt from the
// token's own claims.
type AccountService struct {
	auth       Authenticator
	sessions   repository.SessionRepository
	logger     *slog.Logger
	jwtSecret  []byte
	sessionTTL time.Duration
}

// NewAccountService creates an account service.
func NewAccountService(auth Authenticator, sessions repository.SessionRepository, logger *slog.Logger, jwtSecret string, sessionTTL time.Duration) *AccountService {
	return &AccountService{
		auth:       auth,
		sessions:   sessions,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

// Register creates an account upstream and opens a session for it.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Session, error) {
	creds, err := s.auth.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.openSession(ctx, creds)
}

// Login authenticates upstream and opens a session.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*domain.Session, error) {
	creds, err := s.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return s.openSession(ctx, creds)
}

// Logout discards the stored session for the token. A missing session is
// not an error; logout is idempotent.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Resolve verifies the bearer token and returns the session it belongs to.
// The token signature and expiry are always checked locally; the stored
// session record saves a rebuild but is not required.
func (s *AccountService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("missing bearer token")
	}

	claims, err := s.verifyToken(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "session lookup failed, using token claims",
				slog.String("error", err.Error()))
		}
		sess = s.sessionFromClaims(token, claims)
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.WarnContext(ctx, "session rebuild persist failed",
				slog.String("error", err.Error()))
		}
	}

	if sess.IsExpired() {
		return nil, apperrors.Unauthorized("session expired")
	}
	return sess, nil
}

func (s *AccountService) openSession(ctx context.Context, creds *upstream.Credentials) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		User:      creds.User,
		Token:     creds.Token,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if claims, err := s.verifyToken(creds.Token); err == nil {
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(sess.ExpiresAt) {
			sess.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "session opened",
		slog.String("user_id", sess.User.ID),
		slog.String("role", sess.User.Role))

	return sess, nil
}

func (s *AccountService) verifyToken(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("token expired")
		}
		return nil, apperrors.Unauthorized("invalid token")
	}
	if !parsed.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}

func (s *AccountService) sessionFromClaims(token string, claims *tokenClaims) *domain.Session {
	now := time.Now().UTC()
	expires := now.Add(s.sessionTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	role := claims.Role
	if role == "" {
		role = domain.RoleCustomer
	}

	return &domain.Session{
		User: domain.User{
			ID:       claims.Subject,
			Name:     claims.Name,
			Email:    claims.Email,
			Role:     role,
			IsActive: true,
		},
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expires,
	}
}
