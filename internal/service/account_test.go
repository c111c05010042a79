package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/upstream"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
)

const testSecret = "test-secret"

// --- Mock Authenticator ---

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Register(ctx context.Context, name, email, password string) (*upstream.Credentials, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.Credentials), args.Error(1)
}

func (m *mockAuthenticator) Login(ctx context.Context, email, password string) (*upstream.Credentials, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*upstream.Credentials), args.Error(1)
}

// stubSessionRepo is an in-memory SessionRepository keyed by token.
type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	getErr   error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Get(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	sess, ok := r.sessions[token]
	if !ok {
		return nil, apperrors.NotFound("session", "token")
	}
	return sess, nil
}

func (r *stubSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
	return nil
}

func (r *stubSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func signToken(t *testing.T, claims tokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validClaims() tokenClaims {
	return tokenClaims{
		Name:  "Jo",
		Email: "jo@example.com",
		Role:  domain.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

// --- Tests ---

func TestAccountService_Login_OpensSession(t *testing.T) {
	auth := &mockAuthenticator{}
	sessions := newStubSessionRepo()
	svc := NewAccountService(auth, sessions, newTestLogger(), testSecret, 24*time.Hour)

	token := signToken(t, validClaims())
	auth.On("Login", mock.Anything, "jo@example.com", "hunter2").Return(&upstream.Credentials{
		User:  domain.User{ID: "u1", Name: "Jo", Email: "jo@example.com", Role: domain.RoleCustomer, IsActive: true},
		Token: token,
	}, nil)

	sess, err := svc.Login(context.Background(), LoginInput{Email: "jo@example.com", Password: "hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, token, sess.Token)
	assert.False(t, sess.IsExpired())

	// The session is persisted under its token.
	stored, err := sessions.Get(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.User.ID)
	auth.AssertExpectations(t)
}

func TestAccountService_Login_UpstreamRejects(t *testing.T) {
	auth := &mockAuthenticator{}
	svc := NewAccountService(auth, newStubSessionRepo(), newTestLogger(), testSecret, 24*time.Hour)

	auth.On("Login", mock.Anything, "jo@example.com", "wrong").
		Return(nil, apperrors.Unauthorized("invalid credentials"))

	_, err := svc.Login(context.Background(), LoginInput{Email: "jo@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAccountService_Resolve_StoredSession(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := NewAccountService(&mockAuthenticator{}, sessions, newTestLogger(), testSecret, 24*time.Hour)

	token := signToken(t, validClaims())
	require.NoError(t, sessions.Save(context.Background(), &domain.Session{
		User:      domain.User{ID: "u1", Role: domain.RoleAdmin},
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	sess, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.User.ID)
	assert.True(t, sess.IsAdmin())
}

func TestAccountService_Resolve_RebuildsFromClaims(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := NewAccountService(&mockAuthenticator{}, sessions, newTestLogger(), testSecret, 24*time.Hour)

	// No stored session for this token; the verified claims carry enough.
	token := signToken(t, validClaims())
	sess, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.User.ID)
	assert.Equal(t, "jo@example.com", sess.User.Email)
	assert.Equal(t, domain.RoleCustomer, sess.User.Role)

	// The rebuilt session was written back.
	stored, err := sessions.Get(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.User.ID)
}

func TestAccountService_Resolve_BadSignature(t *testing.T) {
	svc := NewAccountService(&mockAuthenticator{}, newStubSessionRepo(), newTestLogger(), testSecret, 24*time.Hour)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), forged)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAccountService_Resolve_ExpiredToken(t *testing.T) {
	svc := NewAccountService(&mockAuthenticator{}, newStubSessionRepo(), newTestLogger(), testSecret, 24*time.Hour)

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, claims)

	_, err := svc.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAccountService_Resolve_MissingToken(t *testing.T) {
	svc := NewAccountService(&mockAuthenticator{}, newStubSessionRepo(), newTestLogger(), testSecret, 24*time.Hour)

	_, err := svc.Resolve(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAccountService_Logout_Idempotent(t *testing.T) {
	sessions := newStubSessionRepo()
	svc := NewAccountService(&mockAuthenticator{}, sessions, newTestLogger(), testSecret, 24*time.Hour)

	token := signToken(t, validClaims())
	require.NoError(t, sessions.Save(context.Background(), &domain.Session{Token: token}))

	require.NoError(t, svc.Logout(context.Background(), token))
	require.NoError(t, svc.Logout(context.Background(), token))
	require.NoError(t, svc.Logout(context.Background(), ""))

	_, err := sessions.Get(context.Background(), token)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccountService_Register_OpensSession(t *testing.T) {
	auth := &mockAuthenticator{}
	sessions := newStubSessionRepo()
	svc := NewAccountService(auth, sessions, newTestLogger(), testSecret, 24*time.Hour)

	token := signToken(t, validClaims())
	auth.On("Register", mock.Anything, "Jo", "jo@example.com", "hunter22").Return(&upstream.Credentials{
		User:  domain.User{ID: "u1", Name: "Jo", Email: "jo@example.com", Role: domain.RoleCustomer, IsActive: true},
		Token: token,
	}, nil)

	sess, err := svc.Register(context.Background(), RegisterInput{Name: "Jo", Email: "jo@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", sess.User.Email)
	auth.AssertExpectations(t)
}
