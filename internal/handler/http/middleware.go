package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harith2255/ecommerce-frontend/internal/domain"
	"github.com/harith2255/ecommerce-frontend/internal/service"
	apperrors "github.com/harith2255/ecommerce-frontend/pkg/errors"
	"github.com/harith2255/ecommerce-frontend/pkg/httputil"
	"github.com/harith2255/ecommerce-frontend/pkg/logger"
)

// CartCookieName identifies the anonymous cart session cookie.
const CartCookieName = "cart_session"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	sessionIDKey contextKey = "cart_session_id"
	authKey      contextKey = "auth_session"
)

// CartSession assigns every visitor a cart session ID via cookie. Carts are
// keyed by this ID, so guests keep their cart across requests without
// signing in.
func CartSession(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if cookie, err := r.Cookie(CartCookieName); err == nil && cookie.Value != "" {
				sid = cookie.Value
			}
			if sid == "" {
				sid = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CartCookieName,
					Value:    sid,
					Path:     "/",
					MaxAge:   maxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), sessionIDKey, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionIDFromContext returns the cart session ID set by CartSession.
func sessionIDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

// bearerToken extracts the credential from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token and attaches the resolved session to
// the request context. Requests without a valid token get 401.
func RequireAuth(accounts *service.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), nil)
				return
			}

			sess, err := accounts.Resolve(r.Context(), token)
			if err != nil {
				httputil.WriteError(w, r, err, nil)
				return
			}

			ctx := context.WithValue(r.Context(), authKey, sess)
			ctx = logger.WithUserID(ctx, sess.User.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects sessions that do not belong to an administrator. It
// must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFromContext(r.Context())
		if sess == nil {
			httputil.WriteError(w, r, apperrors.Unauthorized("authentication required"), nil)
			return
		}
		if !sess.IsAdmin() {
			httputil.WriteError(w, r, apperrors.Forbidden("admin access required"), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFromContext returns the authenticated session set by RequireAuth.
func sessionFromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(authKey).(*domain.Session)
	return sess
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteError(w, r, &apperrors.AppError{
					Code:    "UNSUPPORTED_MEDIA_TYPE",
					Message: "Content-Type must be application/json",
					Status:  http.StatusUnsupportedMediaType,
				}, nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
