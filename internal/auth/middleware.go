package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"contabil-site/internal/core"
)

type contextKey string

const userContextKey = contextKey("user")

// CookieName is the session cookie set at login
const CookieName = "auth_token"

// Middleware provides authentication middleware
type Middleware struct {
	service      *Service
	logger       *core.Logger
	cookieSecure bool
}

// NewMiddleware creates new authentication middleware
func NewMiddleware(service *Service, logger *core.Logger, cookieSecure bool) *Middleware {
	return &Middleware{
		service:      service,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// Authenticate resolves the request user from a bearer token or the
// session cookie. Requests without credentials carry AnonymousUser.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		if authorizationHeader := r.Header.Get("Authorization"); authorizationHeader != "" {
			headerParts := strings.Split(authorizationHeader, " ")
			if len(headerParts) != 2 || headerParts[0] != "Bearer" {
				m.invalidAuthenticationTokenResponse(w, r)
				return
			}

			user, err := m.service.ValidateToken(r.Context(), headerParts[1])
			if err != nil {
				switch {
				case errors.Is(err, ErrInvalidToken):
					m.invalidAuthenticationTokenResponse(w, r)
				default:
					m.logger.Error("Token validation error", "error", err)
					m.serverErrorResponse(w, r)
				}
				return
			}

			next.ServeHTTP(w, contextSetUser(r, user))
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil {
			next.ServeHTTP(w, contextSetUser(r, AnonymousUser))
			return
		}

		user, err := m.service.ValidateToken(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				m.logger.Error("Session validation error", "error", err)
			}
			clearSessionCookie(w, m.cookieSecure)
			next.ServeHTTP(w, contextSetUser(r, AnonymousUser))
			return
		}

		next.ServeHTTP(w, contextSetUser(r, user))
	})
}

// RequireAdmin lets through activated users holding PermissionAdmin.
// Anonymous page requests are redirected to the login page; API requests
// get a JSON 401.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r)

		if user.IsAnonymous() {
			if wantsHTML(r) {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
			m.authenticationRequiredResponse(w, r)
			return
		}

		if !user.Activated {
			m.inactiveAccountResponse(w, r)
			return
		}

		hasPermission, err := m.service.UserHasPermission(r.Context(), user.ID, PermissionAdmin)
		if err != nil {
			m.logger.Error("Permission check error", "error", err)
			m.serverErrorResponse(w, r)
			return
		}

		if !hasPermission {
			m.notPermittedResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func wantsHTML(r *http.Request) bool {
	if strings.Contains(r.URL.Path, "/api/") {
		return false
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func contextSetUser(r *http.Request, user *User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// GetUserFromContext extracts user from request context
func GetUserFromContext(r *http.Request) *User {
	user, ok := r.Context().Value(userContextKey).(*User)
	if !ok {
		return AnonymousUser
	}
	return user
}

func setSessionCookie(w http.ResponseWriter, token *Token, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token.Plaintext,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  token.Expiry,
	})
}

func clearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// Response helpers
func (m *Middleware) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
		core.ErrCodeUnauthorized, "Invalid authentication token", nil))
}

func (m *Middleware) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewAppError(
		core.ErrCodeUnauthorized, "Authentication required", nil))
}

func (m *Middleware) inactiveAccountResponse(w http.ResponseWriter, r *http.Request) {
	core.WriteErrorResponse(w, http.StatusForbidden, core.NewAppError(
		core.ErrCodeForbidden, "Account not activated", nil))
}

func (m *Middleware) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	core.WriteErrorResponse(w, http.StatusForbidden, core.NewAppError(
		core.ErrCodeForbidden, "Permission denied", nil))
}

func (m *Middleware) serverErrorResponse(w http.ResponseWriter, r *http.Request) {
	core.WriteErrorResponse(w, http.StatusInternalServerError, core.NewAppError(
		core.ErrCodeInternal, "Internal server error", nil))
}
