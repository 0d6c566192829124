package auth

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"contabil-site/internal/core"
	"contabil-site/views/portal"
)

// Handler provides authentication and user management HTTP handlers
type Handler struct {
	service      *Service
	logger       *core.Logger
	cookieSecure bool
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, logger *core.Logger, cookieSecure bool) *Handler {
	return &Handler{
		service:      service,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	User  *User  `json:"user"`
	Token *Token `json:"token"`
}

// CreateUserRequest is the body of POST /admin/api/users
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// LoginPageHandler serves the login form
func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	if !GetUserFromContext(r).IsAnonymous() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	h.renderLogin(w, r, http.StatusOK, portal.LoginData{})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data portal.LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := portal.LoginPage(data).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render login page", "error", err)
	}
}

// LoginHandler handles JSON and form logins. Form logins redirect to the
// dashboard; JSON logins return the token.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	form := isFormRequest(r)

	var req LoginRequest
	if form {
		if err := r.ParseForm(); err != nil {
			h.renderLogin(w, r, http.StatusBadRequest, portal.LoginData{Error: "Requisição inválida"})
			return
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Invalid request body", err))
		return
	}

	if req.Email == "" || req.Password == "" {
		if form {
			h.renderLogin(w, r, http.StatusBadRequest, portal.LoginData{Email: req.Email, Error: "Informe e-mail e senha"})
			return
		}
		core.WriteErrorResponse(w, http.StatusBadRequest, core.NewValidationError("Email and password are required", nil))
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			if form {
				h.renderLogin(w, r, http.StatusUnauthorized, portal.LoginData{Email: req.Email, Error: "E-mail ou senha incorretos"})
				return
			}
			core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewUnauthorizedError("Invalid credentials", err))
		case errors.Is(err, ErrUserNotActivated):
			if form {
				h.renderLogin(w, r, http.StatusForbidden, portal.LoginData{Email: req.Email, Error: "Conta desativada"})
				return
			}
			core.WriteErrorResponse(w, http.StatusForbidden, core.NewForbiddenError("Account not activated", err))
		default:
			h.logger.Error("Authentication error", "error", err)
			core.HandleError(w, core.NewInternalError("Authentication failed", err))
		}
		return
	}

	token, err := h.service.CreateAuthenticationToken(r.Context(), user)
	if err != nil {
		h.logger.Error("Token creation error", "error", err)
		core.HandleError(w, core.NewInternalError("Failed to create authentication token", err))
		return
	}

	setSessionCookie(w, token, h.cookieSecure)
	h.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)

	if form {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    LoginResponse{User: user, Token: token},
	})
}

// LogoutHandler invalidates the user's tokens and clears the cookie
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	if user.IsAnonymous() {
		core.WriteErrorResponse(w, http.StatusUnauthorized, core.NewUnauthorizedError("Not authenticated", nil))
		return
	}

	if err := h.service.LogoutUser(r.Context(), user.ID); err != nil {
		h.logger.Error("Logout error", "error", err)
		core.HandleError(w, core.NewInternalError("Logout failed", err))
		return
	}

	clearSessionCookie(w, h.cookieSecure)

	if isFormRequest(r) {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ListUsersHandler returns every admin user
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		core.HandleError(w, core.NewDatabaseError("Failed to list users", err))
		return
	}

	core.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": users})
}

// CreateUserHandler creates an admin user
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.HandleError(w, core.NewValidationError("Invalid request body", err))
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			core.HandleError(w, core.NewValidationError("A user with this email already exists", err))
		default:
			core.HandleError(w, err)
		}
		return
	}

	core.WriteJSON(w, http.StatusCreated, map[string]any{"success": true, "data": user})
}

// DeleteUserHandler deletes a user other than the caller
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		core.HandleError(w, core.NewValidationError("Invalid user id", err))
		return
	}

	err = h.service.DeleteUser(r.Context(), GetUserFromContext(r), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotDeleteSelf):
			core.HandleError(w, core.NewForbiddenError("You cannot delete your own account", err))
		case errors.Is(err, ErrRecordNotFound):
			core.HandleError(w, core.NewNotFoundError("User not found", err))
		default:
			core.HandleError(w, core.NewDatabaseError("Failed to delete user", err))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Routes returns the user management routes mounted under /admin
func (h *Handler) Routes() []core.Route {
	return []core.Route{
		{Method: http.MethodGet, Path: "/api/users", Handler: h.ListUsersHandler},
		{Method: http.MethodPost, Path: "/api/users", Handler: h.CreateUserHandler},
		{Method: http.MethodDelete, Path: "/api/users/{id}", Handler: h.DeleteUserHandler},
	}
}
