package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/stashkeep/stashkeep/internal/auth"
	"github.com/stashkeep/stashkeep/internal/handler/dto"
	"github.com/stashkeep/stashkeep/internal/service"
)

// AuthHandler handles registration, login and the protected probe route.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAccountError(w, err, "Error registering user")
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid username or password")
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleAccountError(w, err, "Error logging in")
		return
	}

	h.logger.Info("user logged in", slog.String("username", req.Username))

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Token:   token,
	})
}

// Protected handles GET /protected. It only runs behind the auth
// middleware, so an identity is always present.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	writeJSON(w, http.StatusOK, dto.UserResponse{
		Success: true,
		Message: "Access granted to protected route",
		User:    identity,
	})
}

// handleAccountError maps account service errors to HTTP responses.
// Store and hashing failures are logged with detail but returned to the
// client as a generic message.
func (h *AuthHandler) handleAccountError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidCredentials):
		writeFail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("account operation failed", slog.String("error", err.Error()))
		writeFail(w, http.StatusInternalServerError, generic)
	}
}
