package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ecotrace/ecotrace-backend/internal/api/middleware"
	"github.com/ecotrace/ecotrace-backend/internal/domain"
	"github.com/ecotrace/ecotrace-backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *UserResponse `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type ValidateResponse struct {
	Valid bool          `json:"valid"`
	User  *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID            string    `json:"id"`
	IsAnonymous   bool      `json:"is_anonymous"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func newUserResponse(user *domain.User) *UserResponse {
	resp := &UserResponse{
		ID:            user.ID.String(),
		IsAnonymous:   user.IsAnonymous,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
	if user.Email != nil {
		resp.Email = *user.Email
	}
	if user.Name != nil {
		resp.Name = *user.Name
	}
	return resp
}

// Token issues a token for a brand-new anonymous user. No body needed.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	result, err := h.authService.IssueAnonymous(r.Context())
	if err != nil {
		log.Printf("ERROR [auth.Token] failed to issue anonymous token: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: result.Token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAuthError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			writeAuthError(w, http.StatusConflict, "Email already registered")
		case errors.Is(err, service.ErrWeakPassword):
			writeAuthError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		default:
			log.Printf("ERROR [auth.Register] registration failed: %v", err)
			writeAuthError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Token:   result.Token,
		User:    newUserResponse(result.User),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeAuthError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Unknown email and wrong password share one message.
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeAuthError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Printf("ERROR [auth.Login] login failed: %v", err)
		writeAuthError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Token:   result.Token,
		User:    newUserResponse(result.User),
	})
}

// Validate reports whether the presented token resolves to a user. It
// answers 200 either way; only authenticated routes hard-fail with 401.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.TokenHeader)
	if token == "" {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	user, err := h.authService.Validate(r.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			log.Printf("ERROR [auth.Validate] validation failed: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, User: newUserResponse(user)})
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, AuthResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
