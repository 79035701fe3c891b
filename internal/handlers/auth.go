package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"todoapp/internal/db"
	"todoapp/internal/models"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		sendError(w, "Too many register attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}
	if !validateCredentials(input, w) {
		return
	}

	user := &models.User{
		Username: input.Username,
		Password: input.Password,
	}
	if err := h.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			sendError(w, "Username already taken", http.StatusConflict)
			return
		}
		log.Printf("Error creating user %s: %v", input.Username, err)
		sendError(w, "Cannot save user", http.StatusInternalServerError)
		return
	}

	access, refresh, err := h.Tokens.IssuePair(user.Username)
	if err != nil {
		log.Printf("Error issuing tokens for %s: %v", user.Username, err)
		sendError(w, "Cannot create token", http.StatusInternalServerError)
		return
	}

	log.Printf("User registered: %s", user.Username)
	sendJSON(w, http.StatusCreated, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method for login", http.StatusMethodNotAllowed)
		return
	}

	clientIP := r.RemoteAddr
	if h.RateLimiter != nil && !h.RateLimiter.Allow(clientIP) {
		log.Printf("Rate limit exceeded for IP: %s", clientIP)
		sendError(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
		return
	}

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}
	if !validateCredentials(input, w) {
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("Error retrieving user %s: %v", input.Username, err)
		}
		sendError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	// opaque byte-for-byte comparison, see UserRepositoryInterface
	if user.Password != input.Password {
		log.Printf("Invalid password for user: %s", input.Username)
		sendError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	access, refresh, err := h.Tokens.IssuePair(user.Username)
	if err != nil {
		log.Printf("Error issuing tokens for %s: %v", user.Username, err)
		sendError(w, "Cannot create token", http.StatusInternalServerError)
		return
	}

	log.Printf("User logged in: %s", user.Username)
	sendJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// Refresh rotates a refresh token into a fresh access/refresh pair.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "Use POST method", http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, "Bad JSON", http.StatusBadRequest)
		return
	}
	if input.RefreshToken == "" {
		sendError(w, "refresh_token is required", http.StatusBadRequest)
		return
	}

	access, refresh, err := h.Tokens.Rotate(input.RefreshToken)
	if err != nil {
		sendError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	sendJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

// Me echoes the authenticated subject; wire it behind AuthMiddleware.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		sendError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"username": subject})
}

func validateCredentials(input credentials, w http.ResponseWriter) bool {
	if strings.TrimSpace(input.Username) == "" {
		sendError(w, "Username is required", http.StatusBadRequest)
		return false
	}
	if len(input.Password) < 4 {
		sendError(w, "Password must be at least 4 characters long", http.StatusBadRequest)
		return false
	}
	return true
}
