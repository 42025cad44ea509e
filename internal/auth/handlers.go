package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"balance-backend/internal/httpx"
)

type Handler struct {
	db     *sql.DB
	secret []byte
	log    *zap.Logger
}

func NewHandler(db *sql.DB, secret []byte, log *zap.Logger) *Handler {
	return &Handler{db: db, secret: secret, log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register: POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var exists int
	err := h.db.QueryRowContext(r.Context(),
		"SELECT COUNT(*) FROM users WHERE email=$1", req.Email,
	).Scan(&exists)
	if err == nil && exists > 0 {
		httpx.WriteError(w, http.StatusBadRequest, "email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var id int64
	err = h.db.QueryRowContext(r.Context(),
		"INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id",
		req.Email, string(hash),
	).Scan(&id)
	if err != nil {
		h.log.Error("register insert failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := GenerateToken(h.secret, id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", id))
	httpx.WriteJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// Login: POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var id int64
	var hash string
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, password FROM users WHERE email=$1", req.Email,
	).Scan(&id, &hash)
	if err != nil {
		httpx.WriteError(w, http.StatusForbidden, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		httpx.WriteError(w, http.StatusForbidden, "invalid credentials")
		return
	}

	token, err := GenerateToken(h.secret, id)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.log.Info("user logged in", zap.Int64("user_id", id))
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Me: GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var email string
	err := h.db.QueryRowContext(r.Context(),
		"SELECT email FROM users WHERE id=$1", uid,
	).Scan(&email)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":    uid,
		"email": email,
	})
}
