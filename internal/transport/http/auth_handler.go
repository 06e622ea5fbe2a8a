package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
	"slotbook/backend/internal/service/users"
	"slotbook/backend/internal/store"
)

type usersService interface {
	SignUp(ctx context.Context, in users.SignUpInput) (domain.User, error)
	Login(ctx context.Context, login, password string) (string, domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}

type AuthHandler struct {
	svc usersService
	log *slog.Logger
}

func NewAuthHandler(svc usersService, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.auth")),
	}
}

type userPayload struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func toUserPayload(u domain.User) userPayload {
	return userPayload{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "SignUp"))

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_body"))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	u, err := h.svc.SignUp(r.Context(), users.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			log.Info("signup conflict", slog.String("username", req.Username))
			writeError(w, http.StatusConflict, "username or email already registered")
			return
		}
		var vErr *users.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			writeError(w, http.StatusBadRequest, vErr.Error())
			return
		}
		log.Error("signup failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("user registered", slog.String("user_id", u.ID.String()), slog.String("username", u.Username))
	writeJSON(w, http.StatusCreated, toUserPayload(u))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "Login"))

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_body"))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			log.Info("login rejected", slog.String("login", req.Login))
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		log.Error("login failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("user logged in", slog.String("user_id", u.ID.String()))
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "Me"))

	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	u, err := h.svc.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error("user lookup failed", slog.Any("err", err), slog.String("user_id", userID.String()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toUserPayload(u))
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListUsers"))

	rows, err := h.svc.ListAll(r.Context())
	if err != nil {
		log.Error("users list failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]userPayload, 0, len(rows))
	for _, u := range rows {
		out = append(out, toUserPayload(u))
	}
	writeJSON(w, http.StatusOK, out)
}
