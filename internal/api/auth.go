package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"gochat/internal/common"
	"gochat/internal/store"
)

type AuthHandler struct {
	users  store.UserStore
	tokens *common.TokenManager
}

func NewAuthHandler(users store.UserStore, tokens *common.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := common.ValidateEmail(req.Email); err != nil {
		writeError(w, fmt.Errorf("%s: %w", err, common.ErrInvalid))
		return
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		writeError(w, fmt.Errorf("%s: %w", err, common.ErrInvalid))
		return
	}
	if req.FullName == "" {
		writeError(w, fmt.Errorf("full name is required: %w", common.ErrInvalid))
		return
	}

	email := common.NormalizeEmail(req.Email)
	if _, err := h.users.GetUserByEmail(r.Context(), email); err == nil {
		writeError(w, fmt.Errorf("account %s already exists: %w", email, common.ErrPolicy))
		return
	} else if !common.IsNotFound(err) {
		writeError(w, err)
		return
	}

	hash, err := common.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &store.User{
		Email:        email,
		FullName:     req.FullName,
		Avatar:       req.Avatar,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.Generate(user.Email, user.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	logrus.WithField("email", email).Info("account registered")
	user.PasswordHash = ""
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	email := common.NormalizeEmail(req.Email)
	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		// A missing account and a bad password answer the same way.
		if common.IsNotFound(err) {
			writeError(w, fmt.Errorf("invalid credentials: %w", common.ErrAuthentication))
			return
		}
		writeError(w, err)
		return
	}
	if err := common.CheckPassword(req.Password, user.PasswordHash); err != nil {
		writeError(w, fmt.Errorf("invalid credentials: %w", common.ErrAuthentication))
		return
	}

	token, err := h.tokens.Generate(user.Email, user.FullName)
	if err != nil {
		writeError(w, err)
		return
	}

	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByEmail(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}
