package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/pribylovaa/pomodoro-backend/internal/errors"
	"github.com/pribylovaa/pomodoro-backend/internal/http/middleware"
	"github.com/pribylovaa/pomodoro-backend/internal/service"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
}

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type logoutResponse struct {
	Message string `json:"message"`
}

// Register — POST /auth/register.
// 201 + access-токен в теле, refresh-токен — только в HttpOnly-куке.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in authRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	tp, _, err := h.svc.RegisterUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	setRefreshCookie(w, tp.RefreshToken, h.cookie)
	writeJSON(w, http.StatusCreated, authResponse{AccessToken: tp.AccessToken})
}

// Login — POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in authRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.ErrInvalidArgument)
		return
	}

	tp, _, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	setRefreshCookie(w, tp.RefreshToken, h.cookie)
	writeJSON(w, http.StatusOK, authResponse{AccessToken: tp.AccessToken})
}

// Refresh — POST /auth/refresh.
// Ротирует пару токенов по refresh-куке. Отсутствующая или невалидная
// кука зачищается на клиенте, чтобы браузер не слал её повторно.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		clearRefreshCookie(w, h.cookie)
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	tp, _, err := h.svc.RefreshTokens(r.Context(), cookie.Value)
	if err != nil {
		if isAuthFailure(err) {
			clearRefreshCookie(w, h.cookie)
		}
		apierrors.WriteError(w, r, err)
		return
	}

	setRefreshCookie(w, tp.RefreshToken, h.cookie)
	writeJSON(w, http.StatusOK, authResponse{AccessToken: tp.AccessToken})
}

// Logout — POST /auth/logout.
// Идемпотентен: зачищает куку и отвечает 200 даже без активной сессии.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	clearRefreshCookie(w, h.cookie)
	writeJSON(w, http.StatusOK, logoutResponse{Message: "successfully logged out"})
}

// Me — GET /auth/me (за guard-мидлваром).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrInvalidToken)
		return
	}

	user, err := h.svc.UserByID(r.Context(), uid)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:    user.ID.String(),
		Email: user.Email,
	})
}

// isAuthFailure — отказ аутентификации (в отличие от инфраструктурной
// ошибки хранилища, при которой куку трогать нельзя).
func isAuthFailure(err error) bool {
	return errors.Is(err, service.ErrInvalidToken) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenMissingSubject) ||
		errors.Is(err, service.ErrUserNotFound)
}
