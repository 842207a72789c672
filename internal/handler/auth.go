package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/msomdec/shopfront/internal/domain"
	"github.com/msomdec/shopfront/internal/metrics"
	"github.com/msomdec/shopfront/internal/service"
)

// Error codes sent alongside messages.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeRateLimited        = "rate_limited"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidInput       = "invalid_input"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *service.TokenBucket
	metrics *metrics.Collector
}

// NewAuthHandler creates a new AuthHandler. limiter may be nil to disable
// login rate limiting.
func NewAuthHandler(auth *service.AuthService, limiter *service.TokenBucket, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, metrics: collector}
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}, "token": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
		h.recordLogin(metrics.OutcomeRateLimited)
		writeErrorCode(w, http.StatusTooManyRequests, CodeRateLimited, "Too many login attempts. Please try again later.")
		return
	}

	var req domain.Credentials
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.recordLogin(metrics.OutcomeInvalid)
			writeErrorCode(w, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")
			return
		}
		h.recordLogin(metrics.OutcomeError)
		slog.Error("login account", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.recordLogin(metrics.OutcomeSuccess)
	setAuthCookie(w, token, int(service.TokenTTL.Seconds()))
	writeJSON(w, http.StatusOK, toAuthResponse(account, token))
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"email":"...","name":"...","password":"..."}
// Response: 201 {"user": {...}, "token": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterData
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	account, err := h.auth.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.recordRegistration(metrics.OutcomeInvalid)
			writeErrorCode(w, http.StatusConflict, CodeDuplicateEmail, "An account with that email already exists.")
		case errors.Is(err, domain.ErrInvalidInput):
			h.recordRegistration(metrics.OutcomeInvalid)
			writeErrorCode(w, http.StatusUnprocessableEntity, CodeInvalidInput, err.Error())
		default:
			h.recordRegistration(metrics.OutcomeError)
			slog.Error("register account", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	token, err := h.auth.IssueToken(account)
	if err != nil {
		h.recordRegistration(metrics.OutcomeError)
		slog.Error("issue token after register", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	h.recordRegistration(metrics.OutcomeSuccess)
	setAuthCookie(w, token, int(service.TokenTTL.Seconds()))
	writeJSON(w, http.StatusCreated, toAuthResponse(account, token))
}

// HandleLogout clears the auth cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
// POST /api/auth/logout
// Response: {"message": "Logged out successfully"}
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if account := AccountFromContext(r.Context()); account != nil {
		slog.Info("account logged out", "account_id", account.ID)
	}
	setAuthCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUser(account)})
}

func (h *AuthHandler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}

func (h *AuthHandler) recordRegistration(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordRegistration(outcome)
	}
}

func setAuthCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
