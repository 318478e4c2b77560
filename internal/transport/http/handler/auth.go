package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agency-api/internal/application/auth"
	"github.com/agency-api/internal/domain"
	"github.com/agency-api/internal/pkg/validate"
	"github.com/agency-api/internal/transport/http/cookie"
	"github.com/agency-api/internal/transport/http/middleware"
)

// AuthHandler handles registration, login, email verification and session
// identity endpoints. It owns all auth cookie writes.
type AuthHandler struct {
	svc        auth.Service
	sessionTTL time.Duration
	secure     bool
}

func NewAuthHandler(svc auth.Service, sessionTTL time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, sessionTTL: sessionTTL, secure: secure}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cookie.SetPending(w, a.AgentID, h.secure)
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		Agent:             a,
		NeedsVerification: true,
		Message:           "verification code sent",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if result.NeedsVerification {
		cookie.SetPending(w, result.Agent.AgentID, h.secure)
		writeJSON(w, http.StatusOK, AuthEnvelope{
			Agent:             result.Agent,
			NeedsVerification: true,
			Message:           "verification code sent",
		})
		return
	}
	h.issueSession(w, result.Token)
	writeJSON(w, http.StatusOK, AuthEnvelope{Agent: result.Agent})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, a, err := h.svc.VerifyOTP(r.Context(), pendingAgentID(r), req.OTP)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cookie.Clear(w, cookie.PendingVerification, h.secure)
	h.issueSession(w, token)
	writeJSON(w, http.StatusOK, AuthEnvelope{Agent: a, Message: "email verified"})
}

func (h *AuthHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResendOTP(r.Context(), pendingAgentID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

// Pending tells the verification page which account is mid verification.
func (h *AuthHandler) Pending(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.PendingAgent(r.Context(), pendingAgentID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Agent: a, NeedsVerification: true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	a, err := h.svc.Identity(r.Context(), claims.AgentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Agent: a})
}

// Logout clears every auth cookie. Tokens are stateless so a copy saved
// before logout stays valid until expiry; clearing the cookies is all the
// server can do.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie.Clear(w, cookie.Session, h.secure)
	cookie.Clear(w, cookie.SessionBackup, h.secure)
	cookie.Clear(w, cookie.PendingVerification, h.secure)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, token string) {
	cookie.SetSession(w, token, h.sessionTTL, h.secure)
	cookie.SetBackup(w, token, h.secure)
}

func pendingAgentID(r *http.Request) string {
	c, err := r.Cookie(cookie.PendingVerification)
	if err != nil {
		return ""
	}
	return c.Value
}
