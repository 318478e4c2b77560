package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/agency-api/internal/pkg/id"
	"github.com/agency-api/internal/pkg/otp"
	"golang.org/x/crypto/bcrypt"
)

// Named failure modes of the OTP verification flow. Each wraps a domain
// sentinel so handlers can map to HTTP status with errors.Is.
var (
	ErrPendingSessionInvalid = fmt.Errorf("verification session invalid: %w", domain.ErrUnauthorized)
	ErrCodeMissing           = fmt.Errorf("no verification code outstanding: %w", domain.ErrNotFound)
	ErrCodeExpired           = fmt.Errorf("verification code expired: %w", domain.ErrExpired)
	ErrCodeMismatch          = fmt.Errorf("verification code mismatch: %w", domain.ErrUnauthorized)
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldVerified     = "verified"
	fieldOTPCode      = "otp_code"
	fieldOTPExpiresAt = "otp_expires_at"
)

// LoginResult is the outcome of a credential check. When the account is not
// yet verified no token is issued; a fresh OTP has been dispatched instead
// and the caller must point the pending-verification cookie at the agent.
type LoginResult struct {
	Token             string
	Agent             *domain.Agent
	NeedsVerification bool
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterAgentRequest) (*domain.Agent, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	VerifyOTP(ctx context.Context, pendingAgentID, code string) (token string, agent *domain.Agent, err error)
	ResendOTP(ctx context.Context, pendingAgentID string) error
	PendingAgent(ctx context.Context, pendingAgentID string) (*domain.Agent, error)
	Identity(ctx context.Context, agentID string) (*domain.Agent, error)
}

type agentStore interface {
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
	Put(ctx context.Context, a *domain.Agent) error
	Update(ctx context.Context, agentID string, updates map[string]interface{}) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type tokenSigner interface {
	Sign(agentID, email string) (string, error)
}

type service struct {
	agents agentStore
	mailer mailer
	signer tokenSigner
}

func NewService(agents agentStore, m mailer, signer tokenSigner) Service {
	return &service{agents: agents, mailer: m, signer: signer}
}

func (s *service) Register(ctx context.Context, req domain.RegisterAgentRequest) (*domain.Agent, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	pin := strings.TrimSpace(req.PIN)

	if _, err := s.agents.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, expires, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	expiresUnix := expires.Unix()

	now := time.Now().UTC()
	a := &domain.Agent{
		AgentID:      id.New(),
		Email:        email,
		Name:         req.Name,
		Agency:       req.Agency,
		Phone:        req.Phone,
		PINHash:      string(hash),
		Verified:     false,
		OTPCode:      &code,
		OTPExpiresAt: &expiresUnix,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.agents.Put(ctx, a); err != nil {
		return nil, err
	}

	// Dispatch failure must not roll back the account; the user can ask for
	// a resend.
	s.dispatchCode(a, code)
	return a, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	pin := strings.TrimSpace(req.PIN)

	a, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("agent not registered: %w", domain.ErrNotFound)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte(pin)) != nil {
		// Generic message: do not reveal whether email or PIN was wrong.
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	if !a.Verified {
		if err := s.issueCode(ctx, a); err != nil {
			return nil, err
		}
		return &LoginResult{Agent: a, NeedsVerification: true}, nil
	}

	token, err := s.signer.Sign(a.AgentID, a.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Agent: a}, nil
}

func (s *service) VerifyOTP(ctx context.Context, pendingAgentID, code string) (string, *domain.Agent, error) {
	code = strings.TrimSpace(code)
	if !otp.Valid(code) {
		return "", nil, fmt.Errorf("code must be exactly 6 digits: %w", domain.ErrBadRequest)
	}
	if pendingAgentID == "" {
		return "", nil, ErrPendingSessionInvalid
	}

	a, err := s.agents.Get(ctx, pendingAgentID)
	if err != nil {
		return "", nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	if a.OTPCode == nil || a.OTPExpiresAt == nil {
		return "", nil, ErrCodeMissing
	}
	if time.Now().Unix() > *a.OTPExpiresAt {
		return "", nil, ErrCodeExpired
	}
	if *a.OTPCode != code {
		return "", nil, ErrCodeMismatch
	}

	var clearCode *string
	var clearExpiry *int64
	if err := s.agents.Update(ctx, a.AgentID, map[string]interface{}{
		fieldVerified:     true,
		fieldOTPCode:      clearCode,
		fieldOTPExpiresAt: clearExpiry,
	}); err != nil {
		return "", nil, err
	}
	a.Verified = true
	a.OTPCode = nil
	a.OTPExpiresAt = nil

	token, err := s.signer.Sign(a.AgentID, a.Email)
	if err != nil {
		return "", nil, err
	}
	return token, a, nil
}

func (s *service) ResendOTP(ctx context.Context, pendingAgentID string) error {
	if pendingAgentID == "" {
		return ErrPendingSessionInvalid
	}
	a, err := s.agents.Get(ctx, pendingAgentID)
	if err != nil {
		return fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	// A resend always issues a fresh code, whatever the state of the old one.
	return s.issueCode(ctx, a)
}

func (s *service) PendingAgent(ctx context.Context, pendingAgentID string) (*domain.Agent, error) {
	if pendingAgentID == "" {
		return nil, ErrPendingSessionInvalid
	}
	a, err := s.agents.Get(ctx, pendingAgentID)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (s *service) Identity(ctx context.Context, agentID string) (*domain.Agent, error) {
	a, err := s.agents.Get(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

// issueCode generates a fresh OTP, persists it on the agent record and
// dispatches it by email. The persist-then-send order means a failed send
// leaves a valid code behind; the user recovers via resend.
func (s *service) issueCode(ctx context.Context, a *domain.Agent) error {
	code, expires, err := otp.Generate()
	if err != nil {
		return err
	}
	expiresUnix := expires.Unix()
	if err := s.agents.Update(ctx, a.AgentID, map[string]interface{}{
		fieldOTPCode:      code,
		fieldOTPExpiresAt: expiresUnix,
	}); err != nil {
		return err
	}
	a.OTPCode = &code
	a.OTPExpiresAt = &expiresUnix
	s.dispatchCode(a, code)
	return nil
}

func (s *service) dispatchCode(a *domain.Agent, code string) {
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It is valid for %d minutes.\n\nIf you did not request this, ignore this email.",
		a.Name, code, int(otp.Validity.Minutes()))
	if err := s.mailer.SendEmail(a.Email, "Verify your email", body); err != nil {
		slog.Error("failed to send verification email", "agent_id", a.AgentID, "err", err)
	}
}
