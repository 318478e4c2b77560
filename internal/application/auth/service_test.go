package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockAgentStore struct{ mock.Mock }

func (m *mockAgentStore) Get(ctx context.Context, agentID string) (*domain.Agent, error) {
	args := m.Called(ctx, agentID)
	if a, _ := args.Get(0).(*domain.Agent); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAgentStore) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Agent); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAgentStore) Put(ctx context.Context, a *domain.Agent) error {
	return m.Called(ctx, a).Error(0)
}
func (m *mockAgentStore) Update(ctx context.Context, agentID string, updates map[string]interface{}) error {
	return m.Called(ctx, agentID, updates).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(agentID, email string) (string, error) {
	args := m.Called(agentID, email)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func hashPIN(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(h)
}

func ptr[T any](v T) *T { return &v }

func verifiedAgent(t *testing.T) *domain.Agent {
	return &domain.Agent{
		AgentID:  "a1",
		Email:    "a@x.com",
		Name:     "Andi",
		PINHash:  hashPIN(t, "123456"),
		Verified: true,
	}
}

func pendingAgent(t *testing.T, code string, expiresAt int64) *domain.Agent {
	return &domain.Agent{
		AgentID:      "a1",
		Email:        "a@x.com",
		Name:         "Andi",
		PINHash:      hashPIN(t, "123456"),
		Verified:     false,
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}
}

// --- Register ---

func TestRegister_EmailConflict(t *testing.T) {
	as := &mockAgentStore{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Agent{}, nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, err := svc.Register(context.Background(), domain.RegisterAgentRequest{
		Name: "Andi", Email: "A@X.com ", PIN: "123456",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	as.AssertExpectations(t)
}

func TestRegister_HappyPath(t *testing.T) {
	as := &mockAgentStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	as.On("Put", mock.Anything, mock.AnythingOfType("*domain.Agent")).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(as, ml, &mockSigner{})
	a, err := svc.Register(context.Background(), domain.RegisterAgentRequest{
		Name: "Andi", Email: "A@X.com", PIN: "123456", Agency: "Demo", Phone: "628123",
	})

	require.NoError(t, err)
	assert.Equal(t, "a@x.com", a.Email)
	assert.False(t, a.Verified)
	require.NotNil(t, a.OTPCode)
	require.NotNil(t, a.OTPExpiresAt)
	assert.Len(t, *a.OTPCode, 6)
	assert.Greater(t, *a.OTPExpiresAt, time.Now().Unix())
	assert.NotEqual(t, "123456", a.PINHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PINHash), []byte("123456")))
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestRegister_EmailDispatchFailure_IsNotFatal(t *testing.T) {
	as := &mockAgentStore{}
	ml := &mockMailer{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	as.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := NewService(as, ml, &mockSigner{})
	a, err := svc.Register(context.Background(), domain.RegisterAgentRequest{
		Name: "Andi", Email: "a@x.com", PIN: "123456",
	})

	require.NoError(t, err)
	assert.NotNil(t, a.OTPCode)
}

// --- Login ---

func TestLogin_UnknownEmail(t *testing.T) {
	as := &mockAgentStore{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", PIN: "123456"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogin_WrongPIN(t *testing.T) {
	as := &mockAgentStore{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(verifiedAgent(t), nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", PIN: "999999"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	// Generic message only; must not say which field was wrong.
	assert.NotContains(t, err.Error(), "PIN")
	assert.NotContains(t, err.Error(), "email")
}

func TestLogin_Unverified_IssuesFreshOTP(t *testing.T) {
	as := &mockAgentStore{}
	ml := &mockMailer{}
	a := pendingAgent(t, "111111", time.Now().Add(-time.Hour).Unix())
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(a, nil)
	as.On("Update", mock.Anything, "a1", mock.MatchedBy(func(u map[string]interface{}) bool {
		code, ok := u[fieldOTPCode].(string)
		return ok && len(code) == 6
	})).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(as, ml, &mockSigner{})
	res, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", PIN: "123456"})

	require.NoError(t, err)
	assert.True(t, res.NeedsVerification)
	assert.Empty(t, res.Token)
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestLogin_Verified_ReturnsToken(t *testing.T) {
	as := &mockAgentStore{}
	sg := &mockSigner{}
	as.On("GetByEmail", mock.Anything, "a@x.com").Return(verifiedAgent(t), nil)
	sg.On("Sign", "a1", "a@x.com").Return("tok", nil)

	svc := NewService(as, &mockMailer{}, sg)
	res, err := svc.Login(context.Background(), domain.LoginRequest{Email: " A@x.com ", PIN: " 123456 "})

	require.NoError(t, err)
	assert.False(t, res.NeedsVerification)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "a1", res.Agent.AgentID)
	sg.AssertExpectations(t)
}

// --- VerifyOTP ---

func TestVerifyOTP_RejectsMalformedInput_BeforeStoreAccess(t *testing.T) {
	as := &mockAgentStore{} // no expectations: the store must not be touched
	svc := NewService(as, &mockMailer{}, &mockSigner{})

	for _, bad := range []string{"", "12345", "1234567", "12345a"} {
		_, _, err := svc.VerifyOTP(context.Background(), "a1", bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
	as.AssertExpectations(t)
}

func TestVerifyOTP_NoPendingSession(t *testing.T) {
	svc := NewService(&mockAgentStore{}, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "", "123456")
	assert.True(t, errors.Is(err, ErrPendingSessionInvalid))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyOTP_AgentGone(t *testing.T) {
	as := &mockAgentStore{}
	as.On("Get", mock.Anything, "a1").Return(nil, domain.ErrNotFound)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "a1", "123456")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestVerifyOTP_NoOutstandingCode(t *testing.T) {
	as := &mockAgentStore{}
	a := verifiedAgent(t) // OTP fields nil
	a.Verified = false
	as.On("Get", mock.Anything, "a1").Return(a, nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "a1", "123456")
	assert.True(t, errors.Is(err, ErrCodeMissing))
}

func TestVerifyOTP_Expired_EvenWhenCodeMatches(t *testing.T) {
	as := &mockAgentStore{}
	as.On("Get", mock.Anything, "a1").Return(pendingAgent(t, "123456", time.Now().Add(-time.Minute).Unix()), nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "a1", "123456")
	assert.True(t, errors.Is(err, ErrCodeExpired))
	assert.True(t, errors.Is(err, domain.ErrExpired))
}

func TestVerifyOTP_Mismatch(t *testing.T) {
	as := &mockAgentStore{}
	as.On("Get", mock.Anything, "a1").Return(pendingAgent(t, "123456", time.Now().Add(time.Minute).Unix()), nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "a1", "654321")
	assert.True(t, errors.Is(err, ErrCodeMismatch))
}

func TestVerifyOTP_HappyPath_ClearsFieldsAndSignsToken(t *testing.T) {
	as := &mockAgentStore{}
	sg := &mockSigner{}
	as.On("Get", mock.Anything, "a1").Return(pendingAgent(t, "123456", time.Now().Add(time.Minute).Unix()), nil)
	as.On("Update", mock.Anything, "a1", mock.MatchedBy(func(u map[string]interface{}) bool {
		v, ok := u[fieldVerified].(bool)
		code, codeSet := u[fieldOTPCode]
		expiry, expirySet := u[fieldOTPExpiresAt]
		return ok && v && codeSet && expirySet &&
			code.(*string) == nil && expiry.(*int64) == nil
	})).Return(nil)
	sg.On("Sign", "a1", "a@x.com").Return("tok", nil)

	svc := NewService(as, &mockMailer{}, sg)
	token, a, err := svc.VerifyOTP(context.Background(), "a1", " 123456 ")

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.True(t, a.Verified)
	assert.Nil(t, a.OTPCode)
	assert.Nil(t, a.OTPExpiresAt)
	as.AssertExpectations(t)
}

func TestVerifyOTP_SecondSubmission_FailsWithCodeMissing(t *testing.T) {
	// After a successful verification the OTP fields are cleared, so
	// replaying the same code must fail with the missing-code error.
	as := &mockAgentStore{}
	cleared := verifiedAgent(t)
	as.On("Get", mock.Anything, "a1").Return(cleared, nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, _, err := svc.VerifyOTP(context.Background(), "a1", "123456")
	assert.True(t, errors.Is(err, ErrCodeMissing))
}

// --- ResendOTP ---

func TestResendOTP_RegeneratesRegardlessOfExpiry(t *testing.T) {
	as := &mockAgentStore{}
	ml := &mockMailer{}
	// Code still valid; resend must replace it anyway.
	as.On("Get", mock.Anything, "a1").Return(pendingAgent(t, "111111", time.Now().Add(5*time.Minute).Unix()), nil)
	as.On("Update", mock.Anything, "a1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasCode := u[fieldOTPCode]
		_, hasExpiry := u[fieldOTPExpiresAt]
		return hasCode && hasExpiry
	})).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(as, ml, &mockSigner{})
	require.NoError(t, svc.ResendOTP(context.Background(), "a1"))
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestResendOTP_NoPendingSession(t *testing.T) {
	svc := NewService(&mockAgentStore{}, &mockMailer{}, &mockSigner{})
	err := svc.ResendOTP(context.Background(), "")
	assert.True(t, errors.Is(err, ErrPendingSessionInvalid))
}

// --- Identity ---

func TestIdentity_ResolvesAgent(t *testing.T) {
	as := &mockAgentStore{}
	as.On("Get", mock.Anything, "a1").Return(verifiedAgent(t), nil)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	a, err := svc.Identity(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", a.Email)
}

func TestIdentity_Unknown(t *testing.T) {
	as := &mockAgentStore{}
	as.On("Get", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	svc := NewService(as, &mockMailer{}, &mockSigner{})
	_, err := svc.Identity(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
