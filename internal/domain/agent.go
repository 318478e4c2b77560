package domain

import "time"

// Agent is a property-agency account. The PIN is stored as a bcrypt hash,
// never in plaintext. OTPCode and OTPExpiresAt are either both nil (no
// verification outstanding) or both set.
type Agent struct {
	AgentID      string    `json:"id" dynamodbav:"agent_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Name         string    `json:"name" dynamodbav:"name"`
	Agency       string    `json:"agency" dynamodbav:"agency"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	PINHash      string    `json:"-" dynamodbav:"pin_hash"`
	Verified     bool      `json:"verified" dynamodbav:"verified"`
	OTPCode      *string   `json:"-" dynamodbav:"otp_code"`
	OTPExpiresAt *int64    `json:"-" dynamodbav:"otp_expires_at"` // Unix seconds
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type RegisterAgentRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	PIN    string `json:"pin" validate:"required,min=4,max=72"`
	Agency string `json:"agency"`
	Phone  string `json:"phone"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	PIN   string `json:"pin" validate:"required"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type UpdateAgentRequest struct {
	Name   *string `json:"name"`
	Agency *string `json:"agency"`
	Phone  *string `json:"phone"`
}
