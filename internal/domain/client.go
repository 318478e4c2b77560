package domain

import "time"

// Client prospect temperatures.
const (
	ProspectCold = "Cold"
	ProspectWarm = "Warm"
	ProspectHot  = "Hot"
)

// Interaction is one logged contact with a client, stored inline on the
// client record (newest first).
type Interaction struct {
	InteractionID string    `json:"id" dynamodbav:"interaction_id"`
	Content       string    `json:"content" dynamodbav:"content"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
}

// Client is a CRM prospect owned by one agent. InterestPropertyIDs holds the
// listings the client has expressed interest in.
type Client struct {
	ClientID            string        `json:"id" dynamodbav:"client_id"`
	AgentID             string        `json:"agent_id" dynamodbav:"agent_id"`
	Name                string        `json:"name" dynamodbav:"name"`
	WhatsApp            string        `json:"whatsapp" dynamodbav:"whatsapp"`
	Prospect            string        `json:"prospect" dynamodbav:"prospect"`
	BudgetMin           *float64      `json:"budget_min" dynamodbav:"budget_min"`
	BudgetMax           *float64      `json:"budget_max" dynamodbav:"budget_max"`
	Notes               string        `json:"notes" dynamodbav:"notes"`
	Interactions        []Interaction `json:"interactions" dynamodbav:"interactions"`
	InterestPropertyIDs []string      `json:"interest_property_ids" dynamodbav:"interest_property_ids"`
	CreatedAt           time.Time     `json:"created" dynamodbav:"created_at"`
	UpdatedAt           time.Time     `json:"updated" dynamodbav:"updated_at"`
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	WhatsApp string `json:"whatsapp"`
	Prospect string `json:"prospect" validate:"required,oneof=Cold Warm Hot"`
}

type UpdateClientRequest struct {
	Name      *string  `json:"name"`
	WhatsApp  *string  `json:"whatsapp"`
	Prospect  *string  `json:"prospect" validate:"omitempty,oneof=Cold Warm Hot"`
	BudgetMin *float64 `json:"budget_min"`
	BudgetMax *float64 `json:"budget_max"`
	Notes     *string  `json:"notes"`
}

type AddInteractionRequest struct {
	Content string `json:"content" validate:"required"`
}

// ClientDetail is a client plus its interested property records resolved.
type ClientDetail struct {
	Client
	InterestedProperties []Property `json:"interested_properties"`
}
