package domain

import "time"

// Property listing statuses.
const (
	PropertyAvailable = "AVAILABLE"
	PropertySold      = "SOLD"
)

// Property is a listing owned by one agent. PhotoKeys are S3 object keys;
// the objects themselves never pass through DynamoDB.
type Property struct {
	PropertyID   string    `json:"id" dynamodbav:"property_id"`
	AgentID      string    `json:"agent_id" dynamodbav:"agent_id"`
	Title        string    `json:"title" dynamodbav:"title"`
	Price        float64   `json:"price" dynamodbav:"price"`
	Location     string    `json:"location" dynamodbav:"location"`
	Description  string    `json:"description" dynamodbav:"description"`
	LandArea     float64   `json:"land_area" dynamodbav:"land_area"`
	BuildingArea float64   `json:"building_area" dynamodbav:"building_area"`
	YearBuilt    int       `json:"year_built" dynamodbav:"year_built"`
	Legality     string    `json:"legality" dynamodbav:"legality"`
	Features     string    `json:"features" dynamodbav:"features"`
	Status       string    `json:"status" dynamodbav:"status"`
	PhotoKeys    []string  `json:"photo_keys" dynamodbav:"photo_keys"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreatePropertyRequest struct {
	Title        string  `json:"title" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Location     string  `json:"location" validate:"required"`
	Description  string  `json:"description"`
	LandArea     float64 `json:"land_area"`
	BuildingArea float64 `json:"building_area"`
	YearBuilt    int     `json:"year_built"`
	Legality     string  `json:"legality"`
	Features     string  `json:"features"`
}

type UpdatePropertyRequest struct {
	Title        *string  `json:"title"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	LandArea     *float64 `json:"land_area"`
	BuildingArea *float64 `json:"building_area"`
	YearBuilt    *int     `json:"year_built"`
	Legality     *string  `json:"legality"`
	Features     *string  `json:"features"`
	Status       *string  `json:"status" validate:"omitempty,oneof=AVAILABLE SOLD"`
}

// PublicProperty is the listing view exposed without authentication,
// including the agent's contact card.
type PublicProperty struct {
	Property
	AgentName   string `json:"agent_name"`
	AgentAgency string `json:"agent_agency"`
	AgentPhone  string `json:"agent_phone"`
}
