package http

import (
	"context"
	"io"
	"time"

	"github.com/agency-api/internal/domain"
)

// AgentRepository is the minimal interface the router requires from the agent store.
type AgentRepository interface {
	Put(ctx context.Context, a *domain.Agent) error
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
	// GetByEmail resolves an account via the `email-index` GSI.
	GetByEmail(ctx context.Context, email string) (*domain.Agent, error)
	Update(ctx context.Context, agentID string, updates map[string]interface{}) error
}

// PropertyRepository is the minimal interface the router requires from the listing store.
type PropertyRepository interface {
	Put(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
	ListAvailableByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
	CountByAgentStatus(ctx context.Context, agentID, status string) (int, error)
	Update(ctx context.Context, propertyID string, updates map[string]interface{}) error
	Delete(ctx context.Context, propertyID string) error
}

// ClientRepository is the minimal interface the router requires from the CRM store.
type ClientRepository interface {
	Put(ctx context.Context, c *domain.Client) error
	Get(ctx context.Context, clientID string) (*domain.Client, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error)
	CountByAgentProspect(ctx context.Context, agentID, prospect string) (int, error)
	Update(ctx context.Context, clientID string, updates map[string]interface{}) error
	Delete(ctx context.Context, clientID string) error
}

// ReportRepository is the minimal interface the router requires from the report store.
type ReportRepository interface {
	Put(ctx context.Context, rep *domain.Report) error
	Get(ctx context.Context, reportID string) (*domain.Report, error)
	ListRecentByAgent(ctx context.Context, agentID string, limit int32) ([]domain.Report, error)
	Delete(ctx context.Context, reportID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
