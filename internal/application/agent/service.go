package agent

import (
	"context"
	"fmt"

	"github.com/agency-api/internal/domain"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName   = "name"
	fieldAgency = "agency"
	fieldPhone  = "phone"
)

// Service manages the calling agent's own profile (the settings page).
type Service interface {
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
	Update(ctx context.Context, agentID string, req domain.UpdateAgentRequest) (*domain.Agent, error)
}

type agentStore interface {
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
	Update(ctx context.Context, agentID string, updates map[string]interface{}) error
}

type service struct {
	agents agentStore
}

func NewService(agents agentStore) Service {
	return &service{agents: agents}
}

func (s *service) Get(ctx context.Context, agentID string) (*domain.Agent, error) {
	a, err := s.agents.Get(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("agent not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

func (s *service) Update(ctx context.Context, agentID string, req domain.UpdateAgentRequest) (*domain.Agent, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Agency != nil {
		updates[fieldAgency] = *req.Agency
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if len(updates) == 0 {
		return s.Get(ctx, agentID)
	}
	if err := s.agents.Update(ctx, agentID, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, agentID)
}
