package client

import (
	"context"
	"fmt"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/agency-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName         = "name"
	fieldWhatsApp     = "whatsapp"
	fieldProspect     = "prospect"
	fieldBudgetMin    = "budget_min"
	fieldBudgetMax    = "budget_max"
	fieldNotes        = "notes"
	fieldInteractions = "interactions"
	fieldInterests    = "interest_property_ids"
)

// maxRecommendations caps how many listings a budget match may return.
const maxRecommendations = 6

type Service interface {
	Create(ctx context.Context, agentID string, req domain.CreateClientRequest) (*domain.Client, error)
	List(ctx context.Context, agentID string) ([]domain.Client, error)
	Get(ctx context.Context, agentID, clientID string) (*domain.ClientDetail, error)
	Update(ctx context.Context, agentID, clientID string, req domain.UpdateClientRequest) (*domain.Client, error)
	Delete(ctx context.Context, agentID, clientID string) error
	AddInteraction(ctx context.Context, agentID, clientID string, req domain.AddInteractionRequest) (*domain.Client, error)
	AddInterest(ctx context.Context, agentID, clientID, propertyID string) (*domain.Client, error)
	RemoveInterest(ctx context.Context, agentID, clientID, propertyID string) (*domain.Client, error)
	Recommendations(ctx context.Context, agentID, clientID string) ([]domain.Property, error)
}

type clientStore interface {
	Put(ctx context.Context, c *domain.Client) error
	Get(ctx context.Context, clientID string) (*domain.Client, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error)
	Update(ctx context.Context, clientID string, updates map[string]interface{}) error
	Delete(ctx context.Context, clientID string) error
}

type propertyStore interface {
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListAvailableByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
}

type service struct {
	clients clientStore
	props   propertyStore
}

func NewService(clients clientStore, props propertyStore) Service {
	return &service{clients: clients, props: props}
}

func (s *service) Create(ctx context.Context, agentID string, req domain.CreateClientRequest) (*domain.Client, error) {
	now := time.Now().UTC()
	c := &domain.Client{
		ClientID:            id.New(),
		AgentID:             agentID,
		Name:                req.Name,
		WhatsApp:            req.WhatsApp,
		Prospect:            req.Prospect,
		Interactions:        []domain.Interaction{},
		InterestPropertyIDs: []string{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.clients.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, agentID string) ([]domain.Client, error) {
	return s.clients.ListByAgent(ctx, agentID)
}

func (s *service) Get(ctx context.Context, agentID, clientID string) (*domain.ClientDetail, error) {
	c, err := s.getOwned(ctx, agentID, clientID)
	if err != nil {
		return nil, err
	}
	detail := &domain.ClientDetail{Client: *c, InterestedProperties: []domain.Property{}}
	for _, pid := range c.InterestPropertyIDs {
		p, err := s.props.Get(ctx, pid)
		if err != nil || p.AgentID != agentID {
			// Interest may reference a listing deleted since; skip it.
			continue
		}
		detail.InterestedProperties = append(detail.InterestedProperties, *p)
	}
	return detail, nil
}

func (s *service) Update(ctx context.Context, agentID, clientID string, req domain.UpdateClientRequest) (*domain.Client, error) {
	if _, err := s.getOwned(ctx, agentID, clientID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.WhatsApp != nil {
		updates[fieldWhatsApp] = *req.WhatsApp
	}
	if req.Prospect != nil {
		switch *req.Prospect {
		case domain.ProspectCold, domain.ProspectWarm, domain.ProspectHot:
			updates[fieldProspect] = *req.Prospect
		default:
			return nil, fmt.Errorf("invalid prospect: %w", domain.ErrBadRequest)
		}
	}
	if req.BudgetMin != nil {
		updates[fieldBudgetMin] = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		updates[fieldBudgetMax] = *req.BudgetMax
	}
	if req.Notes != nil {
		updates[fieldNotes] = *req.Notes
	}
	if len(updates) == 0 {
		return s.getOwned(ctx, agentID, clientID)
	}
	if err := s.clients.Update(ctx, clientID, updates); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, agentID, clientID)
}

func (s *service) Delete(ctx context.Context, agentID, clientID string) error {
	if _, err := s.getOwned(ctx, agentID, clientID); err != nil {
		return err
	}
	return s.clients.Delete(ctx, clientID)
}

func (s *service) AddInteraction(ctx context.Context, agentID, clientID string, req domain.AddInteractionRequest) (*domain.Client, error) {
	c, err := s.getOwned(ctx, agentID, clientID)
	if err != nil {
		return nil, err
	}
	entry := domain.Interaction{
		InteractionID: id.New(),
		Content:       req.Content,
		CreatedAt:     time.Now().UTC(),
	}
	// Newest first.
	interactions := append([]domain.Interaction{entry}, c.Interactions...)
	if err := s.clients.Update(ctx, clientID, map[string]interface{}{fieldInteractions: interactions}); err != nil {
		return nil, err
	}
	c.Interactions = interactions
	return c, nil
}

func (s *service) AddInterest(ctx context.Context, agentID, clientID, propertyID string) (*domain.Client, error) {
	c, err := s.getOwned(ctx, agentID, clientID)
	if err != nil {
		return nil, err
	}
	p, err := s.props.Get(ctx, propertyID)
	if err != nil || p.AgentID != agentID {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	for _, pid := range c.InterestPropertyIDs {
		if pid == propertyID {
			return c, nil
		}
	}
	interests := append(c.InterestPropertyIDs, propertyID)
	if err := s.clients.Update(ctx, clientID, map[string]interface{}{fieldInterests: interests}); err != nil {
		return nil, err
	}
	c.InterestPropertyIDs = interests
	return c, nil
}

func (s *service) RemoveInterest(ctx context.Context, agentID, clientID, propertyID string) (*domain.Client, error) {
	c, err := s.getOwned(ctx, agentID, clientID)
	if err != nil {
		return nil, err
	}
	interests := make([]string, 0, len(c.InterestPropertyIDs))
	for _, pid := range c.InterestPropertyIDs {
		if pid != propertyID {
			interests = append(interests, pid)
		}
	}
	if len(interests) == len(c.InterestPropertyIDs) {
		return c, nil
	}
	if err := s.clients.Update(ctx, clientID, map[string]interface{}{fieldInterests: interests}); err != nil {
		return nil, err
	}
	c.InterestPropertyIDs = interests
	return c, nil
}

// Recommendations returns the agent's available listings whose price falls
// inside the client's budget range, newest first, capped at six. A client
// with no budget set gets the most recent available listings instead.
func (s *service) Recommendations(ctx context.Context, agentID, clientID string) ([]domain.Property, error) {
	c, err := s.getOwned(ctx, agentID, clientID)
	if err != nil {
		return nil, err
	}
	available, err := s.props.ListAvailableByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	matches := []domain.Property{}
	for _, p := range available {
		if c.BudgetMin != nil && p.Price < *c.BudgetMin {
			continue
		}
		if c.BudgetMax != nil && p.Price > *c.BudgetMax {
			continue
		}
		matches = append(matches, p)
		if len(matches) == maxRecommendations {
			break
		}
	}
	return matches, nil
}

func (s *service) getOwned(ctx context.Context, agentID, clientID string) (*domain.Client, error) {
	c, err := s.clients.Get(ctx, clientID)
	if err != nil || c.AgentID != agentID {
		return nil, fmt.Errorf("client not found: %w", domain.ErrNotFound)
	}
	return c, nil
}
