package property

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/agency-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle        = "title"
	fieldPrice        = "price"
	fieldLocation     = "location"
	fieldDescription  = "description"
	fieldLandArea     = "land_area"
	fieldBuildingArea = "building_area"
	fieldYearBuilt    = "year_built"
	fieldLegality     = "legality"
	fieldFeatures     = "features"
	fieldStatus       = "status"
	fieldPhotoKeys    = "photo_keys"
)

const photoURLTTL = 15 * time.Minute

type Service interface {
	Create(ctx context.Context, agentID string, req domain.CreatePropertyRequest) (*domain.Property, error)
	List(ctx context.Context, agentID string) ([]domain.Property, error)
	Get(ctx context.Context, agentID, propertyID string) (*domain.Property, error)
	PublicGet(ctx context.Context, propertyID string) (*domain.PublicProperty, error)
	Update(ctx context.Context, agentID, propertyID string, req domain.UpdatePropertyRequest) (*domain.Property, error)
	Delete(ctx context.Context, agentID, propertyID string) error
	AddPhoto(ctx context.Context, agentID, propertyID, filename string, r io.Reader, contentType string) (string, error)
	PhotoURL(ctx context.Context, agentID, propertyID, key string) (string, error)
}

type propertyStore interface {
	Put(ctx context.Context, p *domain.Property) error
	Get(ctx context.Context, propertyID string) (*domain.Property, error)
	ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
	Update(ctx context.Context, propertyID string, updates map[string]interface{}) error
	Delete(ctx context.Context, propertyID string) error
}

type agentStore interface {
	Get(ctx context.Context, agentID string) (*domain.Agent, error)
}

type clientStore interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error)
}

type photoStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	props   propertyStore
	agents  agentStore
	clients clientStore
	photos  photoStore
	sms     smsSender
}

func NewService(props propertyStore, agents agentStore, clients clientStore, photos photoStore, sms smsSender) Service {
	return &service{props: props, agents: agents, clients: clients, photos: photos, sms: sms}
}

func (s *service) Create(ctx context.Context, agentID string, req domain.CreatePropertyRequest) (*domain.Property, error) {
	now := time.Now().UTC()
	p := &domain.Property{
		PropertyID:   id.New(),
		AgentID:      agentID,
		Title:        req.Title,
		Price:        req.Price,
		Location:     req.Location,
		Description:  req.Description,
		LandArea:     req.LandArea,
		BuildingArea: req.BuildingArea,
		YearBuilt:    req.YearBuilt,
		Legality:     req.Legality,
		Features:     req.Features,
		Status:       domain.PropertyAvailable,
		PhotoKeys:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.props.Put(ctx, p); err != nil {
		return nil, err
	}
	s.notifyInterestMatches(ctx, p)
	return p, nil
}

func (s *service) List(ctx context.Context, agentID string) ([]domain.Property, error) {
	return s.props.ListByAgent(ctx, agentID)
}

func (s *service) Get(ctx context.Context, agentID, propertyID string) (*domain.Property, error) {
	return s.getOwned(ctx, agentID, propertyID)
}

func (s *service) PublicGet(ctx context.Context, propertyID string) (*domain.PublicProperty, error) {
	p, err := s.props.Get(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	pub := &domain.PublicProperty{Property: *p}
	if a, err := s.agents.Get(ctx, p.AgentID); err == nil {
		pub.AgentName = a.Name
		pub.AgentAgency = a.Agency
		pub.AgentPhone = a.Phone
	}
	return pub, nil
}

func (s *service) Update(ctx context.Context, agentID, propertyID string, req domain.UpdatePropertyRequest) (*domain.Property, error) {
	if _, err := s.getOwned(ctx, agentID, propertyID); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates[fieldTitle] = *req.Title
	}
	if req.Price != nil {
		updates[fieldPrice] = *req.Price
	}
	if req.Location != nil {
		updates[fieldLocation] = *req.Location
	}
	if req.Description != nil {
		updates[fieldDescription] = *req.Description
	}
	if req.LandArea != nil {
		updates[fieldLandArea] = *req.LandArea
	}
	if req.BuildingArea != nil {
		updates[fieldBuildingArea] = *req.BuildingArea
	}
	if req.YearBuilt != nil {
		updates[fieldYearBuilt] = *req.YearBuilt
	}
	if req.Legality != nil {
		updates[fieldLegality] = *req.Legality
	}
	if req.Features != nil {
		updates[fieldFeatures] = *req.Features
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.PropertyAvailable, domain.PropertySold:
			updates[fieldStatus] = *req.Status
		default:
			return nil, fmt.Errorf("invalid status: %w", domain.ErrBadRequest)
		}
	}
	if len(updates) == 0 {
		return s.getOwned(ctx, agentID, propertyID)
	}
	if err := s.props.Update(ctx, propertyID, updates); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, agentID, propertyID)
}

func (s *service) Delete(ctx context.Context, agentID, propertyID string) error {
	p, err := s.getOwned(ctx, agentID, propertyID)
	if err != nil {
		return err
	}
	if err := s.props.Delete(ctx, propertyID); err != nil {
		return err
	}
	for _, key := range p.PhotoKeys {
		if err := s.photos.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete property photo", "property_id", propertyID, "key", key, "err", err)
		}
	}
	return nil
}

func (s *service) AddPhoto(ctx context.Context, agentID, propertyID, filename string, r io.Reader, contentType string) (string, error) {
	p, err := s.getOwned(ctx, agentID, propertyID)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("properties/%s/%s-%s", propertyID, id.New(), filename)
	if _, err := s.photos.Upload(ctx, key, r, contentType); err != nil {
		return "", err
	}
	keys := append(p.PhotoKeys, key)
	if err := s.props.Update(ctx, propertyID, map[string]interface{}{fieldPhotoKeys: keys}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *service) PhotoURL(ctx context.Context, agentID, propertyID, key string) (string, error) {
	p, err := s.getOwned(ctx, agentID, propertyID)
	if err != nil {
		return "", err
	}
	for _, k := range p.PhotoKeys {
		if k == key {
			return s.photos.PresignedURL(ctx, key, photoURLTTL)
		}
	}
	return "", fmt.Errorf("photo not found: %w", domain.ErrNotFound)
}

// getOwned fetches a property and enforces agent ownership. Another agent's
// property is reported as not found, never as forbidden, so listing IDs
// cannot be probed.
func (s *service) getOwned(ctx context.Context, agentID, propertyID string) (*domain.Property, error) {
	p, err := s.props.Get(ctx, propertyID)
	if err != nil || p.AgentID != agentID {
		return nil, fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return p, nil
}

// notifyInterestMatches sends the owning agent an SMS when existing clients'
// budget ranges cover the new listing's price. Fire-and-forget: failures are
// logged and never fail the create.
func (s *service) notifyInterestMatches(ctx context.Context, p *domain.Property) {
	if s.sms == nil {
		return
	}
	clients, err := s.clients.ListByAgent(ctx, p.AgentID)
	if err != nil {
		slog.Warn("interest match lookup failed", "property_id", p.PropertyID, "err", err)
		return
	}
	matches := 0
	for i := range clients {
		if budgetCovers(&clients[i], p.Price) {
			matches++
		}
	}
	if matches == 0 {
		return
	}
	a, err := s.agents.Get(ctx, p.AgentID)
	if err != nil || a.Phone == "" {
		return
	}
	msg := fmt.Sprintf("%d client(s) have a budget matching your new listing %q", matches, p.Title)
	if err := s.sms.SendSMS(ctx, a.Phone, msg); err != nil {
		slog.Warn("failed to send interest match SMS", "agent_id", p.AgentID, "err", err)
	}
}

func budgetCovers(c *domain.Client, price float64) bool {
	if c.BudgetMin == nil && c.BudgetMax == nil {
		return false
	}
	if c.BudgetMin != nil && price < *c.BudgetMin {
		return false
	}
	if c.BudgetMax != nil && price > *c.BudgetMax {
		return false
	}
	return true
}
