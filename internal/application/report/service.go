package report

import (
	"context"
	"fmt"
	"time"

	"github.com/agency-api/internal/domain"
	"github.com/agency-api/internal/pkg/id"
)

// recentReportLimit bounds the reports list and the stats page.
const recentReportLimit = 10

// recentActivityClients is how many of the newest clients feed the
// dashboard activity list.
const recentActivityClients = 5

type Service interface {
	Create(ctx context.Context, agentID string, req domain.CreateReportRequest) (*domain.Report, error)
	List(ctx context.Context, agentID string) ([]domain.Report, error)
	Delete(ctx context.Context, agentID, reportID string) error
	Stats(ctx context.Context, agentID string) (*domain.ReportStats, error)
	Dashboard(ctx context.Context, agentID string) (*domain.DashboardData, error)
}

type reportStore interface {
	Put(ctx context.Context, rep *domain.Report) error
	Get(ctx context.Context, reportID string) (*domain.Report, error)
	ListRecentByAgent(ctx context.Context, agentID string, limit int32) ([]domain.Report, error)
	Delete(ctx context.Context, reportID string) error
}

type propertyStore interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error)
	CountByAgentStatus(ctx context.Context, agentID, status string) (int, error)
}

type clientStore interface {
	ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error)
	CountByAgentProspect(ctx context.Context, agentID, prospect string) (int, error)
}

type service struct {
	reports reportStore
	props   propertyStore
	clients clientStore
}

func NewService(reports reportStore, props propertyStore, clients clientStore) Service {
	return &service{reports: reports, props: props, clients: clients}
}

func (s *service) Create(ctx context.Context, agentID string, req domain.CreateReportRequest) (*domain.Report, error) {
	rep := &domain.Report{
		ReportID:  id.New(),
		AgentID:   agentID,
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.reports.Put(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// List returns the agent's most recent reports, newest first.
func (s *service) List(ctx context.Context, agentID string) ([]domain.Report, error) {
	return s.reports.ListRecentByAgent(ctx, agentID, recentReportLimit)
}

func (s *service) Delete(ctx context.Context, agentID, reportID string) error {
	rep, err := s.reports.Get(ctx, reportID)
	if err != nil || rep.AgentID != agentID {
		return fmt.Errorf("report not found: %w", domain.ErrNotFound)
	}
	return s.reports.Delete(ctx, reportID)
}

func (s *service) Stats(ctx context.Context, agentID string) (*domain.ReportStats, error) {
	props, err := s.props.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	stats := &domain.ReportStats{}
	stats.Properties.Total = len(props)
	// Sold listings count toward the totals but only active ones are listed.
	active := make([]domain.Property, 0, len(props))
	for _, p := range props {
		switch p.Status {
		case domain.PropertyAvailable:
			stats.Properties.Available++
			active = append(active, p)
		case domain.PropertySold:
			stats.Properties.Sold++
		}
	}
	stats.Properties.List = active

	if stats.Clients.Total, err = s.clients.CountByAgentProspect(ctx, agentID, ""); err != nil {
		return nil, err
	}
	if stats.Clients.Cold, err = s.clients.CountByAgentProspect(ctx, agentID, domain.ProspectCold); err != nil {
		return nil, err
	}
	if stats.Clients.Warm, err = s.clients.CountByAgentProspect(ctx, agentID, domain.ProspectWarm); err != nil {
		return nil, err
	}
	if stats.Clients.Hot, err = s.clients.CountByAgentProspect(ctx, agentID, domain.ProspectHot); err != nil {
		return nil, err
	}

	reports, err := s.reports.ListRecentByAgent(ctx, agentID, recentReportLimit)
	if err != nil {
		return nil, err
	}
	stats.Reports = reports
	return stats, nil
}

// Dashboard returns the headline counts plus an activity feed built from the
// agent's most recently added clients.
func (s *service) Dashboard(ctx context.Context, agentID string) (*domain.DashboardData, error) {
	data := &domain.DashboardData{Activities: []domain.Activity{}}

	active, err := s.props.CountByAgentStatus(ctx, agentID, domain.PropertyAvailable)
	if err != nil {
		return nil, err
	}
	sold, err := s.props.CountByAgentStatus(ctx, agentID, domain.PropertySold)
	if err != nil {
		return nil, err
	}
	data.Stats.ActiveCount = active
	data.Stats.SoldCount = sold

	clients, err := s.clients.ListByAgent(ctx, agentID)
	if err != nil {
		return nil, err
	}
	data.Stats.ClientCount = len(clients)

	// ListByAgent returns newest first.
	for i, c := range clients {
		if i == recentActivityClients {
			break
		}
		data.Activities = append(data.Activities, domain.Activity{
			ID:   c.ClientID,
			Text: fmt.Sprintf("New client registered: %s", c.Name),
			At:   c.CreatedAt,
		})
	}
	return data, nil
}
