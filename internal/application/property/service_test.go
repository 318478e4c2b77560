package property

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agency-api/internal/domain"
)

type mockPropertyStore struct{ mock.Mock }

func (m *mockPropertyStore) Put(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyStore) Get(ctx context.Context, propertyID string) (*domain.Property, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyStore) ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyStore) Update(ctx context.Context, propertyID string, updates map[string]interface{}) error {
	return m.Called(ctx, propertyID, updates).Error(0)
}

func (m *mockPropertyStore) Delete(ctx context.Context, propertyID string) error {
	return m.Called(ctx, propertyID).Error(0)
}

type mockAgentStore struct{ mock.Mock }

func (m *mockAgentStore) Get(ctx context.Context, agentID string) (*domain.Agent, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

type mockClientStore struct{ mock.Mock }

func (m *mockClientStore) ListByAgent(ctx context.Context, agentID string) ([]domain.Client, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

type mockPhotoStore struct{ mock.Mock }

func (m *mockPhotoStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockPhotoStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockPhotoStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func ptr[T any](v T) *T { return &v }

func newService() (Service, *mockPropertyStore, *mockAgentStore, *mockClientStore, *mockPhotoStore, *mockSMSSender) {
	props := new(mockPropertyStore)
	agents := new(mockAgentStore)
	clients := new(mockClientStore)
	photos := new(mockPhotoStore)
	sms := new(mockSMSSender)
	return NewService(props, agents, clients, photos, sms), props, agents, clients, photos, sms
}

func ownedProperty(agentID string) *domain.Property {
	return &domain.Property{
		PropertyID: "01HPROP",
		AgentID:    agentID,
		Title:      "Rumah Minimalis Bandung",
		Price:      850_000_000,
		Status:     domain.PropertyAvailable,
		PhotoKeys:  []string{"properties/01HPROP/a-front.jpg"},
	}
}

func TestCreateDefaultsToAvailable(t *testing.T) {
	svc, props, _, clients, _, _ := newService()

	props.On("Put", mock.Anything, mock.MatchedBy(func(p *domain.Property) bool {
		return p.Status == domain.PropertyAvailable && p.AgentID == "agent-1" && p.PropertyID != ""
	})).Return(nil)
	clients.On("ListByAgent", mock.Anything, "agent-1").Return([]domain.Client{}, nil)

	p, err := svc.Create(context.Background(), "agent-1", domain.CreatePropertyRequest{
		Title: "Rumah Minimalis Bandung", Price: 850_000_000, Location: "Bandung",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyAvailable, p.Status)
	props.AssertExpectations(t)
}

func TestCreateSendsMatchSMS(t *testing.T) {
	svc, props, agents, clients, _, sms := newService()

	props.On("Put", mock.Anything, mock.Anything).Return(nil)
	clients.On("ListByAgent", mock.Anything, "agent-1").Return([]domain.Client{
		{ClientID: "c1", BudgetMin: ptr(500_000_000.0), BudgetMax: ptr(900_000_000.0)},
		{ClientID: "c2", BudgetMax: ptr(700_000_000.0)},
		{ClientID: "c3"},
	}, nil)
	agents.On("Get", mock.Anything, "agent-1").Return(&domain.Agent{AgentID: "agent-1", Phone: "+628111"}, nil)
	sms.On("SendSMS", mock.Anything, "+628111", mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "1 client(s)")
	})).Return(nil)

	_, err := svc.Create(context.Background(), "agent-1", domain.CreatePropertyRequest{
		Title: "Villa", Price: 850_000_000,
	})
	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestCreateSMSFailureDoesNotFailCreate(t *testing.T) {
	svc, props, agents, clients, _, sms := newService()

	props.On("Put", mock.Anything, mock.Anything).Return(nil)
	clients.On("ListByAgent", mock.Anything, "agent-1").Return([]domain.Client{
		{ClientID: "c1", BudgetMin: ptr(100.0), BudgetMax: ptr(1000.0)},
	}, nil)
	agents.On("Get", mock.Anything, "agent-1").Return(&domain.Agent{AgentID: "agent-1", Phone: "+628111"}, nil)
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("sns down"))

	_, err := svc.Create(context.Background(), "agent-1", domain.CreatePropertyRequest{Title: "Villa", Price: 500})
	assert.NoError(t, err)
}

func TestGetOtherAgentsPropertyIsNotFound(t *testing.T) {
	svc, props, _, _, _, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("someone-else"), nil)

	_, err := svc.Get(context.Background(), "agent-1", "01HPROP")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc, props, _, _, _, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)

	_, err := svc.Update(context.Background(), "agent-1", "01HPROP", domain.UpdatePropertyRequest{
		Status: ptr("RENTED"),
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	props.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMarksSold(t *testing.T) {
	svc, props, _, _, _, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)
	props.On("Update", mock.Anything, "01HPROP", map[string]interface{}{
		fieldStatus: domain.PropertySold,
	}).Return(nil)

	_, err := svc.Update(context.Background(), "agent-1", "01HPROP", domain.UpdatePropertyRequest{
		Status: ptr(domain.PropertySold),
	})
	require.NoError(t, err)
	props.AssertExpectations(t)
}

func TestDeleteRemovesPhotos(t *testing.T) {
	svc, props, _, _, photos, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)
	props.On("Delete", mock.Anything, "01HPROP").Return(nil)
	photos.On("Delete", mock.Anything, "properties/01HPROP/a-front.jpg").Return(nil)

	err := svc.Delete(context.Background(), "agent-1", "01HPROP")
	require.NoError(t, err)
	photos.AssertExpectations(t)
}

func TestAddPhotoAppendsKey(t *testing.T) {
	svc, props, _, _, photos, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)
	photos.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "properties/01HPROP/") && strings.HasSuffix(key, "-back.jpg")
	}), mock.Anything, "image/jpeg").Return("properties/01HPROP/x-back.jpg", nil)
	props.On("Update", mock.Anything, "01HPROP", mock.MatchedBy(func(updates map[string]interface{}) bool {
		keys, ok := updates[fieldPhotoKeys].([]string)
		return ok && len(keys) == 2
	})).Return(nil)

	key, err := svc.AddPhoto(context.Background(), "agent-1", "01HPROP", "back.jpg", strings.NewReader("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "properties/01HPROP/"))
	props.AssertExpectations(t)
}

func TestPhotoURLUnknownKey(t *testing.T) {
	svc, props, _, _, _, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)

	_, err := svc.PhotoURL(context.Background(), "agent-1", "01HPROP", "properties/01HPROP/missing.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhotoURLPresignsListedKey(t *testing.T) {
	svc, props, _, _, photos, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)
	photos.On("PresignedURL", mock.Anything, "properties/01HPROP/a-front.jpg", photoURLTTL).
		Return("https://bucket.s3/properties/01HPROP/a-front.jpg?sig", nil)

	url, err := svc.PhotoURL(context.Background(), "agent-1", "01HPROP", "properties/01HPROP/a-front.jpg")
	require.NoError(t, err)
	assert.Contains(t, url, "sig")
}

func TestPublicGetIncludesAgentContact(t *testing.T) {
	svc, props, agents, _, _, _ := newService()

	props.On("Get", mock.Anything, "01HPROP").Return(ownedProperty("agent-1"), nil)
	agents.On("Get", mock.Anything, "agent-1").Return(&domain.Agent{
		AgentID: "agent-1", Name: "Budi", Agency: "AsanaPro", Phone: "+628111",
	}, nil)

	pub, err := svc.PublicGet(context.Background(), "01HPROP")
	require.NoError(t, err)
	assert.Equal(t, "Budi", pub.AgentName)
	assert.Equal(t, "+628111", pub.AgentPhone)
}

func TestPublicGetMissingProperty(t *testing.T) {
	svc, props, _, _, _, _ := newService()

	props.On("Get", mock.Anything, "gone").Return(nil, errors.New("not found"))

	_, err := svc.PublicGet(context.Background(), "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
