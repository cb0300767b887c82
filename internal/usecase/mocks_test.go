package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetFunnel(ctx context.Context) ([]entity.FunnelEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FunnelEntry), args.Error(1)
}

func (m *MockGateway) UpdateFunnelStage(ctx context.Context, entryID string, stage entity.Stage) error {
	args := m.Called(ctx, entryID, stage)
	return args.Error(0)
}

func (m *MockGateway) UpdateLead(ctx context.Context, leadID string, patch entity.LeadPatch) error {
	args := m.Called(ctx, leadID, patch)
	return args.Error(0)
}

func (m *MockGateway) CreateClient(ctx context.Context, client entity.Client) (*entity.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

// MockAddressLookup
type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Lookup(ctx context.Context, postalCode string) (*entity.Address, error) {
	args := m.Called(ctx, postalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Address), args.Error(1)
}

// MockPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event entity.FunnelEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var day = time.Date(2024, 3, 10, 14, 30, 0, 0, time.Local)

func newEntry(id string, stage entity.Stage, name, email, phone string) entity.FunnelEntry {
	return entity.FunnelEntry{
		ID: id,
		Lead: entity.Lead{
			ID:        "lead-" + id,
			Name:      name,
			Email:     email,
			Phone:     phone,
			Active:    true,
			CreatedAt: day.AddDate(0, -1, 0),
		},
		Stage:     stage,
		UpdatedAt: day,
	}
}

func newTestEngine(gw FunnelGateway, entries ...entity.FunnelEntry) (*StageTransitionEngine, *FunnelStore) {
	store := NewFunnelStore()
	store.Replace(entries)
	engine := NewStageTransitionEngine(gw, store, nil, nil)
	engine.Now = func() time.Time { return day.Add(time.Hour) }
	return engine, store
}
