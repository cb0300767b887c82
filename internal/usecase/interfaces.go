package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// FunnelGateway is the remote persistence for leads, funnel entries and clients.
type FunnelGateway interface {
	GetFunnel(ctx context.Context) ([]entity.FunnelEntry, error)
	UpdateFunnelStage(ctx context.Context, entryID string, stage entity.Stage) error
	UpdateLead(ctx context.Context, leadID string, patch entity.LeadPatch) error
	CreateClient(ctx context.Context, client entity.Client) (*entity.Client, error)
}

// AddressLookup resolves an 8-digit CEP into street, neighborhood, city and state.
type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*entity.Address, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.FunnelEvent) error
}
