package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Gateway serves the funnel gateway contract straight from Postgres.
type Gateway struct {
	Funnel  *FunnelRepository
	Leads   *LeadRepository
	Clients *ClientRepository
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{
		Funnel:  NewFunnelRepository(db),
		Leads:   NewLeadRepository(db),
		Clients: NewClientRepository(db),
	}
}

func (g *Gateway) GetFunnel(ctx context.Context) ([]entity.FunnelEntry, error) {
	return g.Funnel.List(ctx)
}

func (g *Gateway) UpdateFunnelStage(ctx context.Context, entryID string, stage entity.Stage) error {
	return g.Funnel.UpdateStage(ctx, entryID, stage)
}

func (g *Gateway) UpdateLead(ctx context.Context, leadID string, patch entity.LeadPatch) error {
	return g.Leads.Update(ctx, leadID, patch)
}

func (g *Gateway) CreateClient(ctx context.Context, client entity.Client) (*entity.Client, error) {
	return g.Clients.Create(ctx, client)
}
