package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"go.uber.org/zap"
)

// Board is the sales funnel controller: it owns the store, routes user actions to the
// stage engine and the migration workflow, and publishes funnel events.
type Board struct {
	Gateway   FunnelGateway
	Store     *FunnelStore
	Engine    *StageTransitionEngine
	Migration *MigrationWorkflow
	Events    EventPublisher
	Logger    *zap.Logger
}

func NewBoard(gateway FunnelGateway, addresses AddressLookup, events EventPublisher, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := NewFunnelStore()
	inFlight := NewInFlight()

	return &Board{
		Gateway:   gateway,
		Store:     store,
		Engine:    NewStageTransitionEngine(gateway, store, inFlight, logger),
		Migration: NewMigrationWorkflow(gateway, addresses, inFlight, logger),
		Events:    events,
		Logger:    logger,
	}
}

// Load replaces the store with a fresh gateway snapshot. On failure the previous
// snapshot is kept.
func (b *Board) Load(ctx context.Context) error {
	entries, err := b.Gateway.GetFunnel(ctx)
	if err != nil {
		b.Logger.Error("funnel load failed", zap.Error(err))
		return gatewayFailure("load funnel", err)
	}
	b.Store.Replace(entries)
	b.Logger.Debug("funnel loaded", zap.Int("entries", b.Store.Len()))
	return nil
}

func (b *Board) Columns(f Filters) Columns {
	return Project(b.Store.Snapshot(), f)
}

func (b *Board) ItemsByStage(stage entity.Stage, f Filters) []entity.FunnelEntry {
	return ItemsByStage(b.Store.Snapshot(), stage, f)
}

func (b *Board) Advance(ctx context.Context, entryID string) (*StageChange, error) {
	change, err := b.Engine.Advance(ctx, entryID)
	if err != nil {
		return nil, err
	}
	b.publishStageChange(ctx, change)
	return change, nil
}

func (b *Board) Retreat(ctx context.Context, entryID string) (*StageChange, error) {
	change, err := b.Engine.Retreat(ctx, entryID)
	if err != nil {
		return nil, err
	}
	b.publishStageChange(ctx, change)
	return change, nil
}

func (b *Board) Archive(ctx context.Context, entryID, reason string) (*entity.FunnelEntry, error) {
	entry, err := b.Engine.Archive(ctx, entryID, reason)
	if err != nil {
		return nil, err
	}

	ev := b.newEvent(entity.EventLeadArchived)
	ev.EntryID = entry.ID
	ev.LeadID = entry.Lead.ID
	ev.FromStage = entry.Stage
	if entry.Lead.LostReason != nil {
		ev.Reason = *entry.Lead.LostReason
	}
	b.publish(ctx, ev)

	return entry, nil
}

// OpenMigration starts a migration form for the lead behind entryID.
func (b *Board) OpenMigration(entryID string) (*MigrationForm, error) {
	entry, ok := b.Store.Get(entryID)
	if !ok {
		return nil, &DomainError{Code: CodeEntryNotFound, Message: "funnel entry not found"}
	}
	form := b.Migration.Open(entry.Lead)
	form.EntryID = entry.ID
	return form, nil
}

// SubmitMigration creates the client and, on success, moves the matching funnel entry to
// POST_SALE. The second step is best-effort and never fails the migration.
func (b *Board) SubmitMigration(ctx context.Context, form *MigrationForm) (*entity.Client, error) {
	return b.Migration.Submit(ctx, form, func(client *entity.Client) {
		ev := b.newEvent(entity.EventClientMigrated)
		ev.LeadID = form.LeadID
		ev.EntryID = form.EntryID
		ev.Client = client
		b.publish(ctx, ev)

		b.linkClient(ctx, client)
	})
}

func (b *Board) linkClient(ctx context.Context, client *entity.Client) {
	entry, ok := b.Store.FindByContact(client.Email, client.Phone, client.Cellphone)
	if !ok || entry.Stage == entity.StagePostSale {
		return
	}

	change, err := b.Engine.advanceToPostSale(ctx, entry.ID)
	if err != nil {
		b.Logger.Warn("auto-advance after migration failed",
			zap.String("entry_id", entry.ID),
			zap.String("client_id", client.ID),
			zap.Error(err),
		)
		return
	}
	b.publishStageChange(ctx, change)
}

// Close stops the board from applying any late results.
func (b *Board) Close() {
	b.Store.Close()
}

func (b *Board) publishStageChange(ctx context.Context, change *StageChange) {
	ev := b.newEvent(entity.EventStageChanged)
	ev.EntryID = change.Entry.ID
	ev.LeadID = change.Entry.Lead.ID
	ev.FromStage = change.From
	ev.ToStage = change.To
	b.publish(ctx, ev)
}

func (b *Board) newEvent(t entity.EventType) entity.FunnelEvent {
	return entity.FunnelEvent{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now(),
	}
}

func (b *Board) publish(ctx context.Context, ev entity.FunnelEvent) {
	if b.Events == nil {
		return
	}
	if err := b.Events.Publish(ctx, ev); err != nil {
		b.Logger.Error("funnel event not published",
			zap.String("type", string(ev.Type)),
			zap.String("entry_id", ev.EntryID),
			zap.Error(err),
		)
	}
}
