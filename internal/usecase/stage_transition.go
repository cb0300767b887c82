package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"go.uber.org/zap"
)

// StageChange describes a confirmed move of one entry.
type StageChange struct {
	Entry entity.FunnelEntry `json:"entry"`
	From  entity.Stage       `json:"from"`
	To    entity.Stage       `json:"to"`
}

type StageTransitionEngine struct {
	Gateway  FunnelGateway
	Store    *FunnelStore
	InFlight *InFlight
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewStageTransitionEngine(gateway FunnelGateway, store *FunnelStore, inFlight *InFlight, logger *zap.Logger) *StageTransitionEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inFlight == nil {
		inFlight = NewInFlight()
	}
	return &StageTransitionEngine{
		Gateway:  gateway,
		Store:    store,
		InFlight: inFlight,
		Logger:   logger,
		Now:      time.Now,
	}
}

// Advance moves the entry one stage forward. At POST_SALE nothing is sent.
func (e *StageTransitionEngine) Advance(ctx context.Context, entryID string) (*StageChange, error) {
	return e.move(ctx, entryID, "advance", func(s entity.Stage) (entity.Stage, bool) {
		return s.Next()
	})
}

// Retreat moves the entry one stage back. At TOP nothing is sent.
func (e *StageTransitionEngine) Retreat(ctx context.Context, entryID string) (*StageChange, error) {
	return e.move(ctx, entryID, "retreat", func(s entity.Stage) (entity.Stage, bool) {
		return s.Previous()
	})
}

// advanceToPostSale jumps straight to POST_SALE. Only the post-migration link uses it.
func (e *StageTransitionEngine) advanceToPostSale(ctx context.Context, entryID string) (*StageChange, error) {
	return e.move(ctx, entryID, "advance_to_post_sale", func(s entity.Stage) (entity.Stage, bool) {
		return entity.StagePostSale, s.Valid() && s != entity.StagePostSale
	})
}

func (e *StageTransitionEngine) move(
	ctx context.Context,
	entryID, op string,
	step func(entity.Stage) (entity.Stage, bool),
) (*StageChange, error) {
	release, ok := e.InFlight.Acquire(entryKey(entryID))
	if !ok {
		return nil, errBusy
	}
	defer release()

	current, ok := e.Store.Get(entryID)
	if !ok {
		return nil, &DomainError{Code: CodeEntryNotFound, Message: "funnel entry not found"}
	}

	target, ok := step(current.Stage)
	if !ok {
		return nil, &DomainError{
			Code:    CodeStageBoundary,
			Message: "lead cannot " + strings.ReplaceAll(op, "_", " ") + " from " + string(current.Stage),
		}
	}

	var version uint64
	txn := NewTransaction(e.Logger)

	txn.AddOperation("apply_local_stage", func(ctx context.Context) error {
		version, _ = e.Store.SetStage(entryID, target, e.Now())
		return nil
	})
	txn.AddCompensation("restore_local_stage", func(ctx context.Context) error {
		if !e.Store.RevertStage(entryID, version, target, current) {
			e.Logger.Debug("stale rollback dropped", zap.String("entry_id", entryID))
		}
		return nil
	})

	txn.AddOperation("persist_stage", func(ctx context.Context) error {
		return e.Gateway.UpdateFunnelStage(ctx, entryID, target)
	})

	if err := txn.Execute(ctx); err != nil {
		e.Logger.Warn("stage transition failed",
			zap.String("op", op),
			zap.String("entry_id", entryID),
			zap.String("from", string(current.Stage)),
			zap.String("to", string(target)),
			zap.Error(err),
		)
		return nil, gatewayFailure(op, err)
	}

	return &StageChange{Entry: e.confirm(entryID, version, target, current), From: current.Stage, To: target}, nil
}

// confirm makes the store show the confirmed stage. A reload that landed while the
// gateway call was in flight may have brought back the old stage.
func (e *StageTransitionEngine) confirm(entryID string, version uint64, target entity.Stage, current entity.FunnelEntry) entity.FunnelEntry {
	updated, ok := e.Store.Get(entryID)
	if !ok || updated.Stage != target || e.Store.Version() != version {
		if _, applied := e.Store.SetStage(entryID, target, e.Now()); applied {
			updated, ok = e.Store.Get(entryID)
		}
	}
	if !ok || updated.Stage != target {
		// entry left the snapshot (or the board closed)
		updated = current
		updated.Stage = target
		updated.UpdatedAt = e.Now()
	}
	return updated
}

// Archive marks the lead lost with reason and removes its entry from the visible set.
// Empty reasons are rejected locally.
func (e *StageTransitionEngine) Archive(ctx context.Context, entryID, reason string) (*entity.FunnelEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ValidationError{"reason", "is required to archive a lead"}
	}

	release, ok := e.InFlight.Acquire(entryKey(entryID))
	if !ok {
		return nil, errBusy
	}
	defer release()

	entry, ok := e.Store.Get(entryID)
	if !ok {
		return nil, &DomainError{Code: CodeEntryNotFound, Message: "funnel entry not found"}
	}

	patch := entity.LeadPatch{Active: false, LostReason: &reason}
	if err := e.Gateway.UpdateLead(ctx, entry.Lead.ID, patch); err != nil {
		e.Logger.Warn("archive failed",
			zap.String("entry_id", entryID),
			zap.String("lead_id", entry.Lead.ID),
			zap.Error(err),
		)
		return nil, gatewayFailure("archive", err)
	}

	e.Store.Remove(entryID)

	entry.Lead.Active = false
	entry.Lead.LostReason = &reason
	return &entry, nil
}
