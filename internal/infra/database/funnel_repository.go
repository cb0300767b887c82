package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type FunnelRepository struct {
	DB *sql.DB
}

func NewFunnelRepository(db *sql.DB) *FunnelRepository {
	return &FunnelRepository{DB: db}
}

func (r *FunnelRepository) List(ctx context.Context) ([]entity.FunnelEntry, error) {
	query := `
		SELECT f.id, f.stage, f.updated_at,
		       l.id, l.name, l.surname, l.email, l.phone, l.active, l.lost_reason, l.owner_id, l.created_at
		FROM funnel_entries f
		JOIN leads l ON l.id = f.lead_id
		ORDER BY f.updated_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar funil: %w", err)
	}
	defer rows.Close()

	entries := []entity.FunnelEntry{}
	for rows.Next() {
		var (
			e                                   entity.FunnelEntry
			stage                               string
			surname, phone, lostReason, ownerID sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &stage, &e.UpdatedAt,
			&e.Lead.ID, &e.Lead.Name, &surname, &e.Lead.Email, &phone,
			&e.Lead.Active, &lostReason, &ownerID, &e.Lead.CreatedAt,
		); err != nil {
			return nil, err
		}

		parsed, err := entity.ParseStage(stage)
		if err != nil {
			continue
		}
		e.Stage = parsed
		e.Lead.Surname = surname.String
		e.Lead.Phone = phone.String
		e.Lead.OwnerID = ownerID.String
		if lostReason.Valid {
			reason := lostReason.String
			e.Lead.LostReason = &reason
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *FunnelRepository) UpdateStage(ctx context.Context, entryID string, stage entity.Stage) error {
	if !stage.Valid() {
		return &entity.GatewayError{StatusCode: http.StatusBadRequest, Message: "invalid stage " + string(stage)}
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE funnel_entries SET stage = $1, updated_at = NOW() WHERE id = $2`,
		string(stage), entryID,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar estágio: %w", err)
	}

	return requireAffected(res, "funnel entry", entryID)
}

func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.NewNotFoundError(what, id)
	}
	return nil
}
