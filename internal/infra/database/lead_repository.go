package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Update(ctx context.Context, leadID string, patch entity.LeadPatch) error {
	query := `
		UPDATE leads
		SET active = $1,
		    lost_reason = $2,
		    updated_at = NOW()
		WHERE id = $3
	`

	var reason *string
	if patch.LostReason != nil {
		reason = nullString(*patch.LostReason)
	}

	res, err := r.DB.ExecContext(ctx, query, patch.Active, reason, leadID)
	if err != nil {
		return fmt.Errorf("erro ao atualizar lead: %w", err)
	}

	return requireAffected(res, "lead", leadID)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
