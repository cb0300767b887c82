package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const uniqueViolation = "23505"

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) Create(ctx context.Context, c entity.Client) (*entity.Client, error) {
	query := `
		INSERT INTO clients (
			id, lead_id, name, type, tax_id, email, phone, cellphone, postal_code,
			street, number, complement, neighborhood, city, state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	c.ID = uuid.New().String()

	err := r.DB.QueryRowContext(ctx, query,
		c.ID,
		nullString(c.LeadID),
		c.Name,
		string(c.Type),
		c.TaxID,
		c.Email,
		c.Phone,
		c.Cellphone,
		c.PostalCode,
		c.Address.Street,
		c.Address.Number,
		c.Address.Complement,
		c.Address.Neighborhood,
		c.Address.City,
		c.Address.State,
	).Scan(&c.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, entity.NewConflictError("já existe um cliente com este CPF/CNPJ ou e-mail")
		}
		return nil, fmt.Errorf("erro ao criar cliente: %w", err)
	}

	return &c, nil
}
