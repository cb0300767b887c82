package entity

import "time"

type ClientType string

const (
	ClientIndividual   ClientType = "INDIVIDUAL"   // CPF, 11 digits
	ClientOrganization ClientType = "ORGANIZATION" // CNPJ, 14 digits
)

// Value Object: Address
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Client is created once from a migrated Lead
type Client struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       ClientType `json:"type"`
	TaxID      string     `json:"tax_id"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Cellphone  string     `json:"cellphone"`
	PostalCode string     `json:"postal_code"`
	Address    Address    `json:"address"`
	LeadID     string     `json:"lead_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
