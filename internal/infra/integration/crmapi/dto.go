package crmapi

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Shapes used by the CRM REST API (camelCase, Brazilian field names for documents).

type leadDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Active         bool      `json:"active"`
	LostReason     *string   `json:"lostReason"`
	OrganizationID string    `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type funnelEntryDTO struct {
	ID        string    `json:"id"`
	Lead      leadDTO   `json:"lead"`
	Stage     string    `json:"stage"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// funnelResponse: both wrappers are optional. A missing data field means an empty funnel.
type funnelResponse struct {
	Data       []funnelEntryDTO `json:"data"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

type updateLeadRequest struct {
	Active     bool    `json:"active"`
	LostReason *string `json:"lostReason,omitempty"`
}

type createClientRequest struct {
	Name         string `json:"name"`
	PersonType   string `json:"personType"` // PF | PJ
	CpfCnpj      string `json:"cpfCnpj"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Cellphone    string `json:"cellphone"`
	Cep          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	LeadID       string `json:"leadId,omitempty"`
}

type clientDTO struct {
	ID string `json:"id"`
	createClientRequest
	CreatedAt time.Time `json:"createdAt"`
}

type clientResponse struct {
	Data *clientDTO `json:"data"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (d leadDTO) toEntity() entity.Lead {
	return entity.Lead{
		ID:         d.ID,
		Name:       d.Name,
		Surname:    d.Surname,
		Email:      d.Email,
		Phone:      d.Phone,
		Active:     d.Active,
		LostReason: d.LostReason,
		OwnerID:    d.OrganizationID,
		CreatedAt:  d.CreatedAt,
	}
}

func personType(t entity.ClientType) string {
	if t == entity.ClientOrganization {
		return "PJ"
	}
	return "PF"
}

func clientType(personType string) entity.ClientType {
	if personType == "PJ" {
		return entity.ClientOrganization
	}
	return entity.ClientIndividual
}

func toCreateClientRequest(c entity.Client) createClientRequest {
	return createClientRequest{
		Name:         c.Name,
		PersonType:   personType(c.Type),
		CpfCnpj:      c.TaxID,
		Email:        c.Email,
		Phone:        c.Phone,
		Cellphone:    c.Cellphone,
		Cep:          c.PostalCode,
		Street:       c.Address.Street,
		Number:       c.Address.Number,
		Complement:   c.Address.Complement,
		Neighborhood: c.Address.Neighborhood,
		City:         c.Address.City,
		State:        c.Address.State,
		LeadID:       c.LeadID,
	}
}

func (d clientDTO) toEntity() *entity.Client {
	return &entity.Client{
		ID:         d.ID,
		Name:       d.Name,
		Type:       clientType(d.PersonType),
		TaxID:      d.CpfCnpj,
		Email:      d.Email,
		Phone:      d.Phone,
		Cellphone:  d.Cellphone,
		PostalCode: d.Cep,
		Address: entity.Address{
			Street:       d.Street,
			Number:       d.Number,
			Complement:   d.Complement,
			Neighborhood: d.Neighborhood,
			City:         d.City,
			State:        d.State,
		},
		LeadID:    d.LeadID,
		CreatedAt: d.CreatedAt,
	}
}
