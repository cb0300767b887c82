package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"go.uber.org/zap"
)

// ClientFormData is the editable new-client form.
type ClientFormData struct {
	Name       string            `json:"name"`
	Type       entity.ClientType `json:"type"`
	TaxID      string            `json:"tax_id"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Cellphone  string            `json:"cellphone"`
	PostalCode string            `json:"postal_code"`
	Address    entity.Address    `json:"address"`
}

// MigrationForm is one open "convert lead to client" dialog.
type MigrationForm struct {
	LeadID       string         `json:"lead_id"`
	EntryID      string         `json:"entry_id,omitempty"`
	Data         ClientFormData `json:"data"`
	Open         bool           `json:"open"`
	Error        string         `json:"error,omitempty"`
	AddressError string         `json:"address_error,omitempty"`
}

type MigrationWorkflow struct {
	Gateway   FunnelGateway
	Addresses AddressLookup
	InFlight  *InFlight
	Logger    *zap.Logger
}

func NewMigrationWorkflow(gateway FunnelGateway, addresses AddressLookup, inFlight *InFlight, logger *zap.Logger) *MigrationWorkflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if inFlight == nil {
		inFlight = NewInFlight()
	}
	return &MigrationWorkflow{
		Gateway:   gateway,
		Addresses: addresses,
		InFlight:  inFlight,
		Logger:    logger,
	}
}

// Open seeds a fresh form from the lead. Address and identity fields always start empty,
// whatever an earlier form for the same lead contained.
func (w *MigrationWorkflow) Open(lead entity.Lead) *MigrationForm {
	return &MigrationForm{
		LeadID: lead.ID,
		Data: ClientFormData{
			Name:      lead.FullName(),
			Email:     lead.Email,
			Phone:     lead.Phone,
			Cellphone: lead.Phone,
		},
		Open: true,
	}
}

// PostalCodeChanged stores the typed CEP and, once it has exactly 8 digits, looks the
// address up. It reports whether a lookup was issued. Lookup failures are not fatal: the
// address fields are cleared and AddressError is set.
func (w *MigrationWorkflow) PostalCodeChanged(ctx context.Context, form *MigrationForm, value string) bool {
	form.Data.PostalCode = value
	form.AddressError = ""

	digits := OnlyDigits(value)
	if len(digits) != 8 || w.Addresses == nil {
		return false
	}

	addr, err := w.Addresses.Lookup(ctx, digits)
	if err != nil || addr == nil {
		w.Logger.Info("postal code lookup failed", zap.String("postal_code", digits), zap.Error(err))
		form.AddressError = "CEP não encontrado"
		form.Data.Address.Street = ""
		form.Data.Address.Neighborhood = ""
		form.Data.Address.City = ""
		form.Data.Address.State = ""
		return true
	}

	form.Data.Address.Street = addr.Street
	form.Data.Address.Neighborhood = addr.Neighborhood
	form.Data.Address.City = addr.City
	form.Data.Address.State = addr.State
	return true
}

// Submit validates the form, creates the client and then calls onSuccess before closing
// the form. On any failure the form stays open with its data untouched and Error set.
func (w *MigrationWorkflow) Submit(ctx context.Context, form *MigrationForm, onSuccess func(*entity.Client)) (*entity.Client, error) {
	form.Error = ""

	if err := ValidateClientForm(form.Data); err != nil {
		form.Error = NoticeFor(err, "").Message
		return nil, err
	}

	release, ok := w.InFlight.Acquire(migrationKey(form.LeadID))
	if !ok {
		form.Error = errBusy.Message
		return nil, errBusy
	}
	defer release()

	client, err := w.Gateway.CreateClient(ctx, form.Data.toClient(form.LeadID))
	if err != nil {
		w.Logger.Warn("client creation failed", zap.String("lead_id", form.LeadID), zap.Error(err))
		form.Error = NoticeFor(err, "failed to create client").Message
		return nil, gatewayFailure("create client", err)
	}

	if onSuccess != nil {
		onSuccess(client)
	}
	form.Open = false

	return client, nil
}

func (d ClientFormData) toClient(leadID string) entity.Client {
	phone := strings.TrimSpace(d.Phone)
	if phone == "" {
		phone = strings.TrimSpace(d.Cellphone)
	}

	return entity.Client{
		Name:       strings.TrimSpace(d.Name),
		Type:       InferClientType(d.Type, d.TaxID),
		TaxID:      OnlyDigits(d.TaxID),
		Email:      strings.TrimSpace(d.Email),
		Phone:      phone,
		Cellphone:  strings.TrimSpace(d.Cellphone),
		PostalCode: OnlyDigits(d.PostalCode),
		Address:    d.Address,
		LeadID:     leadID,
	}
}
