package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type MigrationHandler struct {
	Board *usecase.Board
}

func NewMigrationHandler(board *usecase.Board) *MigrationHandler {
	return &MigrationHandler{Board: board}
}

type OpenMigrationRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
}

type PostalCodeRequest struct {
	Form       usecase.MigrationForm `json:"form"`
	PostalCode string                `json:"postal_code" validate:"max=9"`
}

type SubmitMigrationResponse struct {
	Client *entity.Client         `json:"client,omitempty"`
	Form   *usecase.MigrationForm `json:"form"`
}

// Open (POST /migrations/open)
func (h *MigrationHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req OpenMigrationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	form, err := h.Board.OpenMigration(req.EntryID)
	if err != nil {
		writeError(w, err, "failed to open migration")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// PostalCode (POST /migrations/postal-code) fills the address when the code has 8 digits.
// A failed lookup is not an error: the form comes back with address_error set.
func (h *MigrationHandler) PostalCode(w http.ResponseWriter, r *http.Request) {
	var req PostalCodeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	if err := validate.Var(req.Form.LeadID, "required"); err != nil {
		writeError(w, usecase.ValidationError{Field: "lead_id", Message: "is required"}, "")
		return
	}

	form := req.Form
	h.Board.Migration.PostalCodeChanged(r.Context(), &form, req.PostalCode)
	writeJSON(w, http.StatusOK, form)
}

// Submit (POST /migrations)
func (h *MigrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form usecase.MigrationForm
	if err := decodeAndValidate(r, &form); err != nil {
		writeError(w, err, "")
		return
	}
	if err := validate.Var(form.LeadID, "required"); err != nil {
		writeError(w, usecase.ValidationError{Field: "lead_id", Message: "is required"}, "")
		return
	}
	form.Open = true

	client, err := h.Board.SubmitMigration(r.Context(), &form)
	if err != nil {
		middleware.RecordMigration("failed")
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			middleware.RecordIntegrationError("crm")
		}
		writeJSON(w, status, struct {
			Notice usecase.Notice         `json:"notice"`
			Form   *usecase.MigrationForm `json:"form"`
		}{
			Notice: usecase.NoticeFor(err, "failed to create client"),
			Form:   &form,
		})
		return
	}

	middleware.RecordMigration("created")
	writeJSON(w, http.StatusCreated, SubmitMigrationResponse{Client: client, Form: &form})
}
