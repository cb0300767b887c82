package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type noticeResponse struct {
	Notice usecase.Notice `json:"notice"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeNotice(w http.ResponseWriter, status int, notice usecase.Notice) {
	writeJSON(w, status, noticeResponse{Notice: notice})
}

// writeError maps err to a status and a user-facing notice. Raw errors never reach the body.
func writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		middleware.RecordIntegrationError("crm")
	}
	writeNotice(w, status, usecase.NoticeFor(err, fallback))
}

func statusFor(err error) int {
	var (
		vErr usecase.ValidationError
		dErr *usecase.DomainError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &dErr):
		switch dErr.Code {
		case usecase.CodeEntryNotFound:
			return http.StatusNotFound
		case usecase.CodeBusy, usecase.CodeStageBoundary:
			return http.StatusConflict
		}
		return http.StatusUnprocessableEntity
	}

	if gwErr, ok := entity.AsGatewayError(err); ok && gwErr.IsRejection() {
		switch gwErr.StatusCode {
		case http.StatusNotFound, http.StatusConflict:
			return gwErr.StatusCode
		}
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return usecase.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	if err := validate.Struct(dst); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return usecase.ValidationError{Field: "body", Message: err.Error()}
	}
	fe := fieldErrs[0]
	return usecase.ValidationError{
		Field:   jsonName(fe.StructField()),
		Message: fmt.Sprintf("failed on '%s'", fe.Tag()),
	}
}

// jsonName converts EntryID into entry_id.
func jsonName(field string) string {
	var b strings.Builder
	for i, r := range field {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prev := rune(field[i-1])
			nextLower := i+1 < len(field) && field[i+1] >= 'a' && field[i+1] <= 'z'
			if prev >= 'a' && prev <= 'z' || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
