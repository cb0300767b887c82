package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level NoticeLevel
		msg   string
	}{
		{"validation", ValidationError{"reason", "is required to archive a lead"}, NoticeWarning, "reason: is required to archive a lead"},
		{"busy", errBusy, NoticeInfo, errBusy.Message},
		{"not found", &DomainError{Code: CodeEntryNotFound, Message: "funnel entry not found"}, NoticeWarning, "funnel entry not found"},
		{"rejection with message", gatewayFailure("create client", &entity.GatewayError{StatusCode: http.StatusConflict, Message: "email já cadastrado"}), NoticeError, "email já cadastrado"},
		{"rejection without message", &entity.GatewayError{StatusCode: http.StatusBadRequest}, NoticeError, "fallback"},
		{"server error", fmt.Errorf("wrapped: %w", &entity.GatewayError{StatusCode: 500, Message: "stack trace"}), NoticeError, "fallback"},
		{"network", errors.New("dial tcp"), NoticeError, "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NoticeFor(tt.err, "fallback")
			assert.Equal(t, tt.level, n.Level)
			assert.Equal(t, tt.msg, n.Message)
		})
	}
}

func TestTransactionCompensatesInReverse(t *testing.T) {
	var trail []string
	txn := NewTransaction(nil)
	txn.AddOperation("a", func(_ context.Context) error { trail = append(trail, "a"); return nil })
	txn.AddCompensation("undo a", func(_ context.Context) error { trail = append(trail, "undo a"); return nil })
	txn.AddOperation("b", func(_ context.Context) error { trail = append(trail, "b"); return nil })
	txn.AddCompensation("undo b", func(_ context.Context) error { trail = append(trail, "undo b"); return nil })
	txn.AddOperation("c", func(_ context.Context) error { return errors.New("c failed") })

	err := txn.Execute(context.Background())
	assert.ErrorContains(t, err, "operation 'c' failed")
	assert.Equal(t, []string{"a", "b", "undo b", "undo a"}, trail)
}
