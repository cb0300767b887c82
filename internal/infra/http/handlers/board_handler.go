package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"go.uber.org/zap"
)

type BoardHandler struct {
	Board    *usecase.Board
	Location *time.Location
}

func NewBoardHandler(board *usecase.Board, loc *time.Location) *BoardHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BoardHandler{Board: board, Location: loc}
}

type FunnelResponse struct {
	Columns usecase.Columns      `json:"columns"`
	Counts  map[entity.Stage]int `json:"counts"`
	Total   int                  `json:"total"`
}

type ColumnResponse struct {
	Stage entity.Stage         `json:"stage"`
	Items []entity.FunnelEntry `json:"items"`
}

type ArchiveRequest struct {
	Reason string `json:"reason"`
}

// GetFunnel (GET /funnel?search=&start_date=&end_date=)
func (h *BoardHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	filters, ok := h.filters(w, r)
	if !ok {
		return
	}

	cols := h.Board.Columns(filters)
	counts := cols.Counts()
	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, http.StatusOK, FunnelResponse{Columns: cols, Counts: counts, Total: total})
}

// GetColumn (GET /funnel/columns/{stage})
func (h *BoardHandler) GetColumn(w http.ResponseWriter, r *http.Request) {
	stage, err := entity.ParseStage(chi.URLParam(r, "stage"))
	if err != nil {
		writeNotice(w, http.StatusNotFound, usecase.Notice{Level: usecase.NoticeWarning, Message: err.Error()})
		return
	}

	filters, ok := h.filters(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ColumnResponse{Stage: stage, Items: h.Board.ItemsByStage(stage, filters)})
}

// Reload (POST /funnel/reload)
func (h *BoardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Board.Load(r.Context()); err != nil {
		writeError(w, err, "failed to load funnel")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"entries": h.Board.Store.Len()})
}

// Advance (POST /funnel/{entryId}/advance)
func (h *BoardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.Board.Advance, "failed to advance lead")
}

// Retreat (POST /funnel/{entryId}/retreat)
func (h *BoardHandler) Retreat(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.Board.Retreat, "failed to move lead back")
}

func (h *BoardHandler) move(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, entryID string) (*usecase.StageChange, error),
	fallback string,
) {
	entryID := chi.URLParam(r, "entryId")
	change, err := op(r.Context(), entryID)
	if err != nil {
		logger.FromContext(r.Context()).Warn("stage move rejected", zap.String("entry_id", entryID), zap.Error(err))
		writeError(w, err, fallback)
		return
	}

	middleware.RecordStageTransition(string(change.From), string(change.To))
	writeJSON(w, http.StatusOK, change)
}

// Archive (POST /funnel/{entryId}/archive)
func (h *BoardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	var req ArchiveRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	entry, err := h.Board.Archive(r.Context(), chi.URLParam(r, "entryId"), req.Reason)
	if err != nil {
		writeError(w, err, "failed to archive lead")
		return
	}

	middleware.RecordLeadArchived()
	writeJSON(w, http.StatusOK, entry)
}

func (h *BoardHandler) filters(w http.ResponseWriter, r *http.Request) (usecase.Filters, bool) {
	q := r.URL.Query()
	f, err := usecase.ParseFilters(q.Get("search"), q.Get("start_date"), q.Get("end_date"), h.Location)
	if err != nil {
		writeError(w, err, "")
		return usecase.Filters{}, false
	}
	return f, true
}
