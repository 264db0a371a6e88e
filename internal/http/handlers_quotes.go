package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/raborimet/crm-api/internal/domain/model"
	"github.com/raborimet/crm-api/internal/service"
)

// QuoteHandlers provides HTTP handlers for quote operations.
type QuoteHandlers struct {
	Svc *service.QuoteService
}

// Create handles POST /quotes.
func (h *QuoteHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateQuoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	quote, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, quote)
}

// List handles GET /quotes.
func (h *QuoteHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)
	opts := model.QuotesListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      queryString(r, "q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.QuoteStatus(raw)
		opts.Status = &status
	}
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		if clientID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			opts.ClientID = &clientID
		}
	}
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		if projectID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			opts.ProjectID = &projectID
		}
	}

	quotes, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"quotes": quotes,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles GET /quotes/{id}.
func (h *QuoteHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	quote, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// Update handles PUT /quotes/{id}.
func (h *QuoteHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req model.UpdateQuoteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	quote, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// Send handles POST /quotes/{id}/send.
func (h *QuoteHandlers) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Send)
}

// Accept handles POST /quotes/{id}/accept.
func (h *QuoteHandlers) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Accept)
}

// Reject handles POST /quotes/{id}/reject.
func (h *QuoteHandlers) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.Reject)
}

// Duplicate handles POST /quotes/{id}/duplicate.
func (h *QuoteHandlers) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	quote, err := h.Svc.Duplicate(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, quote)
}

// Delete handles DELETE /quotes/{id}.
func (h *QuoteHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	if err := h.Svc.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /quotes/stats.
func (h *QuoteHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

func (h *QuoteHandlers) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id int64) (*model.Quote, error),
) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	quote, err := fn(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}
