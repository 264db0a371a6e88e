package httpx

import (
	"net/http"
	"strconv"

	"github.com/raborimet/crm-api/internal/domain/model"
	"github.com/raborimet/crm-api/internal/service"
)

// ClientHandlers provides HTTP handlers for client operations.
type ClientHandlers struct {
	Svc *service.ClientService
}

const maxListLimit = 200

// Create handles POST /clients.
func (h *ClientHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateClientRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	client, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, client)
}

// List handles GET /clients.
func (h *ClientHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)
	opts := model.ClientsListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      queryString(r, "q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			opts.IsActive = &active
		}
	}

	clients, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"clients": clients,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetByID handles GET /clients/{id}.
func (h *ClientHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	client, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, client)
}

// Update handles PUT /clients/{id}.
func (h *ClientHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req model.UpdateClientRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	client, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, client)
}

// Delete handles DELETE /clients/{id}.
func (h *ClientHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

// Stats handles GET /clients/stats.
func (h *ClientHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// Projects handles GET /clients/{id}/projects.
func (h *ClientHandlers) Projects(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	projects, err := h.Svc.Projects(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"projects": projects})
}
