package httpx

import (
	"net/http"
	"strconv"

	"github.com/raborimet/crm-api/internal/domain/model"
	"github.com/raborimet/crm-api/internal/service"
)

// MaterialHandlers provides HTTP handlers for material inventory operations.
type MaterialHandlers struct {
	Svc *service.MaterialService
}

// Create handles POST /materials.
func (h *MaterialHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMaterialRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	material, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, material)
}

// List handles GET /materials.
func (h *MaterialHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)
	opts := model.MaterialsListOptions{
		Limit:    limit,
		Offset:   offset,
		Q:        queryString(r, "q"),
		Category: queryString(r, "category"),
		Sort:     r.URL.Query().Get("sort"),
		Dir:      r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("low_stock"); raw != "" {
		if lowStock, err := strconv.ParseBool(raw); err == nil {
			opts.LowStock = &lowStock
		}
	}

	materials, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"materials": materials,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles GET /materials/{id}.
func (h *MaterialHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	material, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, material)
}

// Update handles PUT /materials/{id}.
func (h *MaterialHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req model.UpdateMaterialRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	material, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, material)
}

// AdjustStock handles POST /materials/{id}/stock.
func (h *MaterialHandlers) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req model.AdjustStockRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	material, err := h.Svc.AdjustStock(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, material)
}

// Delete handles DELETE /materials/{id}.
func (h *MaterialHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

// Stats handles GET /materials/stats.
func (h *MaterialHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
