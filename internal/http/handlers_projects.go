package httpx

import (
	"net/http"
	"strconv"

	"github.com/raborimet/crm-api/internal/domain/model"
	"github.com/raborimet/crm-api/internal/service"
)

// ProjectHandlers provides HTTP handlers for project operations.
type ProjectHandlers struct {
	Svc *service.ProjectService
}

// Create handles POST /projects.
func (h *ProjectHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProjectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	project, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, project)
}

// List handles GET /projects.
func (h *ProjectHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)
	opts := model.ProjectsListOptions{
		Limit:  limit,
		Offset: offset,
		Q:      queryString(r, "q"),
		Sort:   r.URL.Query().Get("sort"),
		Dir:    r.URL.Query().Get("dir"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.ProjectStatus(raw)
		opts.Status = &status
	}
	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority := model.ProjectPriority(raw)
		opts.Priority = &priority
	}
	if raw := r.URL.Query().Get("client_id"); raw != "" {
		if clientID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			opts.ClientID = &clientID
		}
	}

	projects, total, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"projects": projects,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles GET /projects/{id}.
func (h *ProjectHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	project, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

// Update handles PUT /projects/{id}.
func (h *ProjectHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req model.UpdateProjectRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	project, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

type updateProgressRequest struct {
	Progress int `json:"progress"`
}

// UpdateProgress handles PATCH /projects/{id}/progress.
func (h *ProjectHandlers) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
		return
	}

	var req updateProgressRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	project, err := h.Svc.UpdateProgress(r.Context(), id, req.Progress)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id}.
func (h *ProjectHandlers) Delete(w http.ResponseWriter, r *http.Request) {
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

// Stats handles GET /projects/stats.
func (h *ProjectHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
