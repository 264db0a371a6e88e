package httpx

import (
	"net/http"

	"github.com/raborimet/crm-api/internal/domain/model"
	"github.com/raborimet/crm-api/internal/service"
)

// ReportHandlers provides HTTP handlers for summary reports.
type ReportHandlers struct {
	Svc *service.ReportService
}

func reportPeriod(r *http.Request) model.ReportPeriod {
	return model.ReportPeriod{
		From: queryDate(r, "from"),
		To:   queryDate(r, "to"),
	}
}

// Financial handles GET /reports/financial.
func (h *ReportHandlers) Financial(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.Financial(r.Context(), reportPeriod(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

// Clients handles GET /reports/clients.
func (h *ReportHandlers) Clients(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.Clients(r.Context(), reportPeriod(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

// Projects handles GET /reports/projects.
func (h *ReportHandlers) Projects(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.Projects(r.Context(), reportPeriod(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}

// Quotes handles GET /reports/quotes.
func (h *ReportHandlers) Quotes(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Svc.Quotes(r.Context(), reportPeriod(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rep)
}
