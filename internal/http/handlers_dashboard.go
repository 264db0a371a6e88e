package httpx

import (
	"net/http"

	"github.com/raborimet/crm-api/internal/service"
)

// DashboardHandlers provides HTTP handlers for the dashboard.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// RecentActivity handles GET /dashboard/recent-activity.
func (h *DashboardHandlers) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit, _ := ParseLimitOffset(r, 10, 50)

	feed, err := h.Svc.RecentActivity(r.Context(), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"activity": feed})
}

// ProjectStatus handles GET /dashboard/project-status.
func (h *DashboardHandlers) ProjectStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.ProjectStatusCounts(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"project_status": counts})
}

// QuoteStatus handles GET /dashboard/quote-status.
func (h *DashboardHandlers) QuoteStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.QuoteStatusCounts(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"quote_status": counts})
}

// MonthlyData handles GET /dashboard/monthly-data.
func (h *DashboardHandlers) MonthlyData(w http.ResponseWriter, r *http.Request) {
	months := parseIntQuery(r, "months", 12)

	revenue, err := h.Svc.MonthlyRevenue(r.Context(), months)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"monthly": revenue})
}

// UpcomingDeadlines handles GET /dashboard/upcoming-deadlines.
func (h *DashboardHandlers) UpcomingDeadlines(w http.ResponseWriter, r *http.Request) {
	limit, _ := ParseLimitOffset(r, 5, 50)

	deadlines, err := h.Svc.UpcomingDeadlines(r.Context(), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"deadlines": deadlines})
}

// TopClients handles GET /dashboard/top-clients.
func (h *DashboardHandlers) TopClients(w http.ResponseWriter, r *http.Request) {
	limit, _ := ParseLimitOffset(r, 5, 50)

	top, err := h.Svc.TopClients(r.Context(), limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"top_clients": top})
}
