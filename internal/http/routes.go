package httpx

import (
	"net/http"

	domainauth "github.com/raborimet/crm-api/internal/domain/auth"
	"github.com/raborimet/crm-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Clients   *service.ClientService
	Projects  *service.ProjectService
	Quotes    *service.QuoteService
	Materials *service.MaterialService
	Dashboard *service.DashboardService
	Reports   *service.ReportService
}

const apiPrefix = "/api/v1"

// NewRouter creates and configures the HTTP router. All routes except
// register, login, verify, and health require authentication; writes on most
// resources additionally require the manager role, and deletes the admin role.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authed := RequireAuth(services.Auth)
	managerOnly := RequireRole(services.Auth, domainauth.RoleManager)
	adminOnly := RequireRole(services.Auth, domainauth.RoleAdmin)

	registerAuthRoutes(mux, &AuthHandlers{Svc: services.Auth}, authed)
	registerClientRoutes(mux, &ClientHandlers{Svc: services.Clients}, authed, managerOnly, adminOnly)
	registerProjectRoutes(mux, &ProjectHandlers{Svc: services.Projects}, authed, managerOnly, adminOnly)
	registerQuoteRoutes(mux, &QuoteHandlers{Svc: services.Quotes}, authed, managerOnly, adminOnly)
	registerMaterialRoutes(mux, &MaterialHandlers{Svc: services.Materials}, authed, managerOnly, adminOnly)
	registerDashboardRoutes(mux, &DashboardHandlers{Svc: services.Dashboard}, authed)
	registerReportRoutes(mux, &ReportHandlers{Svc: services.Reports}, managerOnly)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type middleware func(http.Handler) http.Handler

func handle(mux *http.ServeMux, pattern string, h http.HandlerFunc, mw middleware) {
	if mw != nil {
		mux.Handle(pattern, mw(h))
		return
	}
	mux.Handle(pattern, h)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, authed middleware) {
	handle(mux, "POST "+apiPrefix+"/auth/register", h.Register, nil)
	handle(mux, "POST "+apiPrefix+"/auth/login", h.Login, nil)
	handle(mux, "GET "+apiPrefix+"/auth/verify", h.Verify, nil)
	handle(mux, "POST "+apiPrefix+"/auth/logout", h.Logout, authed)
	handle(mux, "GET "+apiPrefix+"/auth/profile", h.Profile, authed)
	handle(mux, "PUT "+apiPrefix+"/auth/profile", h.UpdateProfile, authed)
	handle(mux, "PUT "+apiPrefix+"/auth/password", h.ChangePassword, authed)
}

func registerClientRoutes(mux *http.ServeMux, h *ClientHandlers, authed, managerOnly, adminOnly middleware) {
	base := apiPrefix + "/clients"
	handle(mux, "GET "+base, h.List, authed)
	handle(mux, "GET "+base+"/stats", h.Stats, authed)
	handle(mux, "GET "+base+"/{id}", h.GetByID, authed)
	handle(mux, "GET "+base+"/{id}/projects", h.Projects, authed)
	handle(mux, "POST "+base, h.Create, managerOnly)
	handle(mux, "PUT "+base+"/{id}", h.Update, managerOnly)
	handle(mux, "DELETE "+base+"/{id}", h.Delete, adminOnly)
}

func registerProjectRoutes(mux *http.ServeMux, h *ProjectHandlers, authed, managerOnly, adminOnly middleware) {
	base := apiPrefix + "/projects"
	handle(mux, "GET "+base, h.List, authed)
	handle(mux, "GET "+base+"/stats", h.Stats, authed)
	handle(mux, "GET "+base+"/{id}", h.GetByID, authed)
	handle(mux, "POST "+base, h.Create, managerOnly)
	handle(mux, "PUT "+base+"/{id}", h.Update, managerOnly)
	handle(mux, "PATCH "+base+"/{id}/progress", h.UpdateProgress, managerOnly)
	handle(mux, "DELETE "+base+"/{id}", h.Delete, adminOnly)
}

func registerQuoteRoutes(mux *http.ServeMux, h *QuoteHandlers, authed, managerOnly, adminOnly middleware) {
	base := apiPrefix + "/quotes"
	handle(mux, "GET "+base, h.List, authed)
	handle(mux, "GET "+base+"/stats", h.Stats, authed)
	handle(mux, "GET "+base+"/{id}", h.GetByID, authed)
	handle(mux, "POST "+base, h.Create, managerOnly)
	handle(mux, "PUT "+base+"/{id}", h.Update, managerOnly)
	handle(mux, "POST "+base+"/{id}/send", h.Send, managerOnly)
	handle(mux, "POST "+base+"/{id}/accept", h.Accept, managerOnly)
	handle(mux, "POST "+base+"/{id}/reject", h.Reject, managerOnly)
	handle(mux, "POST "+base+"/{id}/duplicate", h.Duplicate, managerOnly)
	handle(mux, "DELETE "+base+"/{id}", h.Delete, adminOnly)
}

func registerMaterialRoutes(mux *http.ServeMux, h *MaterialHandlers, authed, managerOnly, adminOnly middleware) {
	base := apiPrefix + "/materials"
	handle(mux, "GET "+base, h.List, authed)
	handle(mux, "GET "+base+"/stats", h.Stats, authed)
	handle(mux, "GET "+base+"/{id}", h.GetByID, authed)
	handle(mux, "POST "+base, h.Create, managerOnly)
	handle(mux, "PUT "+base+"/{id}", h.Update, managerOnly)
	handle(mux, "POST "+base+"/{id}/stock", h.AdjustStock, managerOnly)
	handle(mux, "DELETE "+base+"/{id}", h.Delete, adminOnly)
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, authed middleware) {
	base := apiPrefix + "/dashboard"
	handle(mux, "GET "+base+"/stats", h.Stats, authed)
	handle(mux, "GET "+base+"/recent-activity", h.RecentActivity, authed)
	handle(mux, "GET "+base+"/project-status", h.ProjectStatus, authed)
	handle(mux, "GET "+base+"/quote-status", h.QuoteStatus, authed)
	handle(mux, "GET "+base+"/monthly-data", h.MonthlyData, authed)
	handle(mux, "GET "+base+"/upcoming-deadlines", h.UpcomingDeadlines, authed)
	handle(mux, "GET "+base+"/top-clients", h.TopClients, authed)
}

func registerReportRoutes(mux *http.ServeMux, h *ReportHandlers, managerOnly middleware) {
	base := apiPrefix + "/reports"
	handle(mux, "GET "+base+"/financial", h.Financial, managerOnly)
	handle(mux, "GET "+base+"/clients", h.Clients, managerOnly)
	handle(mux, "GET "+base+"/projects", h.Projects, managerOnly)
	handle(mux, "GET "+base+"/quotes", h.Quotes, managerOnly)
}
