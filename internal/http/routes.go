package httpx

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainauth "github.com/acaralabs/acara-web/internal/domain/auth"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Sessions     SessionServiceInterface
	Events       EventAPI
	Orders       OrderAPI
	Certificates CertificateAPI
	Directory    DirectoryAPI
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. Metrics, browser
// detection, and the edge gate wrap the mux here; recovery and logging are
// applied by the caller so the whole chain is logged.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Sessions,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	roleHandlers := &RoleHandlers{Svc: services.Sessions}
	publicHandlers := &PublicHandlers{
		Events: services.Events,
		Orders: services.Orders,
		Certs:  services.Certificates,
		Logger: services.Logger,
	}
	dashboardHandlers := &DashboardHandlers{
		Events: services.Events,
		Orders: services.Orders,
		Certs:  services.Certificates,
		Logger: services.Logger,
	}
	superadminHandlers := &SuperadminHandlers{
		Directory: services.Directory,
		Logger:    services.Logger,
	}
	guard := &Guard{Sessions: services.Sessions}

	registerAuthRoutes(mux, authHandlers)
	registerPublicRoutes(mux, publicHandlers)
	registerRoleRoutes(mux, roleHandlers, guard)
	registerDashboardRoutes(mux, dashboardHandlers, guard)
	registerSuperadminRoutes(mux, superadminHandlers, guard)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Metrics must sit directly above the gate and mux: the mux writes the
	// matched pattern into the request it is given, and a middleware that
	// swaps in a copied request (BrowserDetection does, via WithContext)
	// would hide that write from Metrics.
	var handler http.Handler = mux
	handler = EdgeGate()(handler)
	handler = Metrics()(handler)
	handler = BrowserDetection()(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/session", h.Status)
}

func registerPublicRoutes(mux *http.ServeMux, h *PublicHandlers) {
	mux.HandleFunc("GET /api/events", h.ListEvents)
	mux.HandleFunc("GET /api/events/{id}", h.GetEvent)
	mux.HandleFunc("POST /api/events/{id}/register", h.RegisterParticipant)
	mux.HandleFunc("POST /api/organizers/apply", h.ApplyOrganizer)
	mux.HandleFunc("GET /api/certificates/{id}", h.VerifyCertificate)
}

func registerRoleRoutes(mux *http.ServeMux, h *RoleHandlers, guard *Guard) {
	mux.Handle("GET /role-setup", guard.RequireSession(http.HandlerFunc(h.Show)))
	mux.Handle("POST /role-setup", guard.RequireSession(http.HandlerFunc(h.Submit)))
}

func registerDashboardRoutes(mux *http.ServeMux, h *DashboardHandlers, guard *Guard) {
	staff := guard.RequireRole(domainauth.RoleStaff)
	admin := guard.RequireRole(domainauth.RoleAdmin)

	mux.Handle("GET /dashboard", staff(http.HandlerFunc(h.Landing)))
	mux.Handle("GET /dashboard/events", staff(http.HandlerFunc(h.ListMyEvents)))
	mux.Handle("GET /dashboard/events/{id}", staff(http.HandlerFunc(h.GetEvent)))
	mux.Handle("GET /dashboard/events/{id}/orders", staff(http.HandlerFunc(h.ListOrders)))

	mux.Handle("POST /dashboard/events", admin(http.HandlerFunc(h.CreateEvent)))
	mux.Handle("PUT /dashboard/events/{id}", admin(http.HandlerFunc(h.UpdateEvent)))
	mux.Handle("DELETE /dashboard/events/{id}", admin(http.HandlerFunc(h.DeleteEvent)))
	mux.Handle("POST /dashboard/events/{id}/certificates/issue", admin(http.HandlerFunc(h.IssueCertificates)))
	mux.Handle("PUT /dashboard/events/{id}/certificate-background", admin(http.HandlerFunc(h.UploadCertBackground)))
}

func registerSuperadminRoutes(mux *http.ServeMux, h *SuperadminHandlers, guard *Guard) {
	super := guard.RequireRole(domainauth.RoleSuperAdmin)

	mux.Handle("GET /superadmin", super(http.HandlerFunc(h.Landing)))
	mux.Handle("GET /superadmin/users", super(http.HandlerFunc(h.ListUsers)))
	mux.Handle("PATCH /superadmin/users/{id}", super(http.HandlerFunc(h.UpdateUser)))
	mux.Handle("DELETE /superadmin/users/{id}", super(http.HandlerFunc(h.DeleteUser)))
}
