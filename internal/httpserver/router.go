package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tempo/internal/authn"
	"tempo/internal/authz"
	"tempo/internal/config"
	"tempo/internal/httpserver/handlers"
	"tempo/internal/models"
	"tempo/internal/store"
)

// Role allow-lists, declared once per mutating surface.
var (
	projectWriters = []string{models.RoleAdmin, models.RoleManager, models.RoleProjectManager}
	taskWriters    = []string{models.RoleAdmin, models.RoleManager, models.RoleProjectManager}
	entryWriters   = []string{models.RoleAdmin, models.RoleManager, models.RoleProjectManager, models.RoleEmployee}
	orgWriters     = []string{models.RoleAdmin, models.RoleManager}
	adminOnly      = []string{models.RoleAdmin}
)

func NewRouter(cfg *config.Config, st store.Store, provider authn.Provider, lg *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Use(secureHeaders)

	r.Get("/api/health", handlers.Health(cfg, st, lg))

	r.Get("/auth/login", provider.LoginHandler())
	r.Post("/auth/saml/callback", provider.CallbackHandler())
	r.Get("/auth/saml/metadata", provider.MetadataHandler())
	r.Get("/auth/logout", provider.LogoutHandler())
	r.Get("/login", loginPage)

	r.Route("/api", func(api chi.Router) {
		api.Use(provider.Middleware())

		api.Get("/users/me", handlers.Me(st, lg))

		api.Get("/projects", handlers.ListProjects(st, lg))
		api.Get("/projects/{id}", handlers.GetProject(st, lg))
		api.Get("/projects/{id}/employees", handlers.ListProjectEmployees(st, lg))
		api.With(authz.Require(st, lg, projectWriters...)).Post("/projects", handlers.CreateProject(st, lg))
		api.With(authz.Require(st, lg, projectWriters...)).Patch("/projects/{id}", handlers.UpdateProject(st, lg))
		api.With(authz.Require(st, lg, projectWriters...)).Delete("/projects/{id}", handlers.DeleteProject(st, lg))
		api.With(authz.Require(st, lg, projectWriters...)).Post("/projects/{id}/employees", handlers.AssignProjectEmployee(st, lg))
		api.With(authz.Require(st, lg, projectWriters...)).Delete("/projects/{id}/employees/{employeeId}", handlers.UnassignProjectEmployee(st, lg))

		api.Get("/tasks", handlers.ListTasks(st, lg))
		api.Get("/tasks/{id}", handlers.GetTask(st, lg))
		api.With(authz.Require(st, lg, taskWriters...)).Post("/tasks", handlers.CreateTask(st, lg))
		api.With(authz.Require(st, lg, taskWriters...)).Patch("/tasks/{id}", handlers.UpdateTask(st, lg))
		api.With(authz.Require(st, lg, taskWriters...)).Delete("/tasks/{id}", handlers.DeleteTask(st, lg))

		api.Get("/time-entries", handlers.ListTimeEntries(st, lg))
		api.Get("/time-entries/{id}", handlers.GetTimeEntry(st, lg))
		api.With(authz.Require(st, lg, entryWriters...)).Post("/time-entries", handlers.CreateTimeEntry(st, lg))
		api.With(authz.Require(st, lg, entryWriters...)).Patch("/time-entries/{id}", handlers.UpdateTimeEntry(st, lg))
		api.With(authz.Require(st, lg, entryWriters...)).Delete("/time-entries/{id}", handlers.DeleteTimeEntry(st, lg))

		api.Get("/employees", handlers.ListEmployees(st, lg))
		api.Get("/employees/{id}", handlers.GetEmployee(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Post("/employees", handlers.CreateEmployee(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Patch("/employees/{id}", handlers.UpdateEmployee(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Delete("/employees/{id}", handlers.DeleteEmployee(st, lg))

		api.Get("/departments", handlers.ListDepartments(st, lg))
		api.Get("/departments/{id}", handlers.GetDepartment(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Post("/departments", handlers.CreateDepartment(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Patch("/departments/{id}", handlers.UpdateDepartment(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Delete("/departments/{id}", handlers.DeleteDepartment(st, lg))

		api.Get("/organizations", handlers.ListOrganizations(st, lg))
		api.Get("/organizations/{id}", handlers.GetOrganization(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Post("/organizations", handlers.CreateOrganization(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Patch("/organizations/{id}", handlers.UpdateOrganization(st, lg))
		api.With(authz.Require(st, lg, orgWriters...)).Delete("/organizations/{id}", handlers.DeleteOrganization(st, lg))

		api.Get("/dashboard/stats", handlers.DashboardStats(st, lg))
		api.Get("/dashboard/activity", handlers.DashboardActivity(st, lg))
		api.Get("/dashboard/department-hours", handlers.DashboardDepartmentHours(st, lg))

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authz.Require(st, lg, adminOnly...))
			admin.Get("/users", handlers.AdminListUsers(st, lg))
			admin.Post("/users", handlers.AdminCreateUser(st, lg))
			admin.Patch("/users/{id}", handlers.AdminUpdateUser(st, lg))
			admin.Delete("/users/{id}", handlers.AdminDeleteUser(st, lg))
		})
	})

	return r
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// loginPage is the target of authentication error redirects; the real UI is
// served elsewhere.
func loginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if reason := r.URL.Query().Get("error"); reason != "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("login failed: " + reason + "\n"))
		return
	}
	_, _ = w.Write([]byte("sign in at /auth/login\n"))
}
