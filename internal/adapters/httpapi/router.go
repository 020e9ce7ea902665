package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: routes and middleware live here,
// request/response shaping in the handlers, behavior in the app layer.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint is deliberately out-of-spec (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", s.createProject)
		r.Get("/", s.listProjects)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", s.getProject)
			r.Patch("/", s.updateProject)
			r.Delete("/", s.deleteProject)

			r.Put("/schedule", s.replaceSchedule)
			r.Patch("/cast/{member}", s.updateCastSetting)
			r.Put("/home-locations", s.setHomeLocations)
			r.Put("/periods", s.replacePeriods)

			r.Post("/plan", s.computePlan)
			r.Get("/plan/export.csv", s.exportBillingCSV)
			r.Get("/plan/calendar.ics", s.exportCalendarICS)
		})
	})

	return r
}
