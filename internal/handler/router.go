package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/barbershop-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware барбершоп-консоли.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", h.GetSession)
		r.Post("/session/view", h.SetView)
		r.Post("/session/modal", h.SetModal)
		r.Post("/session/draft/client", h.SetClientDraft)
		r.Post("/session/draft/service", h.SetServiceDraft)
		r.Post("/session/draft/appointment", h.SetAppointmentDraft)

		r.Get("/clients", h.GetClients)
		r.Post("/clients", h.CreateClient)

		r.Get("/services", h.GetServices)
		r.Post("/services", h.CreateService)
		r.Delete("/services/{id}", func(w http.ResponseWriter, req *http.Request) {
			h.DeleteService(w, req, chi.URLParam(req, "id"))
		})

		r.Get("/appointments", h.GetAppointments)
		r.Post("/appointments", h.CreateAppointment)
		r.Delete("/appointments/{id}", func(w http.ResponseWriter, req *http.Request) {
			h.DeleteAppointment(w, req, chi.URLParam(req, "id"))
		})

		r.Get("/stats", h.GetStats)

		r.Post("/insights/reminder", h.GenerateReminder)
		r.Post("/insights", h.RefreshInsights)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
