package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a chi router with the admin API mounted under
// /api/admin behind the shared-secret token check. registry, if non-nil,
// is exposed at GET /metrics.
func NewRouter(h *Handler, adminToken string, registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(AuthMiddleware(adminToken))

		r.Get("/case", h.GetCase)
		r.Post("/case", h.SaveCase)
		r.Delete("/case", h.DeleteCase)

		r.Get("/case/assets", h.ListAssets)
		r.Post("/case/assets", h.UploadAsset)
		r.Delete("/case/assets", h.DeleteAsset)

		r.Get("/case/summary", h.Summary)

		r.Get("/case/history", h.ListVersions)
		r.Post("/case/history", h.RestoreVersion)
		r.Delete("/case/history", h.DeleteVersion)

		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)
		r.Post("/backup/snapshot", h.Snapshot)
	})

	return r
}
