// Package httpapi exposes the version store and the notes delivery over REST.
package httpapi

import (
	"net/http"

	"github.com/foxseedlab/dailynotes/internal/httpapi/middleware"
	"github.com/foxseedlab/dailynotes/internal/notify"
	"github.com/foxseedlab/dailynotes/internal/tracking"
	"github.com/foxseedlab/dailynotes/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Versions *version.Service
	Notes    *notify.Service
	Store    storePinger
	// Tracking is nil when ShotGrid is not configured.
	Tracking     tracking.Client
	LLMProviders []string
	Registry     *prometheus.Registry
}

type Server struct {
	versions     *version.Service
	notes        *notify.Service
	store        storePinger
	tracking     tracking.Client
	llmProviders []string
	registry     *prometheus.Registry
	metrics      *middleware.HTTPMetrics
}

func NewServer(d Deps) *Server {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	notes := d.Notes
	if notes == nil {
		notes = notify.NewService(nil)
	}
	return &Server{
		versions:     d.Versions,
		notes:        notes,
		store:        d.Store,
		tracking:     d.Tracking,
		llmProviders: d.LLMProviders,
		registry:     reg,
		metrics:      middleware.NewHTTPMetrics(reg),
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /config", s.config)
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /versions/upload-csv", s.uploadCSV)
	mux.HandleFunc("GET /versions/export/csv", s.exportCSV)
	mux.HandleFunc("POST /versions", s.createVersion)
	mux.HandleFunc("GET /versions", s.listVersions)
	mux.HandleFunc("PUT /versions", s.replaceVersions)
	mux.HandleFunc("DELETE /versions", s.clearVersions)
	mux.HandleFunc("GET /versions/{id}", s.getVersion)
	mux.HandleFunc("DELETE /versions/{id}", s.deleteVersion)
	mux.HandleFunc("POST /versions/{id}/notes", s.addNote)
	mux.HandleFunc("PUT /versions/{id}/notes", s.updateNotes)
	mux.HandleFunc("POST /versions/{id}/generate-ai-notes", s.generateAINotes)

	mux.HandleFunc("POST /llm-summary", s.llmSummary)
	mux.HandleFunc("POST /email-notes", s.emailNotes)
	mux.HandleFunc("POST /notes/publish", s.publishNotes)

	mux.HandleFunc("GET /shotgrid/active-projects", s.activeProjects)
	mux.HandleFunc("GET /shotgrid/latest-playlists/{project_id}", s.latestPlaylists)
	mux.HandleFunc("GET /shotgrid/playlist-items/{playlist_id}", s.playlistItems)

	return mux
}

// Handler returns the routed API wrapped in the middleware chain. Metrics sits
// directly on the mux so it sees the matched pattern.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery,
		middleware.Logger,
		middleware.Metrics(s.metrics),
	)(s.routes())
}

func (s *Server) config(w http.ResponseWriter, r *http.Request) {
	providers := s.llmProviders
	if providers == nil {
		providers = []string{}
	}
	writeSuccess(w, http.StatusOK, envelope{
		"shotgrid_enabled": s.tracking != nil,
		"email_enabled":    s.notes.EmailEnabled(),
		"llm_providers":    providers,
	})
}
