package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/foxseedlab/dailynotes/internal/tracking"
)

func (s *Server) requireTracking(w http.ResponseWriter, r *http.Request) bool {
	if s.tracking == nil {
		handleError(w, r, tracking.ErrNotConfigured)
		return false
	}
	return true
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadRequest, name)
	}
	return n, nil
}

func (s *Server) activeProjects(w http.ResponseWriter, r *http.Request) {
	if !s.requireTracking(w, r) {
		return
	}
	projects, err := s.tracking.ActiveProjects(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if projects == nil {
		projects = []tracking.Project{}
	}
	writeSuccess(w, http.StatusOK, envelope{"projects": projects})
}

// latestPlaylists accepts an optional ?limit= to override the default page.
func (s *Server) latestPlaylists(w http.ResponseWriter, r *http.Request) {
	if !s.requireTracking(w, r) {
		return
	}
	projectID, err := pathInt(r, "project_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit := tracking.LatestPlaylistsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit <= 0 {
			handleError(w, r, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
	}
	playlists, err := s.tracking.LatestPlaylists(r.Context(), projectID, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if playlists == nil {
		playlists = []tracking.Playlist{}
	}
	writeSuccess(w, http.StatusOK, envelope{"playlists": playlists})
}

func (s *Server) playlistItems(w http.ResponseWriter, r *http.Request) {
	if !s.requireTracking(w, r) {
		return
	}
	playlistID, err := pathInt(r, "playlist_id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	items, err := s.tracking.PlaylistItems(r.Context(), playlistID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	writeSuccess(w, http.StatusOK, envelope{"items": items})
}
