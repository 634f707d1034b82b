// Package tracking describes the production tracking system versions can be
// loaded from.
package tracking

import (
	"context"
	"errors"
	"strings"
)

const LatestPlaylistsLimit = 20

var ErrNotConfigured = errors.New("production tracking is not configured")

type Project struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type Playlist struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

type Client interface {
	ActiveProjects(ctx context.Context) ([]Project, error)
	LatestPlaylists(ctx context.Context, projectID, limit int) ([]Playlist, error)
	// PlaylistItems returns the playlist's versions as "shot/version" names.
	PlaylistItems(ctx context.Context, playlistID int) ([]string, error)
}

// ItemName joins a shot and version code. A version without a shot keeps
// its own code.
func ItemName(shot, version string) string {
	shot = strings.TrimSpace(shot)
	version = strings.TrimSpace(version)
	if shot == "" {
		return version
	}
	return shot + "/" + version
}
