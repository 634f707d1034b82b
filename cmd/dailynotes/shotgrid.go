package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/tracking"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var playlistLimit int

func newShotGridCommand() *cobra.Command {
	sgCmd := &cobra.Command{
		Use:     "shotgrid",
		Aliases: []string{"sg"},
		Short:   "Browse ShotGrid through the notes server",
	}

	sgCmd.AddCommand(&cobra.Command{
		Use:   "projects",
		Short: "List active projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := trackingClient().ActiveProjects(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range projects {
				fmt.Printf("%-8d %-16s %s\n", p.ID, p.Code, p.Name)
			}
			return nil
		},
	})

	playlistsCmd := &cobra.Command{
		Use:   "playlists <project-id>",
		Short: "List the latest playlists of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}
			playlists, err := trackingClient().LatestPlaylists(cmd.Context(), projectID, playlistLimit)
			if err != nil {
				return err
			}
			for _, p := range playlists {
				fmt.Printf("%-8d %-32s %s\n", p.ID, p.Code, p.CreatedAt)
			}
			return nil
		},
	}
	playlistsCmd.Flags().IntVar(&playlistLimit, "limit", tracking.LatestPlaylistsLimit, "Number of playlists")
	sgCmd.AddCommand(playlistsCmd)

	sgCmd.AddCommand(&cobra.Command{
		Use:   "load <playlist-id>",
		Short: "Replace all versions with the items of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playlistID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid playlist id %q", args[0])
			}
			n, err := loadPlaylist(cmd.Context(), trackingClient(), backendClient(), playlistID)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d versions.\n", n)
			return nil
		},
	})

	return sgCmd
}

func trackingClient() tracking.Client {
	return do.MustInvoke[tracking.Client](injector)
}

type versionReplacer interface {
	ReplaceVersions(ctx context.Context, versions []repository.Version) ([]repository.Version, error)
}

// loadPlaylist replaces the server's versions with the playlist items, keyed
// by their "shot/version" name, in a single request.
func loadPlaylist(ctx context.Context, tc tracking.Client, store versionReplacer, playlistID int) (int, error) {
	items, err := tc.PlaylistItems(ctx, playlistID)
	if err != nil {
		return 0, err
	}
	versions := make([]repository.Version, 0, len(items))
	for _, item := range items {
		versions = append(versions, repository.Version{ID: item, Name: item})
	}
	stored, err := store.ReplaceVersions(ctx, versions)
	if err != nil {
		return 0, fmt.Errorf("load playlist %d: %w", playlistID, err)
	}
	return len(stored), nil
}
