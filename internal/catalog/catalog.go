// package catalog defines the interface for the remote media catalog and its
// Plex implementation.
//
// The sync core treats the catalog as an external collaborator: it searches
// tracks by title, reads and mutates one named playlist, and tags newly
// added tracks. Search result order is catalog-defined and is treated as the
// matcher's preference order.
package catalog

import (
	"context"

	"stationsync/internal/models"
)

// Client is the catalog contract used by the reconciliation engine.
type Client interface {
	// Ping verifies connectivity and authentication. A run aborts before any
	// playlist mutation if this fails.
	Ping(ctx context.Context) error

	// SearchByTitle returns tracks whose title matches the given text, in
	// catalog preference order. An empty slice means no title hit.
	SearchByTitle(ctx context.Context, title string) ([]models.CatalogTrack, error)

	// GetPlaylist resolves a playlist by name, including its current member
	// track IDs. Returns shared.ErrPlaylistNotFound if absent.
	GetPlaylist(ctx context.Context, name string) (*models.Playlist, error)

	// CreatePlaylist creates a playlist containing the given tracks in order.
	CreatePlaylist(ctx context.Context, name string, trackIDs []string) (*models.Playlist, error)

	// AppendToPlaylist adds tracks to an existing playlist in order. Returns
	// the number actually appended; a non-nil error with appended > 0 means
	// the batch was partially applied.
	AppendToPlaylist(ctx context.Context, playlistID string, trackIDs []string) (int, error)

	// PlaylistTracks resolves a playlist by name and returns its member
	// tracks with full metadata, in playlist order.
	PlaylistTracks(ctx context.Context, name string) ([]models.CatalogTrack, error)

	// TagAndRate applies the sync tag and maximum favorite rating to a track.
	// Reapplying to an already tagged track is a no-op, not an error.
	TagAndRate(ctx context.Context, trackID string) error
}
