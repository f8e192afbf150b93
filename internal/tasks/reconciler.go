package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"stationsync/internal/catalog"
	"stationsync/internal/models"
	"stationsync/internal/shared"
)

// Reconciler converges the target playlist toward the matched tracks. It
// only ever appends: tracks already on the playlist are never removed or
// reordered.
type Reconciler struct {
	client catalog.Client
	logger *log.Logger
}

func NewReconciler(client catalog.Client, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Reconciler{client: client, logger: logger}
}

// Reconcile ensures the named playlist exists and contains every matched
// track, creating it when absent. Returns the tracks actually added this
// run, in match order. When the append fails wholesale nothing is
// reported as added; a partial append reports what was applied alongside
// the error.
func (r *Reconciler) Reconcile(ctx context.Context, playlistName string, matches []models.MatchResult) ([]models.MatchResult, error) {
	var wanted []models.MatchResult
	seen := make(map[string]bool)
	for _, m := range matches {
		if !m.Matched() || seen[m.Track.ID] {
			continue
		}
		seen[m.Track.ID] = true
		wanted = append(wanted, m)
	}

	playlist, err := r.client.GetPlaylist(ctx, playlistName)
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		if len(wanted) == 0 {
			return nil, nil
		}
		ids := trackIDs(wanted)
		if _, err := r.client.CreatePlaylist(ctx, playlistName, ids); err != nil {
			return nil, fmt.Errorf("create playlist %q: %w", playlistName, err)
		}
		r.logger.Info("created playlist", "name", playlistName, "tracks", len(ids))
		r.tag(ctx, wanted)
		return wanted, nil
	case err != nil:
		return nil, fmt.Errorf("lookup playlist %q: %w", playlistName, err)
	}

	existing := make(map[string]bool, len(playlist.TrackIDs))
	for _, id := range playlist.TrackIDs {
		existing[id] = true
	}

	var fresh []models.MatchResult
	for _, m := range wanted {
		if !existing[m.Track.ID] {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	appended, err := r.client.AppendToPlaylist(ctx, playlist.ID, trackIDs(fresh))
	if err != nil {
		applied := fresh[:appended]
		r.tag(ctx, applied)
		return applied, fmt.Errorf("append to playlist %q: %w", playlistName, err)
	}

	r.logger.Info("appended to playlist", "name", playlistName, "tracks", len(fresh))
	r.tag(ctx, fresh)
	return fresh, nil
}

// tag marks newly added tracks in the catalog. Tagging is cosmetic, a
// failure is logged and dropped.
func (r *Reconciler) tag(ctx context.Context, added []models.MatchResult) {
	for _, m := range added {
		if err := r.client.TagAndRate(ctx, m.Track.ID); err != nil {
			r.logger.Warn("tagging failed", "track", m.Track.ID, "err", err)
		}
	}
}

func trackIDs(matches []models.MatchResult) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Track.ID)
	}
	return ids
}

// Describe formats an added track the way run summaries and history
// records present it.
func Describe(m models.MatchResult) string {
	return fmt.Sprintf("%s by %s (%s)", m.Candidate.DisplayTitle, m.Candidate.DisplayArtist, m.Candidate.Source)
}
