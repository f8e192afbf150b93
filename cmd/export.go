package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"stationsync/internal/formatter"
)

// Export writes the target playlist as CSV.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	playlist := cmd.String("playlist")
	if playlist == "" {
		playlist = r.config.Run.PlaylistName
	}

	tracks, err := r.client.PlaylistTracks(ctx, playlist)
	if err != nil {
		return err
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		return formatter.WritePlaylistCSV(r.output, playlist, tracks)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := formatter.WritePlaylistCSV(f, playlist, tracks); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	r.logger.Info("playlist exported", "path", outputPath, "tracks", len(tracks))
	return r.writePlain("wrote %d tracks to %s\n", len(tracks), outputPath)
}
