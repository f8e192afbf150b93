package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"stationsync/internal/formatter"
)

// WishlistShow lists the songs no catalog search could resolve.
func (r *Runner) WishlistShow(ctx context.Context, cmd *cli.Command) error {
	entries := r.wishlist().Sorted()
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	return r.writePlain("%s", formatter.WishlistText(entries))
}

// WishlistExport writes the shopping list with purchase links.
func (r *Runner) WishlistExport(ctx context.Context, cmd *cli.Command) error {
	entries := r.wishlist().Sorted()
	text := formatter.WishlistBuyList(entries)

	outputPath := cmd.String("output")
	if outputPath == "" {
		return r.writePlain("%s", text)
	}
	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	r.logger.Info("wishlist exported", "path", outputPath, "songs", len(entries))
	return r.writePlain("wrote %d songs to %s\n", len(entries), outputPath)
}

// WishlistRemove drops one song from the ledger, typically after buying it.
func (r *Runner) WishlistRemove(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.String("artist")
	title := cmd.String("title")

	removed, err := r.wishlist().Remove(artist, title)
	if err != nil {
		return err
	}
	if removed == 0 {
		return r.writePlain("no matching entry for %s - %s\n", artist, title)
	}
	return r.writePlain("removed %s - %s\n", artist, title)
}
