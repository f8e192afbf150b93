// package formatter renders ledger and history data for the terminal and
// for export files.
package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"stationsync/internal/models"
)

// WishlistText renders the ledger as a plain list, one song per line.
func WishlistText(entries []models.LedgerEntry) string {
	if len(entries) == 0 {
		return "wishlist is empty\n"
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s - %s\n", e.Artist, e.Title)
	}
	return b.String()
}

// WishlistBuyList renders the ledger as a shopping list with a digital
// music search link per song.
func WishlistBuyList(entries []models.LedgerEntry) string {
	var b strings.Builder
	b.WriteString("Songs to buy:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s - %s\n  %s\n\n", e.Artist, e.Title, PurchaseLink(e))
	}
	fmt.Fprintf(&b, "%d songs total\n", len(entries))
	return b.String()
}

// PurchaseLink builds a store search URL for one ledger entry.
func PurchaseLink(e models.LedgerEntry) string {
	q := url.Values{}
	q.Set("k", fmt.Sprintf("%s %s", e.Artist, e.Title))
	q.Set("i", "digital-music")
	return "https://www.amazon.com/s?" + q.Encode()
}

// WritePlaylistCSV writes matched playlist tracks as CSV with a header
// row.
func WritePlaylistCSV(w io.Writer, name string, tracks []models.CatalogTrack) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"playlist", "artist", "title", "track_id"}); err != nil {
		return err
	}
	for _, t := range tracks {
		if err := cw.Write([]string{name, t.Artist, t.Title, t.ID}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HistoryText renders run records as a compact table, newest first.
func HistoryText(records []models.HistoryRecord) string {
	if len(records) == 0 {
		return "no runs recorded\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %6s %8s %10s\n", "DATE", "ADDED", "MISSING", "DURATION")
	for _, r := range records {
		fmt.Fprintf(&b, "%-20s %6d %8d %9.1fs\n",
			r.Date.Local().Format("2006-01-02 15:04:05"), r.AddedCount, r.MissingCount, r.Duration)
	}
	return b.String()
}

// StatsText renders aggregate run statistics.
func StatsText(stats models.HistoryStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "runs:          %d\n", stats.TotalRuns)
	fmt.Fprintf(&b, "songs added:   %d (%.1f per run)\n", stats.TotalAdded, stats.AvgAdded)
	fmt.Fprintf(&b, "songs missing: %d (%.1f per run)\n", stats.TotalMissing, stats.AvgMissing)
	return b.String()
}

// RunText renders a finished run report for the terminal.
func RunText(report RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sightings: %d  candidates: %d  added: %d  missing: %d  (%s)\n",
		report.Sightings, report.Candidates, len(report.Added), len(report.Missing),
		report.Duration.Round(time.Millisecond))
	if len(report.Added) > 0 {
		b.WriteString("\nadded:\n")
		for _, s := range report.Added {
			fmt.Fprintf(&b, "  %s  (match %.2f)\n", s.Description, s.Confidence)
		}
	}
	if len(report.NewMissing) > 0 {
		b.WriteString("\nnew on wishlist:\n")
		for _, e := range report.NewMissing {
			fmt.Fprintf(&b, "  %s - %s\n", e.Artist, e.Title)
		}
	}
	return b.String()
}

// RunSummary is the slice of a run report the formatter needs.
type RunSummary struct {
	Sightings  int
	Candidates int
	Added      []models.AddedSong
	Missing    []models.LedgerEntry
	NewMissing []models.LedgerEntry
	Duration   time.Duration
}
