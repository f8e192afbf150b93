// package repositories holds the persistence layer: the missing-songs
// ledger on disk and the run history store in sqlite.
package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

// WishlistRepository keeps the missing-songs ledger as a JSON file.
// Entries are stored with their sighted spelling and deduplicated by the
// exact (artist, title) pair. Rewrites go through a temp file and rename
// so the previous ledger survives a failed write.
type WishlistRepository struct {
	path   string
	logger *log.Logger
}

func NewWishlistRepository(path string, logger *log.Logger) *WishlistRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &WishlistRepository{path: path, logger: logger}
}

// Load reads the ledger. A missing or unreadable file yields an empty
// ledger; the file itself is left untouched either way.
func (r *WishlistRepository) Load() []models.LedgerEntry {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("wishlist unreadable, starting empty", "path", r.path, "err", err)
		}
		return nil
	}

	var entries []models.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("wishlist corrupt, starting empty", "path", r.path, "err", err)
		return nil
	}
	return entries
}

// Merge folds new missing songs into the ledger and rewrites it,
// returning only the entries that were not already present. Duplicates
// within the incoming batch collapse too. Merging the same batch twice
// returns nothing the second time.
func (r *WishlistRepository) Merge(incoming []models.LedgerEntry) ([]models.LedgerEntry, error) {
	existing := r.Load()
	known := make(map[string]bool, len(existing))
	for _, e := range existing {
		known[e.Key()] = true
	}

	merged := existing
	var fresh []models.LedgerEntry
	for _, e := range incoming {
		if known[e.Key()] {
			continue
		}
		known[e.Key()] = true
		merged = append(merged, e)
		fresh = append(fresh, e)
	}

	if len(fresh) == 0 {
		return nil, nil
	}
	if err := r.write(merged); err != nil {
		return nil, err
	}
	r.logger.Info("wishlist updated", "new", len(fresh), "total", len(merged))
	return fresh, nil
}

// Remove drops every entry whose artist and title match the given pair,
// case-insensitively. Returns the number removed.
func (r *WishlistRepository) Remove(artist, title string) (int, error) {
	entries := r.Load()
	var kept []models.LedgerEntry
	for _, e := range entries {
		if strings.EqualFold(e.Artist, artist) && strings.EqualFold(e.Title, title) {
			continue
		}
		kept = append(kept, e)
	}

	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := r.write(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Sorted returns the ledger ordered by artist then title for display.
func (r *WishlistRepository) Sorted() []models.LedgerEntry {
	entries := r.Load()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Artist != entries[j].Artist {
			return entries[i].Artist < entries[j].Artist
		}
		return entries[i].Title < entries[j].Title
	})
	return entries
}

func (r *WishlistRepository) write(entries []models.LedgerEntry) error {
	if entries == nil {
		entries = []models.LedgerEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}

	tmp, err := os.CreateTemp(dir, ".wishlist-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", shared.ErrLedgerPersistence, err)
	}
	return nil
}
