package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"stationsync/internal/models"
)

func tempWishlist(t *testing.T) *WishlistRepository {
	t.Helper()
	return NewWishlistRepository(filepath.Join(t.TempDir(), "wishlist.json"), nil)
}

func TestWishlistMergeAndReload(t *testing.T) {
	repo := tempWishlist(t)

	fresh, err := repo.Merge([]models.LedgerEntry{
		{Artist: "Ghost Artist", Title: "Nowhere Song"},
		{Artist: "Other Artist", Title: "Other Song"},
	})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("fresh = %d, want 2", len(fresh))
	}

	entries := repo.Load()
	if len(entries) != 2 {
		t.Fatalf("loaded = %d, want 2", len(entries))
	}
}

func TestWishlistRemergeIsIdempotent(t *testing.T) {
	repo := tempWishlist(t)
	batch := []models.LedgerEntry{{Artist: "Ghost Artist", Title: "Nowhere Song"}}

	if _, err := repo.Merge(batch); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	fresh, err := repo.Merge(batch)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if len(fresh) != 0 {
		t.Errorf("second merge fresh = %v, want none", fresh)
	}
	if entries := repo.Load(); len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestWishlistDuplicatesWithinBatchCollapse(t *testing.T) {
	repo := tempWishlist(t)

	fresh, err := repo.Merge([]models.LedgerEntry{
		{Artist: "Ghost Artist", Title: "Nowhere Song"},
		{Artist: "Ghost Artist", Title: "Nowhere Song"},
	})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if len(fresh) != 1 {
		t.Errorf("fresh = %d, want duplicate collapsed to 1", len(fresh))
	}
}

func TestWishlistKeysAreLiteral(t *testing.T) {
	repo := tempWishlist(t)

	fresh, err := repo.Merge([]models.LedgerEntry{
		{Artist: "ghost artist", Title: "nowhere song"},
		{Artist: "Ghost Artist", Title: "Nowhere Song"},
	})
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("fresh = %d, different spellings are distinct entries", len(fresh))
	}
}

func TestWishlistCorruptFileTreatedEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wishlist.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	repo := NewWishlistRepository(path, nil)

	if entries := repo.Load(); len(entries) != 0 {
		t.Errorf("entries = %d, corrupt file should read as empty", len(entries))
	}

	// The corrupt file survives until a rewrite succeeds.
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{not json" {
		t.Errorf("corrupt file was modified by Load: %q, %v", data, err)
	}

	if _, err := repo.Merge([]models.LedgerEntry{{Artist: "A Band", Title: "A Song"}}); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if entries := repo.Load(); len(entries) != 1 {
		t.Errorf("entries = %d after recovery merge, want 1", len(entries))
	}
}

func TestWishlistRemove(t *testing.T) {
	repo := tempWishlist(t)
	if _, err := repo.Merge([]models.LedgerEntry{
		{Artist: "Ghost Artist", Title: "Nowhere Song"},
		{Artist: "Other Artist", Title: "Other Song"},
	}); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	removed, err := repo.Remove("ghost artist", "NOWHERE SONG")
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1 (case-insensitive)", removed)
	}
	if entries := repo.Load(); len(entries) != 1 || entries[0].Artist != "Other Artist" {
		t.Errorf("entries = %+v, want only Other Artist", entries)
	}

	removed, err = repo.Remove("Nobody", "Nothing")
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0 for absent entry", removed)
	}
}

func TestWishlistSorted(t *testing.T) {
	repo := tempWishlist(t)
	if _, err := repo.Merge([]models.LedgerEntry{
		{Artist: "Zeta", Title: "Song"},
		{Artist: "Alpha", Title: "B Side"},
		{Artist: "Alpha", Title: "A Side"},
	}); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	entries := repo.Sorted()
	want := []models.LedgerEntry{
		{Artist: "Alpha", Title: "A Side"},
		{Artist: "Alpha", Title: "B Side"},
		{Artist: "Zeta", Title: "Song"},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestWishlistMergeCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "wishlist.json")
	repo := NewWishlistRepository(path, nil)

	if _, err := repo.Merge([]models.LedgerEntry{{Artist: "A Band", Title: "A Song"}}); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("wishlist file not created: %v", err)
	}
}
