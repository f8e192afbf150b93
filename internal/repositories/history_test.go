package repositories

import (
	"testing"
	"time"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

func tempHistory(t *testing.T) *HistoryRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewHistoryRepository(db, nil)
}

func record(id string, date time.Time, added, missing int) models.HistoryRecord {
	rec := models.HistoryRecord{
		ID:           id,
		Date:         date,
		AddedCount:   added,
		MissingCount: missing,
		Duration:     1.5,
	}
	for i := 0; i < added; i++ {
		rec.AddedSongs = append(rec.AddedSongs, "Some Song by Some Band (journeyfm)")
	}
	for i := 0; i < missing; i++ {
		rec.MissingSongs = append(rec.MissingSongs, models.LedgerEntry{Artist: "Ghost Artist", Title: "Nowhere Song"})
	}
	return rec
}

func TestHistoryRecordAndList(t *testing.T) {
	repo := tempHistory(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i, rec := range []models.HistoryRecord{
		record("run-1", base, 2, 1),
		record("run-2", base.Add(time.Hour), 0, 0),
		record("run-3", base.Add(2*time.Hour), 1, 3),
	} {
		if err := repo.Record(rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	records, err := repo.List(0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].ID != "run-3" || records[2].ID != "run-1" {
		t.Errorf("order = [%s %s %s], want newest first", records[0].ID, records[1].ID, records[2].ID)
	}

	if records[2].AddedCount != 2 || len(records[2].AddedSongs) != 2 {
		t.Errorf("run-1 added = %d/%d songs", records[2].AddedCount, len(records[2].AddedSongs))
	}
	if len(records[0].MissingSongs) != 3 {
		t.Errorf("run-3 missing songs = %d, want 3", len(records[0].MissingSongs))
	}
	if records[0].MissingSongs[0].Artist != "Ghost Artist" {
		t.Errorf("missing song = %+v", records[0].MissingSongs[0])
	}
}

func TestHistoryListLimit(t *testing.T) {
	repo := tempHistory(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := repo.Record(record(shared.GenerateID(), base.Add(time.Duration(i)*time.Hour), 0, 0)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	records, err := repo.List(2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want limit of 2", len(records))
	}
}

func TestHistoryAllChronological(t *testing.T) {
	repo := tempHistory(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Record(record("run-2", base.Add(time.Hour), 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Record(record("run-1", base, 0, 0)); err != nil {
		t.Fatal(err)
	}

	records, err := repo.All()
	if err != nil {
		t.Fatalf("All returned error: %v", err)
	}
	if len(records) != 2 || records[0].ID != "run-1" {
		t.Errorf("order = %v, want oldest first", []string{records[0].ID, records[1].ID})
	}
}

func TestHistoryStats(t *testing.T) {
	repo := tempHistory(t)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.Record(record("run-1", base, 4, 2)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Record(record("run-2", base.Add(time.Hour), 0, 0)); err != nil {
		t.Fatal(err)
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalRuns != 2 {
		t.Errorf("TotalRuns = %d, want 2", stats.TotalRuns)
	}
	if stats.TotalAdded != 4 || stats.TotalMissing != 2 {
		t.Errorf("totals = %d/%d, want 4/2", stats.TotalAdded, stats.TotalMissing)
	}
	if stats.AvgAdded != 2.0 || stats.AvgMissing != 1.0 {
		t.Errorf("averages = %f/%f, want 2.0/1.0", stats.AvgAdded, stats.AvgMissing)
	}
}

func TestHistoryStatsEmpty(t *testing.T) {
	repo := tempHistory(t)
	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalRuns != 0 || stats.TotalAdded != 0 {
		t.Errorf("stats = %+v, want zeros for empty history", stats)
	}
}
