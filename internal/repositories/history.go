package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"stationsync/internal/models"
	"stationsync/internal/shared"
)

// HistoryRepository persists run records in sqlite. The song lists are
// stored as JSON columns alongside the counts so a row stays readable on
// its own.
type HistoryRepository struct {
	db     *sql.DB
	logger *log.Logger
}

func NewHistoryRepository(db *sql.DB, logger *log.Logger) *HistoryRepository {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryRepository{db: db, logger: logger}
}

// Record inserts one run row.
func (r *HistoryRepository) Record(rec models.HistoryRecord) error {
	added, err := json.Marshal(orEmpty(rec.AddedSongs))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	missing, err := json.Marshal(orEmptyEntries(rec.MissingSongs))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO history (id, date, added_count, added_songs, missing_count, missing_songs, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date, rec.AddedCount, string(added), rec.MissingCount, string(missing), rec.Duration,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of zero or
// less returns everything.
func (r *HistoryRepository) List(limit int) ([]models.HistoryRecord, error) {
	return r.query("DESC", limit)
}

// All returns every run in chronological order.
func (r *HistoryRepository) All() ([]models.HistoryRecord, error) {
	return r.query("ASC", 0)
}

func (r *HistoryRepository) query(order string, limit int) ([]models.HistoryRecord, error) {
	query := `
		SELECT id, date, added_count, added_songs, missing_count, missing_songs, duration_seconds
		FROM history ORDER BY date ` + order
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = r.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		var added, missing string
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.AddedCount, &added, &rec.MissingCount, &missing, &rec.Duration); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
		}
		if err := json.Unmarshal([]byte(added), &rec.AddedSongs); err != nil {
			r.logger.Warn("unreadable added_songs column", "run", rec.ID, "err", err)
		}
		if err := json.Unmarshal([]byte(missing), &rec.MissingSongs); err != nil {
			r.logger.Warn("unreadable missing_songs column", "run", rec.ID, "err", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats aggregates across all recorded runs.
func (r *HistoryRepository) Stats() (models.HistoryStats, error) {
	var stats models.HistoryStats
	row := r.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(added_count), 0),
			COALESCE(SUM(missing_count), 0),
			COALESCE(AVG(added_count), 0),
			COALESCE(AVG(missing_count), 0)
		FROM history`)
	err := row.Scan(&stats.TotalRuns, &stats.TotalAdded, &stats.TotalMissing, &stats.AvgAdded, &stats.AvgMissing)
	if err != nil {
		return stats, fmt.Errorf("%w: %v", shared.ErrHistoryPersistence, err)
	}
	return stats, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyEntries(s []models.LedgerEntry) []models.LedgerEntry {
	if s == nil {
		return []models.LedgerEntry{}
	}
	return s
}
