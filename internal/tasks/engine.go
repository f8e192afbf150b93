package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"stationsync/internal/catalog"
	"stationsync/internal/models"
	"stationsync/internal/shared"
	"stationsync/internal/stations"
)

// Ledger persists the deduplicated missing-songs list across runs.
type Ledger interface {
	Merge(entries []models.LedgerEntry) ([]models.LedgerEntry, error)
}

// History records completed runs.
type History interface {
	Record(rec models.HistoryRecord) error
}

// RunReport summarizes one sync run.
type RunReport struct {
	Sightings  int
	Candidates int
	Added      []models.AddedSong
	Missing    []models.LedgerEntry
	NewMissing []models.LedgerEntry
	Warnings   []stations.SourceError
	LedgerErr  error
	Duration   time.Duration
}

// Engine sequences a full sync run. Runs are single-flight: a run
// arriving while another is active is skipped, not queued.
type Engine struct {
	client    catalog.Client
	harvester *stations.Harvester
	ledger    Ledger
	history   History
	sources   []stations.Source
	playlist  string
	logger    *log.Logger
	mu        sync.Mutex
}

type EngineOptions struct {
	Client    catalog.Client
	Harvester *stations.Harvester
	Ledger    Ledger
	History   History
	Sources   []stations.Source
	Playlist  string
	Logger    *log.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		client:    opts.Client,
		harvester: opts.Harvester,
		ledger:    opts.Ledger,
		history:   opts.History,
		sources:   opts.Sources,
		playlist:  opts.Playlist,
		logger:    logger,
	}
}

// Run performs one sync: preflight, harvest, normalize, match, reconcile,
// ledger merge, history record. A fatal catalog failure aborts before any
// mutation and records nothing. A concurrent run returns ErrRunInProgress
// immediately.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunReport, error) {
	if !e.mu.TryLock() {
		return nil, shared.ErrRunInProgress
	}
	defer e.mu.Unlock()

	start := time.Now()
	report := &RunReport{}

	notify(progress, ProgressUpdate{Phase: PhasePreflight, Message: "checking catalog"})
	if err := e.client.Ping(ctx); err != nil {
		if catalog.IsFatal(err) {
			return nil, fmt.Errorf("catalog preflight: %w", err)
		}
		e.logger.Warn("preflight degraded", "err", err)
	}

	notify(progress, ProgressUpdate{Phase: PhaseHarvest, Message: "harvesting stations"})
	sightings, warnings := e.harvester.Harvest(ctx, e.sources)
	report.Sightings = len(sightings)
	report.Warnings = warnings

	if len(sightings) == 0 {
		e.logger.Info("no sightings harvested")
		report.Duration = time.Since(start)
		e.record(report)
		notify(progress, ProgressUpdate{Phase: PhaseDone})
		return report, nil
	}

	notify(progress, ProgressUpdate{Phase: PhaseNormalize, Total: len(sightings)})
	var candidates []models.Candidate
	for _, s := range sightings {
		if c, ok := Normalize(s); ok {
			candidates = append(candidates, c)
		}
	}
	report.Candidates = len(candidates)

	matcher := NewMatcher(e.client, e.logger)
	var matches []models.MatchResult
	for i, c := range candidates {
		notify(progress, ProgressUpdate{Phase: PhaseMatch, Message: c.DisplayTitle, Processed: i + 1, Total: len(candidates)})
		result, err := matcher.Match(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("catalog match: %w", err)
		}
		matches = append(matches, result)
	}

	for _, m := range matches {
		if !m.Matched() {
			// Ledger entries keep the scraped spelling, not the cleaned
			// search form.
			report.Missing = append(report.Missing, models.LedgerEntry{
				Artist: m.Candidate.RawArtist,
				Title:  m.Candidate.RawTitle,
			})
		}
	}

	notify(progress, ProgressUpdate{Phase: PhaseReconcile, Message: e.playlist})
	reconciler := NewReconciler(e.client, e.logger)
	added, reconcileErr := reconciler.Reconcile(ctx, e.playlist, matches)
	for _, m := range added {
		report.Added = append(report.Added, models.AddedSong{
			Description: Describe(m),
			Confidence:  m.Confidence,
		})
	}

	notify(progress, ProgressUpdate{Phase: PhaseLedger, Total: len(report.Missing)})
	if len(report.Missing) > 0 {
		fresh, err := e.ledger.Merge(report.Missing)
		if err != nil {
			e.logger.Error("ledger merge failed", "err", err)
			report.LedgerErr = err
		} else {
			report.NewMissing = fresh
		}
	}

	report.Duration = time.Since(start)
	e.record(report)

	notify(progress, ProgressUpdate{Phase: PhaseDone})
	e.logger.Info("run complete",
		"sightings", report.Sightings,
		"added", len(report.Added),
		"missing", len(report.Missing),
		"duration", report.Duration)

	if reconcileErr != nil {
		return report, fmt.Errorf("reconcile: %w", reconcileErr)
	}
	return report, nil
}

// record writes the run's history row. History failures degrade the run
// but never fail it.
func (e *Engine) record(report *RunReport) {
	songs := make([]string, 0, len(report.Added))
	for _, a := range report.Added {
		songs = append(songs, a.Description)
	}
	rec := models.HistoryRecord{
		ID:           shared.GenerateID(),
		Date:         time.Now().UTC(),
		AddedCount:   len(report.Added),
		AddedSongs:   songs,
		MissingCount: len(report.Missing),
		MissingSongs: report.Missing,
		Duration:     report.Duration.Seconds(),
	}
	if err := e.history.Record(rec); err != nil {
		e.logger.Error("history record failed", "err", err)
	}
}
