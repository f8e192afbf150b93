package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"stationsync/internal/formatter"
	"stationsync/internal/shared"
	"stationsync/internal/stations"
	"stationsync/internal/tasks"
)

// Sync performs a single harvest-and-reconcile run.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	engine, db, err := r.buildEngine(cmd.String("playlist"))
	if err != nil {
		return err
	}
	defer db.Close()

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseHarvest:
				r.writePlain("harvesting stations...\n")
			case tasks.PhaseMatch:
				if update.Processed == 1 {
					r.writePlain("matching %d candidates...\n", update.Total)
				}
			case tasks.PhaseReconcile:
				r.writePlain("updating playlist %q...\n", update.Message)
			}
		}
	}()

	report, runErr := engine.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if report == nil {
		return runErr
	}

	for _, w := range report.Warnings {
		r.writePlain("warning: station %s\n", w.Error())
	}
	if cmd.Bool("json") {
		if err := r.writeJSON(report, true); err != nil {
			return err
		}
	} else {
		r.writePlain("%s", formatter.RunText(formatter.RunSummary{
			Sightings:  report.Sightings,
			Candidates: report.Candidates,
			Added:      report.Added,
			Missing:    report.Missing,
			NewMissing: report.NewMissing,
			Duration:   report.Duration,
		}))
	}
	return runErr
}

// Watch runs Sync on a fixed interval until interrupted. A tick that
// arrives while a run is still active is skipped.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	minutes := cmd.Int("interval")
	if minutes <= 0 {
		minutes = int64(r.config.Watch.IntervalMinutes)
	}
	if minutes <= 0 {
		return fmt.Errorf("%w: watch interval must be positive", shared.ErrInvalidArgument)
	}
	interval := time.Duration(minutes) * time.Minute

	engine, db, err := r.buildEngine("")
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("watch started", "interval", interval)
	r.writePlain("watching stations every %s, press ctrl-c to stop\n", interval)

	runOnce := func() {
		report, err := engine.Run(ctx, nil)
		switch {
		case errors.Is(err, shared.ErrRunInProgress):
			r.logger.Warn("previous run still active, skipping tick")
		case err != nil:
			r.logger.Error("run failed", "err", err)
		case report != nil:
			r.logger.Info("run finished", "added", len(report.Added), "missing", len(report.Missing))
		}
	}

	runOnce()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("watch stopped")
			return nil
		case <-ticker.C:
			go runOnce()
		}
	}
}

func (r *Runner) buildEngine(playlistOverride string) (*tasks.Engine, *sql.DB, error) {
	sources, err := stations.ResolveSources(r.config.Run.Stations)
	if err != nil {
		return nil, nil, err
	}

	playlist := r.config.Run.PlaylistName
	if playlistOverride != "" {
		playlist = playlistOverride
	}

	db, history, err := r.openHistory()
	if err != nil {
		return nil, nil, err
	}

	engine := tasks.NewEngine(tasks.EngineOptions{
		Client:    r.client,
		Harvester: stations.NewHarvester(r.fetcher, r.logger),
		Ledger:    r.wishlist(),
		History:   history,
		Sources:   sources,
		Playlist:  playlist,
		Logger:    r.logger,
	})
	return engine, db, nil
}
