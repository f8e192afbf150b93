package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"stationsync/internal/formatter"
	"stationsync/internal/models"
)

// HistoryList shows recent runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, history, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	var records []models.HistoryRecord
	if cmd.Bool("oldest-first") {
		records, err = history.All()
	} else {
		records, err = history.List(int(cmd.Int("limit")))
	}
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}
	return r.writePlain("%s", formatter.HistoryText(records))
}

// HistoryStats shows aggregate statistics across all runs.
func (r *Runner) HistoryStats(ctx context.Context, cmd *cli.Command) error {
	db, history, err := r.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := history.Stats()
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}
	return r.writePlain("%s", formatter.StatsText(stats))
}
