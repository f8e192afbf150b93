// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config file and history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sync",
		Aliases: []string{"run"},
		Usage:   "Harvest station pages once and sync the playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Target playlist name (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output run report as JSON",
			},
		},
		Action: r.Sync,
	}
}

func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Run sync on an interval until interrupted",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Minutes between runs (overrides config)",
			},
		},
		Action: r.Watch,
	}
}

func wishlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wishlist",
		Aliases: []string{"wl"},
		Usage:   "Missing-songs ledger operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "List songs not found in the catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.WishlistShow,
			},
			{
				Name:  "export",
				Usage: "Write a shopping list with purchase links",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default stdout)",
					},
				},
				Action: r.WishlistExport,
			},
			{
				Name:  "remove",
				Usage: "Remove one song from the ledger",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Artist as listed by show",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Title as listed by show",
						Required: true,
					},
				},
				Action: r.WishlistRemove,
			},
		},
	}
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Run history operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "oldest-first",
						Usage: "Show every run in chronological order",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "stats",
				Usage: "Aggregate statistics across all runs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryStats,
			},
		},
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the target playlist as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "playlist",
				Usage: "Playlist name (overrides config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default stdout)",
			},
		},
		Action: r.Export,
	}
}
