// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand writes a config file and initializes the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml (if missing) and run database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Action: r.Setup,
	}
}

// playCommand opens the chat console.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play in an interactive chat console",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "user",
				Usage: "Player name used for sessions and stats",
				Value: "player",
			},
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log file (the console owns the terminal)",
				Value: "./tmp/songle.log",
			},
		},
		Action: r.Play,
	}
}

// serveCommand runs the HTTP interactions endpoint.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve chat interactions over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port)",
			},
		},
		Action: r.Serve,
	}
}

// statsCommand prints player records.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show the leaderboard or one player's record",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "user",
				Usage: "Show this player's record and recent games",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of rows",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Stats,
	}
}

// cacheCommand manages the catalog cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect, warm and clear the catalog cache",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cached entries and tracks",
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached entry",
				Action: r.CacheClear,
			},
			{
				Name:   "prune",
				Usage:  "Remove expired entries",
				Action: r.CachePrune,
			},
			{
				Name:      "warm",
				Usage:     "Pre-fetch candidate pools into the cache",
				ArgsUsage: "<link|id|name>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Source kind: playlist, album, artist or track",
						Value:   "playlist",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent fetches",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Fetches per second (defaults to catalog.requests_per_second)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON summary",
					},
				},
				Action: r.CacheWarm,
			},
		},
	}
}
