package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songle/internal/bot"
	"github.com/desertthunder/songle/internal/formatter"
	"github.com/desertthunder/songle/internal/game"
	"github.com/desertthunder/songle/internal/repositories"
	"github.com/desertthunder/songle/internal/services"
	"github.com/desertthunder/songle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	db         *sql.DB
	logger     *log.Logger
	level      log.Level
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog and DB are normally built lazily from Config; tests inject them.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		db:         opts.DB,
		logger:     opts.Logger,
		level:      opts.Logger.GetLevel(),
		output:     opts.Output,
	}
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "songle",
		Usage:   "Guess the song from a Spotify playlist, album, artist or track",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				Value:   "info",
				Sources: cli.EnvVars("SONGLE_LOG_LEVEL"),
			},
		},
		Before:   r.ConfigureLogging,
		Commands: r.register(),
	}
}

// ConfigureLogging applies --log-level to the runner's logger and to any logger set later.
func (r *Runner) ConfigureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := log.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidArgument, cmd.String("log-level"))
	}
	r.level = level
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playCommand, serveCommand, statsCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	shared.SetLogLevel(l, r.level)
	r.logger = l
}

// Close releases the database connection, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// database opens the configured database once and brings its schema up to date.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// spotify builds the Spotify catalog. Without credentials it returns nil and games fail with an upstream error.
func (r *Runner) spotify(ctx context.Context) services.Catalog {
	if r.catalog != nil {
		return r.catalog
	}
	if !r.config.HasSpotifyCredentials() {
		r.logger.Warn("spotify credentials missing; set SPOTIFY_ID and SPOTIFY_SECRET")
		return nil
	}

	catalog, err := services.NewSpotifyCatalog(ctx, services.SpotifyOpts{
		ClientID:          r.config.Credentials.Spotify.ClientID,
		ClientSecret:      r.config.Credentials.Spotify.ClientSecret,
		Market:            r.config.Catalog.Market,
		RequestsPerSecond: r.config.Catalog.RequestsPerSecond,
	})
	if err != nil {
		r.logger.Warn("failed to create spotify catalog", "error", err)
		return nil
	}

	r.catalog = catalog
	return catalog
}

// fetcher builds the cache-backed catalog fetcher shared by games and cache warming.
func (r *Runner) fetcher(ctx context.Context) (*services.Fetcher, error) {
	cache, err := r.cacheRepo()
	if err != nil {
		return nil, err
	}

	return services.NewFetcher(services.FetcherOpts{
		Catalog: r.spotify(ctx),
		Cache:   cache,
		Logger:  r.logger,
	}), nil
}

// newBot wires catalog, cache, engine and result store into a [bot.Bot].
func (r *Runner) newBot(ctx context.Context) (*bot.Bot, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}

	fetcher, err := r.fetcher(ctx)
	if err != nil {
		return nil, err
	}
	results := repositories.NewResultRepository(db)

	engine := game.NewEngine(game.EngineOpts{
		Fetcher:    fetcher,
		Results:    results,
		Logger:     r.logger,
		MaxGuesses: r.config.Game.MaxGuesses,
	})

	return bot.New(bot.Opts{
		Engine:  engine,
		Stats:   results,
		Builder: formatter.NewBuilder(r.config.Game.HistoryDisplay),
		Logger:  r.logger,
	}), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
