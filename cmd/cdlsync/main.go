// Command cdlsync scrapes the BreakingPoint advanced stats table and syncs it
// into the CDL stats database.
//
// Usage:
//
//	cdlsync                      scrape and sync the current season
//	cdlsync --dry-run            run the full pipeline against an in-memory store
//	cdlsync --use-snapshot       sync the last cached scrape instead of launching a browser
//	cdlsync scrape               print the scraped table as JSON
//	cdlsync roster --file r.json apply a roster file to teams and players
//	cdlsync migrate              apply migrations and seed data
//	cdlsync schedule --run-now   keep running and sync once a day at SYNC_HOUR
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fortuna/cdlstats/internal/cache"
	"github.com/fortuna/cdlstats/internal/config"
	"github.com/fortuna/cdlstats/internal/metrics"
	"github.com/fortuna/cdlstats/internal/publisher"
	"github.com/fortuna/cdlstats/internal/scheduler"
	"github.com/fortuna/cdlstats/internal/scraper/breakingpoint"
	"github.com/fortuna/cdlstats/internal/statsync"
	"github.com/fortuna/cdlstats/internal/store"
	"github.com/fortuna/cdlstats/internal/store/memstore"
	"github.com/fortuna/cdlstats/internal/store/repository"
)

var logger = log.NewWithOptions(os.Stdout, log.Options{
	ReportTimestamp: true,
	Prefix:          "cdlsync",
})

type rootFlags struct {
	dryRun         bool
	useSnapshot    bool
	skipMigrations bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Error("cdlsync failed", "err", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "cdlsync",
		Short:         "Sync BreakingPoint CDL player stats into Postgres",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				return runSync(ctx, cfg, flags)
			})
		},
	}

	root.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Use an in-memory store instead of Postgres")
	root.PersistentFlags().BoolVar(&flags.skipMigrations, "skip-migrations", false, "Do not apply migrations and seed data on startup")
	root.Flags().BoolVar(&flags.useSnapshot, "use-snapshot", false, "Sync the cached scrape from Redis instead of scraping")

	root.AddCommand(scrapeCmd())
	root.AddCommand(rosterCmd(flags))
	root.AddCommand(migrateCmd())
	root.AddCommand(scheduleCmd(flags))

	return root
}

// --------------------------------------------------------------------------
// sync
// --------------------------------------------------------------------------

func runSync(ctx context.Context, cfg *config.Config, flags *rootFlags) error {
	teams, err := config.LoadTeamMap(cfg.TeamMapPath)
	if err != nil {
		return err
	}
	logger.Infof("Loaded team map with %d players", len(teams))

	var redisCache *cache.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			if flags.useSnapshot {
				return fmt.Errorf("connect to redis: %w", err)
			}
			logger.Warn("⚠️  Redis unavailable, continuing without snapshot cache or events", "err", err)
		} else {
			defer redisCache.Close()
		}
	}

	source, err := buildSource(cfg, redisCache, flags.useSnapshot)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(ctx, cfg, flags, teams)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.NewService()
	opts := []statsync.SyncerOption{statsync.WithRecorder(m)}
	if redisCache != nil && !flags.dryRun {
		opts = append(opts, statsync.WithPublisher(publisher.NewRedisStreamPublisher(redisCache.Client(), publisher.DefaultStream)))
	}

	syncer := statsync.NewSyncer(source, st, teams, statsync.Options{
		SeasonID: cfg.SeasonID,
		Season:   statsync.SeasonDefaults{Year: cfg.SeasonYear, Title: cfg.SeasonTitle},
	}, logger, opts...)

	_, runErr := syncer.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := m.Push(cfg.PushgatewayURL); err != nil {
			logger.Warn("Failed to push metrics", "err", err)
		}
	}

	return runErr
}

func buildSource(cfg *config.Config, redisCache *cache.RedisCache, useSnapshot bool) (statsync.RecordSource, error) {
	if useSnapshot {
		if redisCache == nil {
			return nil, fmt.Errorf("--use-snapshot requires REDIS_URL")
		}
		logger.Info("Using cached stats snapshot")
		return cache.NewSnapshotCache(redisCache.Client(), cfg.SnapshotTTL), nil
	}

	extractor := newExtractor(cfg)
	if redisCache == nil {
		return extractor, nil
	}
	return cache.NewWriteThrough(extractor, cache.NewSnapshotCache(redisCache.Client(), cfg.SnapshotTTL), logger), nil
}

func newExtractor(cfg *config.Config) *breakingpoint.Extractor {
	return breakingpoint.NewExtractor(
		breakingpoint.NewChromeFetcher(logger),
		logger,
		breakingpoint.WithURL(cfg.StatsURL),
		breakingpoint.WithTimeout(cfg.ScrapeTimeout),
	)
}

// openStore returns the Postgres store, or a seeded in-memory store for dry runs
func openStore(ctx context.Context, cfg *config.Config, flags *rootFlags, teams config.TeamMap) (store.Store, func(), error) {
	if flags.dryRun {
		logger.Warn("Dry-run mode: writes go to an in-memory store")
		mem := memstore.New()
		mem.SeedTeams(teams.Teams()...)
		return mem, func() {}, nil
	}

	db, err := store.NewDatabase(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if !flags.skipMigrations && !cfg.SkipMigrations {
		if err := prepareDatabase(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	logger.Info("✓ Connected to database")
	return repository.New(db), func() { db.Close() }, nil
}

func prepareDatabase(ctx context.Context, db *store.Database) error {
	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := db.SeedData(ctx); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}

// --------------------------------------------------------------------------
// scrape
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the stats table and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				extraction, err := newExtractor(cfg).Extract(ctx)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(extraction)
			})
		},
	}
}

// --------------------------------------------------------------------------
// roster
// --------------------------------------------------------------------------

func rosterCmd(flags *rootFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Apply a roster file to the team and player tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				entries, err := statsync.LoadRoster(file)
				if err != nil {
					return err
				}

				st, closeStore, err := openStore(ctx, cfg, flags, config.TeamMap{})
				if err != nil {
					return err
				}
				defer closeStore()

				_, err = statsync.NewRosterSyncer(st, logger).Run(ctx, entries)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/roster.json", "Roster JSON file")
	return cmd
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and seed data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				db, err := store.NewDatabase(cfg.DatabaseURL, logger)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer db.Close()

				if err := prepareDatabase(ctx, db); err != nil {
					return err
				}
				return db.HealthCheck(ctx)
			})
		},
	}
}

// --------------------------------------------------------------------------
// schedule
// --------------------------------------------------------------------------

func scheduleCmd(flags *rootFlags) *cobra.Command {
	var runNow bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the sync once a day until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConfig(func(ctx context.Context, cfg *config.Config) error {
				sched := scheduler.New(func(ctx context.Context) error {
					return runSync(ctx, cfg, flags)
				}, &scheduler.Config{
					DailyHour:  cfg.SyncHour,
					RunOnStart: runNow,
					MaxRetries: cfg.SyncMaxRetries,
					RetryDelay: cfg.SyncRetryDelay,
				}, logger)

				sched.Start(ctx)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Sync immediately before waiting for the daily slot")
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

func withConfig(fn func(ctx context.Context, cfg *config.Config) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("Unknown LOG_LEVEL, using info", "level", cfg.LogLevel)
	}

	return fn(ctx, cfg)
}
