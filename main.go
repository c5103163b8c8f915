package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	catalog    string
	catalogDB  string
	eventsPath string
	logFile    string
	theme      string
	driverCmd  string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zap.NewNop()}
	cmd := &cobra.Command{
		Use:   "vdcdash",
		Short: "Validation build and test tracking dashboard",
		Long: `vdcdash is a terminal dashboard for validation runs: pick a project,
follow a workflow's build and test steps, and record the outcome of each
test run.

Run without arguments to open the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.logFile, opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: <user config dir>/vdcdash/config.yaml)")
	flags.StringVar(&opts.catalog, "catalog", "", "YAML catalog to load instead of the demo data")
	flags.StringVar(&opts.catalogDB, "catalog-db", "", "SQLite catalog store seeded with `catalog seed`")
	flags.StringVar(&opts.eventsPath, "events", "", "Append session commands to this NDJSON journal")
	flags.StringVar(&opts.logFile, "log-file", "", "Write structured logs to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.theme, "theme", "", "Markdown rendering theme: auto, light, or dark")
	flags.StringVar(&opts.driverCmd, "driver-cmd", "", "Command whose output drives the run (one event per line)")

	cmd.AddCommand(newSnapshotCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	return cmd
}

// newLogger logs to path when set. The dashboard owns the terminal, so
// without a file nothing is logged.
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// settings loads the config file and lays the flags over it.
func (o *rootOptions) settings() (*appConfig, error) {
	cfg, path, err := loadAppConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("config resolved", zap.String("path", path))
	if o.catalog != "" {
		cfg.Catalog = o.catalog
	}
	if o.catalogDB != "" {
		cfg.CatalogDB = o.catalogDB
	}
	if o.eventsPath != "" {
		cfg.EventsPath = o.eventsPath
	}
	if o.theme != "" {
		cfg.Theme = o.theme
	}
	return cfg, nil
}

// loadCatalog prefers a seeded store, then a YAML file, then the demo
// data.
func loadCatalog(ctx context.Context, cfg *appConfig, log *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogDB != "" {
		store, err := catalog.OpenStore(cfg.CatalogDB)
		if err != nil {
			return nil, fmt.Errorf("open catalog store: %w", err)
		}
		defer store.Close()
		cat, err := store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load catalog store %s: %w", cfg.CatalogDB, err)
		}
		if len(cat.Projects()) > 0 {
			log.Info("catalog loaded from store", zap.String("path", cfg.CatalogDB))
			return cat, nil
		}
		log.Warn("catalog store is empty, falling back", zap.String("path", cfg.CatalogDB))
	}
	return catalogSource(cfg).Load(ctx)
}

// catalogSource is the non-store source for cfg.
func catalogSource(cfg *appConfig) catalog.Source {
	if cfg.Catalog != "" {
		return catalog.FileSource{Path: cfg.Catalog}
	}
	return catalog.MockSource{Seed: 1, TestLines: cfg.TestLines}
}

func runDashboard(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := opts.settings()
	if err != nil {
		return err
	}
	cat, err := loadCatalog(ctx, cfg, opts.logger)
	if err != nil {
		return err
	}
	theme := parseMarkdownTheme(cfg.Theme)
	setMarkdownTheme(theme)

	telemetry := newTelemetryLogger(cfg.EventsPath, newTelemetrySessionID(), resolveTelemetryUserID())
	defer telemetry.Close()
	m := initialModel(cat, cfg.sessionOptions(), modelOptions{
		Logger:    opts.logger,
		Telemetry: telemetry,
		Driver:    newScriptDriver(opts.driverCmd),
		Theme:     theme,
	})
	opts.logger.Info("dashboard starting",
		zap.Int("projects", len(cat.Projects())),
		zap.Int("test_lines", len(cat.TestLines())),
	)

	_, err = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	).Run()
	m.shutdown()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
