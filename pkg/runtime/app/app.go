package app

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/revenue-atlas/pkg/services/config"
	"github.com/de-tools/revenue-atlas/pkg/services/export"
	"github.com/de-tools/revenue-atlas/pkg/services/revenue"
	"github.com/de-tools/revenue-atlas/pkg/store/archive"
	"github.com/de-tools/revenue-atlas/pkg/store/mysql"
	revenuestore "github.com/de-tools/revenue-atlas/pkg/store/revenue"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// App is the wired service graph shared by the web server and the terminal.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	DB      *sqlx.DB
	Pinger  mysql.Pinger
	Revenue revenue.Service
	Export  export.Encoder
}

// Bootstrap loads the configuration and wires the pool, the store and the
// services. The pool is opened lazily; Bootstrap itself never dials.
func Bootstrap(ctx context.Context, optionFile string, out io.Writer) (*App, error) {
	cfg, err := config.Load(optionFile)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(out, cfg.LogLevel)

	db, err := mysql.NewDB(cfg.MySQL())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	service := revenue.NewService(revenuestore.NewStore(db, cfg.Store()))

	var exportArchive archive.Archive
	if cfg.ArchiveBucket != "" {
		exportArchive, err = archive.NewS3Archive(ctx, archive.Settings{
			Bucket: cfg.ArchiveBucket,
			Prefix: cfg.ArchivePrefix,
		})
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info().Str("bucket", cfg.ArchiveBucket).Msg("export archive enabled")
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Pinger:  mysql.NewPinger(db),
		Revenue: service,
		Export:  export.NewEncoder(service, exportArchive),
	}, nil
}

// Probe checks connectivity once and only logs the outcome.
func (a *App) Probe(ctx context.Context) {
	if err := a.Pinger.Ping(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("database connection failed")
		return
	}
	a.Logger.Info().
		Str("host", a.Config.DBHost).
		Str("database", a.Config.DBName).
		Msg("database connected")
}

func (a *App) Close() error {
	return a.DB.Close()
}

// NewLogger falls back to info when level does not parse.
func NewLogger(out io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
