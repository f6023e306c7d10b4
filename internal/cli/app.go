package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/auditlog/internal/config"
	"github.com/roach88/auditlog/internal/export"
	"github.com/roach88/auditlog/internal/ident"
	"github.com/roach88/auditlog/internal/imaging"
	"github.com/roach88/auditlog/internal/logging"
	"github.com/roach88/auditlog/internal/session"
	"github.com/roach88/auditlog/internal/store"
)

// app bundles what a command needs: settings, logger, open storage.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kv      *store.SQLiteKV
	records *store.RecordStore
	out     *OutputFormatter
	opts    *RootOptions
}

// openApp loads configuration, configures logging and opens the database.
// Callers must call close.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
	}
	logger.Debug("opening database", "path", cfg.Database)
	kv, err := store.Open(cfg.Database)
	if err != nil {
		_ = out.Error(ErrCodeStorage, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		kv:      kv,
		records: store.NewRecordStore(kv, store.WithLogger(logger)),
		out:     out,
		opts:    opts,
	}, nil
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

func (a *app) newSession() *session.Session {
	return session.New(
		session.WithRequirePriority(a.cfg.RequirePriority),
		session.WithLogger(a.logger),
	)
}

func (a *app) resizer() imaging.Resizer {
	return imaging.Resizer{
		MaxWidth: a.cfg.Image.MaxWidth,
		Quality:  a.cfg.Image.Quality,
		OutDir:   a.cfg.ImageDir,
		Names:    a.names(),
	}
}

func (a *app) names() ident.Generator {
	if a.opts.Names != nil {
		return a.opts.Names
	}
	return ident.UUIDv7Generator{}
}

func (a *app) pipeline(shareDir string) *export.Pipeline {
	clock := a.opts.Clock
	if clock == nil {
		clock = export.SystemClock{}
	}
	var sharer export.Sharer = export.NopSharer{}
	if shareDir == "" {
		shareDir = a.cfg.ShareDir
	}
	if shareDir != "" {
		sharer = export.DirSharer{Dir: shareDir, Logger: a.logger}
	}
	return export.New(
		export.WithDir(a.cfg.ExportDir),
		export.WithClock(clock),
		export.WithSharer(sharer),
		export.WithNames(a.names()),
		export.WithLogger(a.logger),
	)
}

// plural returns "1 entry" or "n entries".
func plural(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}
