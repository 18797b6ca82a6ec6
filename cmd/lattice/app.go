package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/adapters/file"
	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	loamadapter "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/adapters/sqlite"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/migrate"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/persistence/middleware"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/spf13/cobra"
)

// app holds the wiring shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *lattice.Engine
	migrator *migrate.Migrator
	sessions *session.Manager

	closers []io.Closer
}

// Close releases the stores opened by newApp.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// newApp loads the configuration and builds the engine. Snapshot stores are
// only opened when withStore is set, so file-only commands work anywhere.
// Lifecycle events are logged, then passed on to extra.
func newApp(cmd *cobra.Command, withStore bool, extra ...domain.LifecycleHooks) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	hookSet := observability.Chain(append([]domain.LifecycleHooks{observability.LogHooks(logger)}, extra...)...)

	migOpts := []migrate.Option{migrate.WithLogger(logger), migrate.WithHooks(hookSet)}
	results, err := a.openResults()
	if err != nil {
		a.Close()
		return nil, err
	}
	if results != nil {
		migOpts = append(migOpts, migrate.WithResultStore(results))
	}
	spec, err := a.openSpec()
	if err != nil {
		a.Close()
		return nil, err
	}
	if spec != nil {
		migOpts = append(migOpts, migrate.WithSpecStore(spec))
	}
	a.migrator = migrate.New(migOpts...)

	a.engine = lattice.New(
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(hookSet),
		lattice.WithLayoutOptions(cfg.Layout),
		lattice.WithMigrator(a.migrator),
	)

	if withStore {
		if err := a.openSessions(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromPath(path)
	}
	cfg, _, err := config.Load()
	return cfg, err
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format), nil
}

func (a *app) openSessions() error {
	var store ports.SnapshotStore
	opts := []session.Option{session.WithMigrator(a.migrator), session.WithLogger(a.logger)}

	switch a.cfg.Store.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverFile:
		store = file.New(a.cfg.Store.Path)
	case config.DriverRedis:
		rc := a.cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithTTL(rc.TTL), redis.WithPrefix(rc.Prefix))
		if err := rs.Client().Ping(context.Background()).Err(); err != nil {
			_ = rs.Close()
			return fmt.Errorf("connect redis %s: %w", rc.Addr, err)
		}
		a.closers = append(a.closers, rs)
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix)))
	default:
		return fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}

	active, fallback, err := a.cfg.Store.Keys()
	if err != nil {
		return err
	}
	if active != nil {
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})(store)
	}

	a.logger.Debug("snapshot store ready", "driver", a.cfg.Store.Driver, "encrypted", active != nil)
	a.sessions = session.NewManager(store, opts...)
	return nil
}

func (a *app) openResults() (ports.ResultStore, error) {
	src := a.cfg.Results
	switch {
	case src.SQLite != "":
		db, err := sqlite.Open(src.SQLite)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return db, nil
	case src.Loam != "":
		return nil, errors.New("results: loam is not a supported result source")
	case a.cfg.Store.Driver == config.DriverRedis:
		rc := a.cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB)
		a.closers = append(a.closers, rs)
		return redis.NewResults(rs.Client(), ""), nil
	}
	return nil, nil
}

func (a *app) openSpec() (ports.SpecStore, error) {
	src := a.cfg.Spec
	switch {
	case src.SQLite != "":
		db, err := sqlite.Open(src.SQLite)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return db, nil
	case src.Loam != "":
		return loamadapter.Open(src.Loam)
	}
	return nil, nil
}
