// Package webrunner wires the store, service and HTTP server together.
package webrunner

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/agrolink/farm-service-backend/models"
	"github.com/agrolink/farm-service-backend/runner"
	"github.com/agrolink/farm-service-backend/web"
	"github.com/agrolink/farm-service-backend/web/postgres"
	"github.com/agrolink/farm-service-backend/web/sqlite"
)

type webrunner struct {
	srv    *web.Server
	repo   models.Repository
	cfg    *runner.Config
	logger *zap.Logger
}

func New(cfg *runner.Config) (runner.Runner, error) {
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	svc := web.NewService(repo)
	srv := web.New(svc, cfg.Addr, zap.NewStdLog(logger))

	ans := webrunner{
		srv:    srv,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}

	return &ans, nil
}

func (w *webrunner) Run(ctx context.Context) error {
	w.logger.Info("starting http server", zap.String("addr", w.cfg.Addr))

	return w.srv.Start(ctx)
}

// Close releases the store handle. Failures are logged and reported but
// must never keep the process from exiting.
func (w *webrunner) Close(context.Context) error {
	var errs error

	if err := w.repo.Close(); err != nil {
		w.logger.Warn("closing store", zap.Error(err))
		errs = multierr.Append(errs, err)
	}

	_ = w.logger.Sync()

	return errs
}

func openRepository(cfg *runner.Config, logger *zap.Logger) (models.Repository, error) {
	if cfg.Dsn != "" {
		logger.Info("using postgres store")

		return postgres.New(cfg.Dsn)
	}

	if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
		return nil, err
	}

	const dbfname = "farmservice.db"

	dbpath := filepath.Join(cfg.DataFolder, dbfname)

	logger.Info("using sqlite store", zap.String("path", dbpath))

	return sqlite.New(dbpath)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
