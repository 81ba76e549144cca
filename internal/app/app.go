// Package app wires configuration into the stores and the blog workflow for
// the server and the reconciliation command.
package app

import (
	"context"
	"fmt"
	"strings"

	"blog-serwer/internal/blog"
	"blog-serwer/internal/config"
	"blog-serwer/internal/database"
	"blog-serwer/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.app")

// ConfigureLogging sets the root log level, e.g. "INFO" or "DEBUG".
func ConfigureLogging(level string) error {
	if level == "" {
		level = "INFO"
	}
	return loggo.ConfigureLoggers("<root>=" + strings.ToUpper(level))
}

type App struct {
	Config  *config.Config
	Pool    *pgxpool.Pool
	Store   *database.Store
	Objects storage.ObjectStore
	Blog    *blog.Service
}

// New connects to PostgreSQL and the object store. publisher may be nil.
func New(ctx context.Context, cfg *config.Config, publisher database.EventPublisher) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to database: %w", err)
	}

	timeout := cfg.DB.Timeout
	if timeout <= 0 {
		timeout = blog.DefaultMetadataTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database: %w", err)
	}
	logger.Infof("connected to database")

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot open object storage: %w", err)
	}

	maxPostSize, err := cfg.Storage.MaxPostSizeBytes()
	if err != nil {
		pool.Close()
		return nil, err
	}

	store := database.NewStore(pool, publisher)
	service := blog.NewService(store, objects, blog.Options{
		MetadataTimeout: cfg.DB.Timeout,
		StorageTimeout:  cfg.Storage.Timeout,
		MaxPostSize:     maxPostSize,
		Journal:         store,
	})

	return &App{
		Config:  cfg,
		Pool:    pool,
		Store:   store,
		Objects: objects,
		Blog:    service,
	}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}
