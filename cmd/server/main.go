// @title           Blog Server API
// @version         1.0
// @description     Multi-user blog: plain-text posts with metadata in PostgreSQL and content in object storage.
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-serwer/internal/api"
	"blog-serwer/internal/app"
	"blog-serwer/internal/config"
	"blog-serwer/internal/websocket"

	_ "blog-serwer/docs"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("blog.server")

func main() {
	if err := run(); err != nil {
		logger.Criticalf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	blogApp, err := app.New(ctx, cfg, wsHub)
	if err != nil {
		return err
	}
	defer blogApp.Close()

	server := api.NewServer(cfg, blogApp.Store, blogApp.Blog, wsHub)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
