// @title           FileFlow API
// @version         1.0
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "fileflow/docs"
	"fileflow/internal/api"
	"fileflow/internal/config"
	"fileflow/internal/database"
	"fileflow/internal/database/memory"
	"fileflow/internal/filetree"
	"fileflow/internal/logging"
	"fileflow/internal/storage"
	"fileflow/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to settings file (default ./configs/settings.yml)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	blobs, err := openBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	tree, err := filetree.NewManager(blobs, log, filetree.WithMaxDepth(cfg.Tree.MaxDepth))
	if err != nil {
		return err
	}

	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	server := api.NewServer(cfg, store, tree, wsHub, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server", "addr", cfg.Server.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log logging.Logger) (database.Store, func(), error) {
	if cfg.DB.Driver == "memory" {
		log.Warn(ctx, "using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect to database: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("cannot ping database: %w", err)
	}
	if err := database.Migrate(ctx, dbpool); err != nil {
		dbpool.Close()
		return nil, nil, fmt.Errorf("cannot apply migrations: %w", err)
	}
	log.Info(ctx, "connected to database")

	return database.NewPostgresStore(dbpool), dbpool.Close, nil
}

func openBlobStore(ctx context.Context, cfg *config.Config, log logging.Logger) (storage.BlobStore, error) {
	if cfg.Storage.Backend == "s3" {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage.S3)
		if err != nil {
			return nil, fmt.Errorf("cannot initialize s3 storage: %w", err)
		}
		log.Info(ctx, "storing files in s3", "bucket", cfg.Storage.S3.Bucket)
		return s3Storage, nil
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize local storage: %w", err)
	}
	log.Info(ctx, "storing files on disk", "path", cfg.Storage.Path)
	return localStorage, nil
}
