package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aouyang1/vitrine/api"
	"github.com/aouyang1/vitrine/config"
	"github.com/aouyang1/vitrine/crm"
	"github.com/aouyang1/vitrine/export"
	"github.com/aouyang1/vitrine/raster"
	"github.com/aouyang1/vitrine/render"
	"github.com/aouyang1/vitrine/storage"
	"github.com/aouyang1/vitrine/store"
	"github.com/lmittmann/tint"
)

func newLogHandler(cfg *config.Config, w io.Writer) slog.Handler {
	if cfg.LogJSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.DateTime,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	slog.SetDefault(slog.New(newLogHandler(cfg, os.Stderr)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := store.NewDatabase(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Objects go to S3 when a bucket is configured, otherwise to disk
	var (
		objects crm.ObjectStore
		opts    []api.Option
	)
	if cfg.S3Bucket != "" {
		objects, err = storage.NewS3(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Profile:       cfg.AWSProfile,
			Region:        cfg.AWSRegion,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize s3 storage: %v", err)
		}
		slog.Info("storing exports in s3", "bucket", cfg.S3Bucket)
	} else {
		local, err := storage.NewLocal(cfg.ObjectsPath(), cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		objects = local
		opts = append(opts, api.WithFiles(local.Root()))
		slog.Info("storing exports locally", "path", local.Root(), "url", cfg.PublicBaseURL)
	}

	adapter, err := render.NewHTMLAdapter()
	if err != nil {
		log.Fatal(err)
	}

	chrome := raster.NewChrome(raster.ChromeConfig{
		Bin:        cfg.ChromeBin,
		ControlURL: cfg.ChromeControlURL,
		Timeout:    cfg.RenderTimeout,
	})
	defer func() {
		if err := chrome.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
	}()

	exporter := export.NewExporter(adapter, chrome, crm.NewBridge(objects, database))
	defer exporter.Wait()

	webServer := api.NewWebServer(database, exporter, opts...)
	if err := webServer.Start(ctx, cfg.Addr); err != nil {
		slog.Error("web server exited", "error", err)
	}
	slog.Info("shutting down, waiting for pending exports")
}
