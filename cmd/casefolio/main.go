// casefolio-admin - content API of the atelierfolk studio site.
//
// Serves the admin panel's storage endpoints (case records, assets,
// history, backup) over the backend selected by STORAGE_PROVIDER.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/atelierfolk/casefolio"
	"github.com/atelierfolk/casefolio/internal/api"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load() //nolint:errcheck // Missing .env is fine

	cfg := casefolio.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := casefolio.NewProductionZapLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }() //nolint:errcheck // Deferred flush

	ctx := context.Background()
	adapter, err := casefolio.DefaultAdapter(ctx)
	if err != nil {
		zlog.Error("adapter init failed", "error", err)
		log.Fatalf("adapter: %v", err)
	}

	metrics := casefolio.NewPrometheusMetrics(nil)

	svc := casefolio.NewCaseService(adapter)
	svc.SetLogger(zlog)
	svc.SetMetrics(metrics)

	// History and bulk snapshots exist on the local backend only; on
	// object storage the admin panel hides those controls.
	var history *casefolio.HistoryManager
	if cfg.Provider == casefolio.ProviderLocal {
		history = casefolio.NewHistoryManager(cfg.RecordsDir, zlog)
		svc.SetHistory(history)
	}

	if cfg.WebhookURL != "" {
		svc.SetNotifier(casefolio.NewWebhookNotifier(cfg.WebhookURL, zlog))
	}

	backup := casefolio.NewBackupService(adapter, history, zlog)
	handler := api.NewHandler(svc, backup, zlog)
	router := api.NewRouter(handler, cfg.AdminToken, metrics.Registry())

	// The local backend serves its asset folders directly as the public
	// /cases/<slug>/<name> path the adapter's URLs point at.
	if cfg.Provider == casefolio.ProviderLocal {
		fileServer := http.StripPrefix("/cases/", http.FileServer(http.Dir(cfg.AssetsDir)))
		router.Get("/cases/*", fileServer.ServeHTTP)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zlog.Info("listening", "addr", cfg.ListenAddr, "provider", cfg.Provider)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zlog.Error("server stopped", "error", err)
		log.Fatal(err)
	}
}
