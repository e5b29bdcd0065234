package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/haulbase/freightdocs/internal/adapters/http"
	"github.com/haulbase/freightdocs/internal/bootstrap"
	"github.com/haulbase/freightdocs/internal/config"
	"github.com/haulbase/freightdocs/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "api")
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	router := httpadapter.NewRouter(
		httpadapter.RouterConfig{
			RateLimitRPS:      cfg.APIRateLimitRPS,
			RateLimitBurst:    cfg.APIRateLimitBurst,
			MaxConcurrent:     cfg.APIMaxConcurrent,
			ReviewExportLimit: cfg.ReviewExportLimit,
		},
		app.IngestUC,
		app.ReadUC,
		app.Export,
		httpMetrics,
	).Handler()

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", router)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("api shutdown error", "error", err)
	}
}
