package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haulbase/freightdocs/internal/bootstrap"
	"github.com/haulbase/freightdocs/internal/config"
	"github.com/haulbase/freightdocs/internal/observability/metrics"
)

const service = "worker"

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, service)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(service)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		app.Logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	app.Logger.Info("worker subscribed", "subject", cfg.NATSUploadSubject)
	err = app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartDocument()
		start := time.Now()
		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		workerMetrics.FinishDocument(service, time.Since(start), processErr)

		if processErr != nil {
			return processErr
		}
		recordOutcome(processCtx, app, workerMetrics, documentID)
		return nil
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func recordOutcome(ctx context.Context, app *bootstrap.App, m *metrics.WorkerMetrics, documentID string) {
	outcome, err := app.Outcomes.GetOutcome(ctx, documentID)
	if err != nil {
		app.Logger.Warn("outcome unavailable for metrics", "document_id", documentID, "error", err)
		return
	}

	m.RecordStrategy(service, string(outcome.Strategy.Kind))
	m.RecordQuality(service, outcome.Quality.Composite, outcome.QualityRejected)
	m.RecordVerdict(service, string(outcome.Verdict.Status), string(outcome.Classification.Type))
	if outcome.Text.Degraded {
		m.RecordDegradedRun(service)
	}

	// Queue lag is the wait between upload and the moment the run started.
	if doc, err := app.ReadUC.GetByID(ctx, documentID); err == nil && !doc.CreatedAt.IsZero() {
		m.ObserveQueueLag(service, outcome.StartedAt.Sub(doc.CreatedAt))
	}
}
