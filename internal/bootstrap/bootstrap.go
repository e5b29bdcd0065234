package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haulbase/freightdocs/internal/config"
	"github.com/haulbase/freightdocs/internal/core/ports"
	"github.com/haulbase/freightdocs/internal/core/usecase"
	"github.com/haulbase/freightdocs/internal/export"
	"github.com/haulbase/freightdocs/internal/infrastructure/classify"
	"github.com/haulbase/freightdocs/internal/infrastructure/embedding/ollama"
	"github.com/haulbase/freightdocs/internal/infrastructure/extractor/tesseract"
	"github.com/haulbase/freightdocs/internal/infrastructure/quality"
	"github.com/haulbase/freightdocs/internal/infrastructure/queue/nats"
	"github.com/haulbase/freightdocs/internal/infrastructure/repository/postgres"
	"github.com/haulbase/freightdocs/internal/infrastructure/resilience"
	"github.com/haulbase/freightdocs/internal/infrastructure/samples"
	"github.com/haulbase/freightdocs/internal/infrastructure/storage/localfs"
	"github.com/haulbase/freightdocs/internal/infrastructure/vision/gemini"
	"github.com/haulbase/freightdocs/internal/observability/logging"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue    ports.MessageQueue
	Outcomes ports.OutcomeStore

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	ReadUC    ports.DocumentReader
	Export    *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)

	if err := usecase.ValidateVoteWeights(); err != nil {
		return nil, fmt.Errorf("validate vote weights: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	outcomes := postgres.NewOutcomeRepository(db)
	sampleStore := postgres.NewSampleRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSUploadSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}
	notifier := nats.NewNotifier(queue.Conn(), cfg.NATSRecaptureSubject)

	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel)

	seeds, err := samples.LoadManifest(cfg.SampleManifestPath)
	if err != nil {
		// Tolerable as long as the store already holds samples.
		logger.Warn("sample manifest unavailable", "path", cfg.SampleManifestPath, "error", err)
	}
	library, err := samples.Build(ctx, sampleStore, embedder, seeds, logger)
	if err != nil {
		return nil, fmt.Errorf("build sample library: %w", err)
	}

	resCfg := resilience.Config{
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		BreakerEnabled:      cfg.BreakerEnabled,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  time.Duration(cfg.BreakerOpenTimeoutSecs) * time.Second,
	}

	vision := gemini.New(gemini.Config{
		BaseURL:           cfg.GeminiBaseURL,
		APIKey:            cfg.GeminiAPIKey,
		Model:             cfg.GeminiModel,
		RequestTimeout:    time.Duration(cfg.GeminiTimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.GeminiRequestsPerMin,
		Resilience:        resCfg,
	}, logger)

	local := tesseract.NewExtractor(strings.Split(cfg.TesseractLanguages, ","), logger)

	classifier := usecase.NewClassifier(logger,
		classify.NewEmbeddingSignal(embedder, library),
		classify.NewVisionSignal(vision),
		classify.NewKeywordSignal(),
	)

	pipeline := usecase.NewPipeline(
		usecase.NewStrategyAgent(),
		quality.NewAssessor(logger),
		local,
		vision,
		vision,
		classifier,
		usecase.NewFieldExtractor(),
		usecase.NewRuleEngine(logger),
		notifier,
		logger,
	)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, storage, outcomes, pipeline)
	readUC := usecase.NewReadDocumentUseCase(repo, outcomes)
	exportSvc := export.NewService(outcomes, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:    queue,
		Outcomes: outcomes,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		ReadUC:    readUC,
		Export:    exportSvc,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
