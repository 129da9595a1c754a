package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loan-advisor/config"
	"loan-advisor/finance"
	httpLayer "loan-advisor/http"
	"loan-advisor/llm"
	"loan-advisor/observability"
	"loan-advisor/rag"
	"loan-advisor/repository"
	"loan-advisor/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	var (
		metrics        observability.AdvisorMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		provider, handler, m, err := observability.NewMeterProvider("loan-advisor")
		if err != nil {
			return err
		}
		defer func() {
			if err := provider.Shutdown(context.Background()); err != nil {
				logger.Warn("Failed to shut down meter provider", "error", err)
			}
		}()
		metrics, metricsHandler = m, handler
	}

	embedder, generator, err := newProviders(ctx, cfg)
	if err != nil {
		return err
	}
	cachedEmbedder, err := rag.NewCachedEmbedder(embedder, cfg.EmbeddingCacheSize, metrics)
	if err != nil {
		return err
	}

	corpus, err := rag.LoadCorpus(cfg.CorpusPath)
	if err != nil {
		logger.Warn("Corpus unavailable, recommendations will not be grounded", "path", cfg.CorpusPath, "error", err)
		corpus = rag.Corpus{}
	}
	logger.Info("Corpus loaded", "chunks", len(corpus), "dimensions", corpus.Dimensions())

	cache, sessions, closeStores, err := newStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	tracker := service.NewRequestTracker()
	defer tracker.Stop()

	lenders := finance.DefaultLenders()
	loanService := service.NewLoanService(cache, logger)
	assessmentService := service.NewAssessmentService(lenders, cfg.Risk)
	recommendationService := service.NewRecommendationService(service.RecommendationDeps{
		Retriever: rag.NewRetriever(cachedEmbedder, logger, metrics,
			rag.WithTopK(cfg.RetrievalTopK), rag.WithMinScore(cfg.RetrievalMinScore)),
		Embedder:  embedder,
		Corpus:    corpus,
		Generator: generator,
		Sessions:  sessions,
		Tracker:   tracker,
		Metrics:   metrics,
		Logger:    logger,
		Timeout:   cfg.GenerationTimeout,
		Lenders:   lenders,
		Risk:      cfg.Risk,
	})
	chatService := service.NewChatService(sessions, generator, metrics, logger, cfg.GenerationTimeout)
	predictionClient := service.NewPredictionClient(service.PredictionOptions{
		URL:     cfg.PredictionURL,
		Timeout: cfg.PredictionTimeout,
		Logger:  logger,
	})

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	deps := httpLayer.RouterDeps{
		Loans:           httpLayer.NewLoanHandler(loanService, assessmentService),
		Recommendations: httpLayer.NewRecommendationHandler(recommendationService),
		Chat:            httpLayer.NewChatHandler(chatService),
		Predictions:     httpLayer.NewPredictionHandler(predictionClient),
		Documents:       httpLayer.NewDocumentHandler(service.NewDocumentService(logger)),
		Health:          httpLayer.NewHealthHandler(len(corpus), cfg.LLMProvider),
		Limiter:         rateLimiter,
		Metrics:         metrics,
		MetricsHandler:  metricsHandler,
		Logger:          logger,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpLayer.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Loan advisor listening", "addr", server.Addr, "provider", cfg.LLMProvider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", "error", err)
	}

	logger.Info("Server exited")
	return nil
}

func newProviders(ctx context.Context, cfg *config.Config) (llm.Embedder, llm.Generator, error) {
	switch cfg.LLMProvider {
	case llm.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			GenerationModel: cfg.GenerationModel,
			EmbeddingModel:  cfg.EmbeddingModel,
			Dimensions:      cfg.EmbeddingDimensions,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	case llm.ProviderOpenAI:
		client := llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:          cfg.OpenAIAPIKey,
			GenerationModel: cfg.GenerationModel,
			EmbeddingModel:  cfg.EmbeddingModel,
			Dimensions:      cfg.EmbeddingDimensions,
		})
		return client, client, nil
	default:
		return llm.NewHashEmbedder(cfg.EmbeddingDimensions), llm.DisabledGenerator{}, nil
	}
}

// newStores picks redis when REDIS_ADDR is set and memory otherwise.
func newStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (
	repository.CacheRepository,
	repository.SessionRepository,
	func(),
	error,
) {
	if cfg.RedisAddr == "" {
		logger.Info("Using in-memory stores")
		return repository.NewMemoryCache(), repository.NewSessionRepositoryMemory(cfg.SessionTTL), func() {}, nil
	}

	client, err := repository.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("Using redis stores", "addr", cfg.RedisAddr)

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close redis client", "error", err)
		}
	}
	return repository.NewRedisCache(client, "loan-advisor:calc:"),
		repository.NewSessionRepositoryRedis(client, cfg.SessionTTL),
		closeFn,
		nil
}
