package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mtsarev06/es-orm/internal/config"
	"github.com/mtsarev06/es-orm/internal/domain/schema"
	"github.com/mtsarev06/es-orm/internal/es"
	logpkg "github.com/mtsarev06/es-orm/internal/logger"
	"github.com/mtsarev06/es-orm/internal/metrics"
	documentrepo "github.com/mtsarev06/es-orm/internal/repository/document"
	indexrepo "github.com/mtsarev06/es-orm/internal/repository/index"
	chiTransport "github.com/mtsarev06/es-orm/internal/transport/chi"
	documentuc "github.com/mtsarev06/es-orm/internal/usecase/document"
	indexuc "github.com/mtsarev06/es-orm/internal/usecase/index"
	"github.com/mtsarev06/es-orm/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(configPath(env))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting esormd gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("es_addrs", cfg.Elasticsearch.Addrs),
		zap.Int("indexes", len(cfg.Indexes)),
	)

	store, err := es.NewClient(es.Config{
		Addrs:    cfg.Elasticsearch.Addrs,
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		APIKey:   cfg.Elasticsearch.APIKey,
	})
	if err != nil {
		logger.Fatal("Failed to create engine client", zap.Error(err))
	}

	ctx := context.Background()
	readiness := time.Duration(cfg.Elasticsearch.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Engine not ready", zap.Error(err))
	}
	logger.Info("Connected to Elasticsearch")

	// Register operation metrics explicitly (no init())
	metrics.RegisterORMMetrics()

	schemas := make(map[string]*schema.Schema, len(cfg.Indexes))
	for _, spec := range cfg.Indexes {
		s, err := spec.Build()
		if err != nil {
			logger.Fatal("Invalid index declaration", zap.String("index", spec.Name), zap.Error(err))
		}
		schemas[spec.Name] = s
	}

	idxSvc := indexuc.New(indexrepo.New(store))
	docSvc := documentuc.NewInstrumented(documentuc.New(documentrepo.New(store)), logger)

	// Push declared mappings on startup so the gateway serves ready indexes.
	for name, s := range schemas {
		if err := idxSvc.Init(ctx, name, s); err != nil {
			logger.Fatal("Failed to initialize index", zap.String("index", name), zap.Error(err))
		}
		logger.Info("Index ready", zap.String("index", name), zap.Int("fields", s.Len()))
	}

	server := chiTransport.NewServer(idxSvc, docSvc, schemas, store, logger)
	handler := chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys)(server.Router())
	if len(cfg.Auth.APIKeys) == 0 {
		logger.Warn("API authentication disabled: no api_keys configured")
	}

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// configPath resolves the config file: ESORM_CONFIG wins, otherwise
// configs/config.<env>.yaml next to the binary's working directory.
func configPath(env string) string {
	if p := os.Getenv("ESORM_CONFIG"); p != "" {
		return p
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
