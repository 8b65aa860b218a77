package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hana/reelmind/internal/api"
	"github.com/hana/reelmind/internal/api/middleware"
	"github.com/hana/reelmind/internal/artifacts"
	"github.com/hana/reelmind/internal/catalog"
	"github.com/hana/reelmind/internal/config"
	"github.com/hana/reelmind/internal/index"
	"github.com/hana/reelmind/internal/logger"
	"github.com/hana/reelmind/internal/recommend"
	"github.com/hana/reelmind/internal/vectorize"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog := logger.New(nil)
	logger.SetDefault(appLog)

	store, err := catalog.New(&catalog.Config{
		Driver:          cfg.Catalog.Driver,
		Path:            cfg.Catalog.Path,
		DSN:             cfg.Catalog.DSN,
		MaxIdleConns:    cfg.Catalog.MaxIdleConns,
		MaxOpenConns:    cfg.Catalog.MaxOpenConns,
		ConnMaxLifetime: int64(cfg.Catalog.ConnMaxLifetime.Seconds()),
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize catalog store")
	}

	artifactStore, err := artifacts.New(&artifacts.Config{
		Type:      cfg.Artifacts.Type,
		Dir:       cfg.Artifacts.Dir,
		Endpoint:  cfg.Artifacts.Endpoint,
		AccessKey: cfg.Artifacts.AccessKey,
		SecretKey: cfg.Artifacts.SecretKey,
		UseSSL:    cfg.Artifacts.UseSSL,
		Bucket:    cfg.Artifacts.Bucket,
		Region:    cfg.Artifacts.Region,
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize artifact store")
	}

	var provider vectorize.EmbeddingProvider
	if cfg.Vectorizer.Embedding.Enabled {
		provider = vectorize.NewEmbeddingClient(&vectorize.EmbeddingClientConfig{
			BaseURL:    cfg.Vectorizer.Embedding.BaseURL,
			Model:      cfg.Vectorizer.Embedding.Model,
			APIKey:     cfg.Vectorizer.Embedding.APIKey,
			Dimensions: cfg.Vectorizer.Embedding.Dimensions,
			BatchSize:  cfg.Vectorizer.Embedding.BatchSize,
		})
	}

	vectorizer := vectorize.New(vectorize.Config{
		Strategy:         vectorize.Strategy(cfg.Vectorizer.Strategy),
		MaxFeatures:      cfg.Vectorizer.MaxFeatures,
		EmbeddingEnabled: cfg.Vectorizer.Embedding.Enabled,
	}, provider, artifactStore, appLog)

	builder := index.NewBuilder(store, vectorizer, artifactStore, appLog)
	holder := index.NewHolder()
	refresher := index.NewRefresher(builder, holder, vectorize.Strategy(cfg.Vectorizer.Strategy), appLog)
	engine := recommend.NewEngine(holder, appLog)

	// Initial build; failure is not fatal, queries return 503 until a
	// refresh succeeds.
	ctx := context.Background()
	if _, err := refresher.Refresh(ctx); err != nil {
		appLog.WithError(err).Error("Initial index build failed")
	}

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	go refresher.Run(refreshCtx, cfg.Refresh.Interval)

	router := api.SetupRouter(&api.RouterConfig{
		Engine:    engine,
		Store:     store,
		Refresher: refresher,
		Mode:      cfg.Server.Mode,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
		Logger: appLog,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLog.WithField("port", cfg.Server.Port).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	cancelRefresh()
	refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Fatal("Server forced to shutdown")
	}

	appLog.Info("Server exited")
}
