package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	vision "cloud.google.com/go/vision/v2/apiv1"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"google.golang.org/api/option"

	"github.com/1752rissy/envenciproject/internal/catalog"
	"github.com/1752rissy/envenciproject/internal/catalog/ai"
	"github.com/1752rissy/envenciproject/internal/catalog/classify"
	cataloghttp "github.com/1752rissy/envenciproject/internal/catalog/http"
	"github.com/1752rissy/envenciproject/internal/catalog/messaging"
	"github.com/1752rissy/envenciproject/internal/catalog/repository"
	"github.com/1752rissy/envenciproject/internal/catalog/service"
	"github.com/1752rissy/envenciproject/internal/catalog/storage"
	"github.com/1752rissy/envenciproject/internal/config"
)

const (
	metricPublishedTotal = "products_published_total"
	metricDescribedTotal = "descriptions_generated_total"
	metricFallbacksTotal = "classification_fallbacks_total"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	creds := option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, cfg.ProjectID, creds)
	if err != nil {
		logger.Error("init firestore client", "error", err)
		os.Exit(1)
	}
	defer firestoreClient.Close()

	storageClient, err := gcs.NewClient(ctx, creds)
	if err != nil {
		logger.Error("init storage client", "error", err)
		os.Exit(1)
	}
	defer storageClient.Close()

	visionClient, err := vision.NewImageAnnotatorClient(ctx, creds)
	if err != nil {
		logger.Error("init vision client", "error", err)
		os.Exit(1)
	}
	defer visionClient.Close()

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		logger.Error("init gemini client", "error", err)
		os.Exit(1)
	}
	defer genaiClient.Close()

	var publisher service.Publisher = messaging.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("connect rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitConn.Close()

		rabbitPublisher, err := messaging.NewRabbitPublisher(rabbitConn, catalog.EventsQueue)
		if err != nil {
			logger.Error("init publisher", "error", err)
			os.Exit(1)
		}
		defer rabbitPublisher.Close()
		publisher = rabbitPublisher
	}

	publishedCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricPublishedTotal,
		Help: "Total number of products published",
	})
	describedCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricDescribedTotal,
		Help: "Total number of AI descriptions generated",
	})
	fallbackCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricFallbacksTotal,
		Help: "Total number of classifications that fell back to the default category",
	})
	prometheus.MustRegister(publishedCounter, describedCounter, fallbackCounter)

	gemini := ai.NewGemini(genaiClient, cfg.GeminiModel)
	labeler := ai.NewVision(visionClient)
	classifier := classify.New(gemini, labeler, logger, fallbackCounter)

	repo := repository.NewFirestore(firestoreClient, cfg.FirestoreCollection)
	store := storage.NewGCS(storageClient, cfg.Bucket)
	svc := service.New(repo, store, gemini, classifier, publisher, logger,
		cfg.SignedURLTTL, publishedCounter, describedCounter)
	handler := cataloghttp.NewHandler(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cataloghttp.RequestIDMiddleware(logger))
	router.Use(cataloghttp.AccessLogMiddleware(logger))
	cataloghttp.RegisterRoutes(router, handler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog service started", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-runCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog service stopped")
}
