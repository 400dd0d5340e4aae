package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/healthsense/predictor/pkg/common/config"
	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/features"
	"github.com/healthsense/predictor/pkg/gateway/middleware"
	"github.com/healthsense/predictor/pkg/observability/metrics"
	"github.com/healthsense/predictor/pkg/serving"
	"github.com/healthsense/predictor/pkg/serving/artifacts"
	"github.com/healthsense/predictor/pkg/serving/disease"
	"github.com/healthsense/predictor/pkg/serving/predictor"
	"github.com/healthsense/predictor/pkg/vocabulary"
)

const serviceName = "symptom-service"

func main() {
	logger.Init(serviceName)
	cfg := config.Load()

	infra, err := serving.NewInfra(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize infrastructure")
	}
	defer infra.Close()

	vocab, err := vocabulary.Load(cfg.SymptomVocabularyPath)
	if err != nil {
		infra.Fatal(err, "Failed to load symptom vocabulary")
	}

	m := metrics.New(serviceName)
	inventory := serving.NewInventory(serviceName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	svm, svmInfo, err := infra.Store.Classifier(ctx, artifacts.Source{
		Name: "svm8020",
		Path: cfg.LegacySVMModelPath,
	}, vocab.Names())
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}
	inventory.Add(svmInfo)

	forest, forestInfo, err := infra.Store.Classifier(ctx, artifacts.Source{
		Name: "random_forest_8020",
		Path: cfg.LegacyForestModelPath,
	}, vocab.Names())
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}
	inventory.Add(forestInfo)
	cancel()

	handler := disease.NewHandler(disease.Dependencies{
		VectorSize:   vocab.Len(),
		Validator:    features.NewValidator(),
		SVM:          predictor.New(svmInfo.Name, svm, m),
		RandomForest: predictor.New(forestInfo.Name, forest, m),
	}, cfg.ExposeErrorDetail)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(m.Middleware)
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	serving.NewOpsHandler(inventory, infra.History(), m).Register(router)
	handler.Register(router)

	announceCtx, announceCancel := context.WithTimeout(context.Background(), 10*time.Second)
	serving.Announce(announceCtx, inventory, infra.Repo, infra.Publisher, m, map[string]interface{}{
		"vocabulary_version":     vocab.Version(),
		"vocabulary_fingerprint": vocab.Fingerprint(),
	})
	announceCancel()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.SymptomServicePort),
		Handler:      middleware.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":     cfg.ServerHost,
			"port":     cfg.SymptomServicePort,
			"symptoms": vocab.Len(),
		}).Info("Symptom Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			infra.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Symptom Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Symptom Service stopped")
}
