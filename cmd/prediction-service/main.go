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
	"github.com/healthsense/predictor/pkg/serving/assessment"
	"github.com/healthsense/predictor/pkg/serving/predictor"
	"github.com/healthsense/predictor/pkg/vocabulary"
)

const serviceName = "prediction-service"

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
	mapper := features.NewSurveyMapper()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DownloadTimeout+30*time.Second)
	svm, svmInfo, err := infra.Store.Classifier(ctx, artifacts.Source{
		Name: "svm_8020",
		Path: cfg.SVMModelPath,
	}, vocab.Names())
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}
	inventory.Add(svmInfo)

	depression, depressionInfo, err := infra.Store.Probabilistic(ctx, artifacts.Source{
		Name:   "depression_ensemble",
		Path:   cfg.DepressionModelPath,
		URL:    cfg.DepressionModelURL,
		SHA256: cfg.DepressionModelSHA256,
	}, mapper.Columns())
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}
	inventory.Add(depressionInfo)

	scaler, scalerInfo, err := infra.Store.Transformer(ctx, artifacts.Source{
		Name: "scaler",
		Path: cfg.ScalerPath,
	}, mapper.Columns())
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}
	inventory.Add(scalerInfo)
	cancel()

	depressionPredictor, err := predictor.NewProbability(depressionInfo.Name, depression, m)
	if err != nil {
		infra.Fatal(err, "Model loading failed")
	}

	handler := assessment.NewHandler(assessment.Dependencies{
		Encoder:    features.NewSymptomEncoder(vocab),
		Mapper:     mapper,
		Validator:  features.NewValidator(),
		SVM:        predictor.New(svmInfo.Name, svm, m),
		Scaler:     predictor.NewScaler(scalerInfo.Name, scaler, m),
		Depression: depressionPredictor,
	}, assessment.Options{
		LogRequestPayloads: cfg.LogRequestPayloads,
		ExposeErrorDetail:  cfg.ExposeErrorDetail,
	})

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
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.PredictionServicePort),
		Handler:      middleware.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":     cfg.ServerHost,
			"port":     cfg.PredictionServicePort,
			"symptoms": vocab.Len(),
		}).Info("Prediction Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			infra.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Prediction Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Prediction Service stopped")
}
