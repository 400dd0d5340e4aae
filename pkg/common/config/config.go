package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerHost            string
	PredictionServicePort string
	SymptomServicePort    string
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	ShutdownTimeout       time.Duration
	MaxRequestBody        int64

	// Vocabulary and artifacts
	SymptomVocabularyPath string
	SVMModelPath          string
	ScalerPath            string
	DepressionModelPath   string
	DepressionModelURL    string
	DepressionModelSHA256 string
	LegacySVMModelPath    string
	LegacyForestModelPath string
	DownloadTimeout       time.Duration

	// Shared artifact cache
	ArtifactCacheEnabled bool
	ArtifactCacheTTL     time.Duration
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int

	// Artifact registry
	RegistryEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Lifecycle events
	EventsEnabled bool
	KafkaBrokers  []string
	EventsTopic   string

	// HTTP surface
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	RateLimitRPS         int
	RateLimitBurst       int
	LogRequestPayloads   bool
	ExposeErrorDetail    bool
}

func Load() *Config {
	return &Config{
		ServerHost:            getEnv("SERVER_HOST", "0.0.0.0"),
		PredictionServicePort: getEnv("PREDICTION_SERVICE_PORT", "8000"),
		SymptomServicePort:    getEnv("SYMPTOM_SERVICE_PORT", "8001"),
		ReadTimeout:           getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:          getDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout:       getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		MaxRequestBody:        int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),

		SymptomVocabularyPath: getEnv("SYMPTOM_VOCABULARY_PATH", ""),
		SVMModelPath:          getEnv("SVM_MODEL_PATH", "models/svm_8020.json"),
		ScalerPath:            getEnv("SCALER_PATH", "models/scaler.json"),
		DepressionModelPath:   getEnv("DEPRESSION_MODEL_PATH", "ensemble_model.json"),
		DepressionModelURL:    getEnv("DEPRESSION_MODEL_URL", ""),
		DepressionModelSHA256: getEnv("DEPRESSION_MODEL_SHA256", ""),
		LegacySVMModelPath:    getEnv("LEGACY_SVM_MODEL_PATH", "app/models/svm8020.json"),
		LegacyForestModelPath: getEnv("LEGACY_FOREST_MODEL_PATH", "app/models/RandomForest8020.json"),
		DownloadTimeout:       getDuration("DOWNLOAD_TIMEOUT", 2*time.Minute),

		ArtifactCacheEnabled: getBoolEnv("ARTIFACT_CACHE_ENABLED", false),
		ArtifactCacheTTL:     getDuration("ARTIFACT_CACHE_TTL", 24*time.Hour),
		RedisHost:            getEnv("REDIS_HOST", "localhost"),
		RedisPort:            getEnv("REDIS_PORT", "6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getIntEnv("REDIS_DB", 0),

		RegistryEnabled:  getBoolEnv("REGISTRY_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "predictor"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "predictor"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		EventsEnabled: getBoolEnv("EVENTS_ENABLED", false),
		KafkaBrokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		EventsTopic:   getEnv("EVENTS_TOPIC", "predictor.lifecycle"),

		CORSAllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		RateLimitRPS:         getIntEnv("RATE_LIMIT_RPS", 0),
		RateLimitBurst:       getIntEnv("RATE_LIMIT_BURST", 100),
		LogRequestPayloads:   getBoolEnv("LOG_REQUEST_PAYLOADS", false),
		ExposeErrorDetail:    getBoolEnv("EXPOSE_ERROR_DETAIL", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getStringSliceEnv splits a comma separated value, dropping blanks.
func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
