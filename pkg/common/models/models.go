package models

import "time"

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // artifacts.loaded
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Symptom-vector service
type DiseaseVectorRequest struct {
	Inputs []float64 `json:"inputs"`
}

type DiseaseVectorResponse struct {
	SVM8020      string `json:"svm8020"`
	RandomForest string `json:"randomForest"`
}

// Symptom and survey service
type SymptomRequest struct {
	Symptoms []string `json:"symptoms"`
}

type SymptomPredictionResponse struct {
	SVM8020 string `json:"svm8020"`
}

type DepressionPredictionResponse struct {
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

type VocabularyResponse struct {
	Version     string   `json:"version"`
	Fingerprint string   `json:"fingerprint"`
	Symptoms    []string `json:"symptoms"`
}

// Shared
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
