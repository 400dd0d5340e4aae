package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveInference(t *testing.T) {
	m := New("symptom-service")
	m.ObserveInference("svm8020", time.Millisecond, nil)
	m.ObserveInference("svm8020", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InferenceTotal.WithLabelValues("symptom-service", "svm8020", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InferenceTotal.WithLabelValues("symptom-service", "svm8020", StatusError)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveInference("svm8020", time.Millisecond, nil)
	m.MarkArtifact("svm8020", "classifier")
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New("a"), New("b")
	a.MarkArtifact("x", "classifier")
	assert.Equal(t, 0, testutil.CollectAndCount(b.ArtifactsLoaded))
	assert.Equal(t, 1, testutil.CollectAndCount(a.ArtifactsLoaded))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New("symptom-service")
	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/predict-disease", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}).Methods(http.MethodPost)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/predict-disease", nil))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}
