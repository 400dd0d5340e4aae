package artifacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/healthsense/predictor/pkg/common/logger"
	"github.com/healthsense/predictor/pkg/gateway/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Discard()
}

const scalerJSON = `{"type":"standard_scaler","feature_names":["a","b"],"mean":[1,1],"scale":[1,1]}`

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	data, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func serve(t *testing.T, body string, status int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchReadsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(path, []byte(scalerJSON), 0o644))

	store := NewStore(nil, nil, 0)
	data, info, err := store.Fetch(context.Background(), Source{Name: "scaler", Path: path})
	require.NoError(t, err)
	assert.Equal(t, scalerJSON, string(data))
	assert.Equal(t, OriginLocal, info.Origin)
	assert.Equal(t, checksum([]byte(scalerJSON)), info.SHA256)
	assert.Equal(t, len(scalerJSON), info.Size)
}

func TestFetchMissingWithoutURLFails(t *testing.T) {
	store := NewStore(httpclient.NewResty(time.Second), nil, 0)
	_, _, err := store.Fetch(context.Background(), Source{Name: "model", Path: filepath.Join(t.TempDir(), "absent.json")})
	assert.Error(t, err)
}

func TestFetchDownloadsOnceAndWritesBack(t *testing.T) {
	srv, hits := serve(t, scalerJSON, http.StatusOK)
	path := filepath.Join(t.TempDir(), "nested", "model.json")
	src := Source{Name: "model", Path: path, URL: srv.URL, SHA256: checksum([]byte(scalerJSON))}
	store := NewStore(httpclient.NewResty(5*time.Second), nil, 0)

	data, info, err := store.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, scalerJSON, string(data))
	assert.Equal(t, OriginRemote, info.Origin)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, scalerJSON, string(onDisk))

	_, info, err = store.Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, OriginLocal, info.Origin)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchRejectsChecksumMismatch(t *testing.T) {
	srv, _ := serve(t, scalerJSON, http.StatusOK)
	path := filepath.Join(t.TempDir(), "model.json")
	cache := newMemoryCache()
	store := NewStore(httpclient.NewResty(5*time.Second), cache, time.Hour)

	_, _, err := store.Fetch(context.Background(), Source{Name: "model", Path: path, URL: srv.URL, SHA256: "deadbeef"})
	require.ErrorIs(t, err, ErrChecksumMismatch)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "mismatched artifact must not be written")
	assert.Empty(t, cache.data)
}

func TestFetchFailsOnHTTPError(t *testing.T) {
	srv, hits := serve(t, "gone", http.StatusNotFound)
	store := NewStore(httpclient.NewResty(5*time.Second), nil, 0)

	_, _, err := store.Fetch(context.Background(), Source{Name: "model", Path: filepath.Join(t.TempDir(), "m.json"), URL: srv.URL})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "downloads are not retried")
}

func TestFetchUsesSharedCache(t *testing.T) {
	srv, hits := serve(t, scalerJSON, http.StatusOK)
	cache := newMemoryCache()
	client := httpclient.NewResty(5 * time.Second)

	first := NewStore(client, cache, time.Hour)
	_, info, err := first.Fetch(context.Background(), Source{Name: "model", Path: filepath.Join(t.TempDir(), "m.json"), URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, info.Origin)

	second := NewStore(client, cache, time.Hour)
	data, info, err := second.Fetch(context.Background(), Source{Name: "model", Path: filepath.Join(t.TempDir(), "m.json"), URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, OriginCache, info.Origin)
	assert.Equal(t, scalerJSON, string(data))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchIgnoresBrokenCache(t *testing.T) {
	srv, _ := serve(t, scalerJSON, http.StatusOK)
	cache := newMemoryCache()
	cache.err = assert.AnError
	store := NewStore(httpclient.NewResty(5*time.Second), cache, time.Hour)

	_, info, err := store.Fetch(context.Background(), Source{Name: "model", Path: filepath.Join(t.TempDir(), "m.json"), URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, OriginRemote, info.Origin)
}

func TestTransformerChecksLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	require.NoError(t, os.WriteFile(path, []byte(scalerJSON), 0o644))
	store := NewStore(nil, nil, 0)
	src := Source{Name: "scaler", Path: path}

	tr, info, err := store.Transformer(context.Background(), src, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, KindTransformer, info.Kind)
	assert.Equal(t, "standard_scaler", info.Type)
	assert.Equal(t, 2, tr.NumFeatures())

	_, _, err = store.Transformer(context.Background(), src, []string{"b", "a"})
	assert.Error(t, err)

	_, _, err = store.Classifier(context.Background(), src, []string{"a", "b"})
	assert.Error(t, err, "a scaler is not a classifier")
}

func TestProbabilisticChecksFeatureCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lr.json")
	body := `{"type":"logistic_regression","classes":["0","1"],"coefficients":[[1,2,3]],"intercepts":[0]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	store := NewStore(nil, nil, 0)

	_, _, err := store.Probabilistic(context.Background(), Source{Name: "lr", Path: path}, []string{"a", "b"})
	assert.Error(t, err)

	model, info, err := store.Probabilistic(context.Background(), Source{Name: "lr", Path: path}, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, KindProbabilistic, info.Kind)
	assert.Equal(t, []string{"0", "1"}, model.Classes())
}
