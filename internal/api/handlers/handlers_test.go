package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/Syfaro/mcapi/internal/api/handlers"
	"github.com/Syfaro/mcapi/internal/cache"
	"github.com/Syfaro/mcapi/internal/core"
	"github.com/Syfaro/mcapi/internal/envelope"
	"github.com/Syfaro/mcapi/internal/metrics"
	"github.com/Syfaro/mcapi/internal/resolver"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrNotFound
}

func (m *memStore) SetEX(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
	return nil
}

type memLocker struct{ mu sync.Mutex }

func (l *memLocker) Lock(_ context.Context, _ string) (cache.Lock, error) {
	l.mu.Lock()
	return memLock{&l.mu}, nil
}

type memLock struct{ mu *sync.Mutex }

func (l memLock) Unlock(_ context.Context) error {
	l.mu.Unlock()
	return nil
}

func newTestHandler() *handlers.Handler {
	reg := metrics.New(prometheus.NewRegistry())
	res := resolver.New(time.Minute, 16)
	pingCache := cache.New[envelope.PingEnvelope](&memStore{}, &memLocker{}, reg, time.Minute, 10*time.Minute)
	queryCache := cache.New[envelope.QueryEnvelope](&memStore{}, &memLocker{}, reg, time.Minute, 10*time.Minute)
	svc := core.New(res, pingCache, queryCache)
	return handlers.New(svc, reg)
}

func TestServerStatus_MissingIPReturnsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/server/status", h.ServerStatus)

	req := httptest.NewRequest(http.MethodGet, "/server/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestServerStatus_InvalidPortReturnsOfflineJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/server/status", h.ServerStatus)

	req := httptest.NewRequest(http.MethodGet, "/server/status?ip=play.example.com&port=80", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"InvalidPort"`)
}

func TestHealth_ReturnsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/health", h.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestServerIcon_NoFaviconReturnsNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler()

	r := gin.New()
	r.GET("/server/icon", h.ServerIcon)

	req := httptest.NewRequest(http.MethodGet, "/server/icon?ip=play.example.com&port=80", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
