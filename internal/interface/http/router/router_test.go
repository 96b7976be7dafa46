package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

func newEngine(opts Options) *gin.Engine {
	opts.Mode = gin.TestMode
	return New(Handlers{
		Authors:    handler.NewLookupHandler(catalog.KindAuthor, nil),
		Categories: handler.NewLookupHandler(catalog.KindCategory, nil),
		Publishers: handler.NewLookupHandler(catalog.KindPublisher, nil),
		Books:      handler.NewBookHandler(nil),
		Copies:     handler.NewCopyHandler(nil, nil),
		Borrows:    handler.NewBorrowHandler(nil, nil, nil),
		Users:      handler.NewUserHandler(nil, nil),
		UserTypes:  handler.NewUserTypeHandler(nil),
	}, opts)
}

func TestRouter_Ping(t *testing.T) {
	r := newEngine(Options{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_WritesRequireActor(t *testing.T) {
	r := newEngine(Options{})
	for _, path := range []string{
		"/api/v1/authors",
		"/api/v1/books",
		"/api/v1/copies",
		"/api/v1/users",
		"/api/v1/user-types",
		"/api/v1/copies/1/archive",
		"/api/v1/borrows/1/return",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	for _, path := range []string{"/api/v1/user-types/3", "/api/v1/books/1", "/api/v1/categories/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r := newEngine(Options{MetricsPath: "/metrics"})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_RateLimited(t *testing.T) {
	r := newEngine(Options{RateLimiter: middleware.NewRateLimiter(0.001, 1)})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

type memSink struct {
	mu         sync.Mutex
	requests   []redis.RequestLog
	exceptions []redis.ExceptionLog
}

func (s *memSink) AppendRequest(_ context.Context, l redis.RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, l)
	return nil
}

func (s *memSink) AppendException(_ context.Context, l redis.ExceptionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exceptions = append(s.exceptions, l)
	return nil
}

func TestRouter_RateLimitedRequestsAreLogged(t *testing.T) {
	sink := &memSink{}
	r := newEngine(Options{RateLimiter: middleware.NewRateLimiter(0.001, 1), LogSink: sink})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.ActorHeader, "7")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, sink.requests, 2)
	assert.Equal(t, http.StatusOK, sink.requests[0].Status)
	assert.Equal(t, http.StatusTooManyRequests, sink.requests[1].Status)
	assert.Equal(t, int64(7), sink.requests[1].ActorID)
	assert.NotEmpty(t, sink.requests[1].RequestID)

	require.Len(t, sink.exceptions, 1)
	assert.Equal(t, apperrors.ErrCodeTooManyRequests, sink.exceptions[0].Code)
	assert.Equal(t, "/ping", sink.exceptions[0].Path)
}
