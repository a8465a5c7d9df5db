package tracking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingStorage wraps the in-memory store and fails every visit write.
type failingStorage struct {
	*memory.MemStorage
}

func (s *failingStorage) CreateVisit(_ context.Context, _ *domain.SiteVisit) error {
	return errors.New("database unavailable")
}

func countAllVisits(t *testing.T, store *memory.MemStorage) int64 {
	t.Helper()
	count, err := store.CountVisitsSince(context.Background(), time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	return count
}

func newTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})
}

func TestRecorder_RecordsOneVisitPerRequest(t *testing.T) {
	store := memory.New()
	rec := NewRecorder(store, nil, "portfolio_session", zap.NewNop())
	handler := rec.Middleware(newTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/projects/my-project", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.AddCookie(&http.Cookie{Name: "portfolio_session", Value: "abc123"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	// Response passes through unchanged
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	require.EqualValues(t, 1, countAllVisits(t, store))

	pages, err := store.PopularPages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "/projects/my-project", pages[0].Page)
}

func TestRecorder_CapturesRequestMetadata(t *testing.T) {
	store := memory.New()
	rec := NewRecorder(store, nil, "portfolio_session", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.AddCookie(&http.Cookie{Name: "portfolio_session", Value: "sess-42"})

	require.NoError(t, rec.Record(req))

	visit := lastVisit(t, store)
	assert.Equal(t, "203.0.113.7", visit.IPAddress)
	assert.Equal(t, "/about", visit.Page)
	assert.Equal(t, "sess-42", visit.SessionID)
	require.NotNil(t, visit.DeviceType)
	assert.Equal(t, "mobile", *visit.DeviceType)
}

func TestRecorder_TruncatesLongUserAgent(t *testing.T) {
	store := memory.New()
	rec := NewRecorder(store, nil, "", zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("User-Agent", strings.Repeat("x", 700))

	require.NoError(t, rec.Record(req))

	visit := lastVisit(t, store)
	assert.Len(t, visit.UserAgent, domain.MaxUserAgentLength)
}

func TestRecorder_SkipsAdministrativePaths(t *testing.T) {
	store := memory.New()
	rec := NewRecorder(store, nil, "", zap.NewNop())
	handler := rec.Middleware(newTestHandler())

	for _, path := range []string{"/dashboard", "/api/stats", "/api/message/1/read", "/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		// Response is still served
		assert.Equal(t, http.StatusTeapot, w.Code, path)
	}

	assert.EqualValues(t, 0, countAllVisits(t, store))
}

func TestRecorder_FailedWriteDoesNotAffectResponse(t *testing.T) {
	store := &failingStorage{MemStorage: memory.New()}
	rec := NewRecorder(store, nil, "", zap.NewNop())
	handler := rec.Middleware(newTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.EqualValues(t, 0, countAllVisits(t, store.MemStorage))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "forwarded for first entry", forwarded: "203.0.113.7, 10.0.0.1", remoteAddr: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "real ip fallback", realIP: "198.51.100.3", remoteAddr: "10.0.0.2:1234", want: "198.51.100.3"},
		{name: "remote addr fallback", remoteAddr: "192.0.2.1:5678", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}

func lastVisit(t *testing.T, store *memory.MemStorage) *domain.SiteVisit {
	t.Helper()
	visits := store.Visits()
	require.NotEmpty(t, visits)
	return visits[len(visits)-1]
}
