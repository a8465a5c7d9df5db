package tracking

import (
	"net"
	"net/http"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository"
	"portfolio-backend/pkg/useragent"

	"go.uber.org/zap"
)

// skipPrefixes are administrative and probe paths that never produce a
// visit row.
var skipPrefixes = []string{
	"/dashboard",
	"/api/",
	"/health",
	"/ready",
}

// Recorder appends one SiteVisit per qualifying request. Recording is
// best-effort: a failed write is logged and dropped, and the wrapped
// handler's response is never affected.
type Recorder struct {
	storage       repository.Storage
	parser        *useragent.Parser // nil falls back to keyword detection
	sessionCookie string
	log           *zap.Logger
}

// NewRecorder creates a visit recorder.
func NewRecorder(storage repository.Storage, parser *useragent.Parser, sessionCookie string, log *zap.Logger) *Recorder {
	return &Recorder{
		storage:       storage,
		parser:        parser,
		sessionCookie: sessionCookie,
		log:           log,
	}
}

// Middleware wraps next, recording a visit for every request whose path
// is not administrative. The record happens before next runs; ordering
// relative to the response does not matter since the write is a pure
// side effect.
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldTrack(r.URL.Path) {
			if err := rec.Record(r); err != nil {
				// Best-effort: the visit is lost, the response is not.
				rec.log.Warn("failed to record visit",
					zap.String("page", r.URL.Path),
					zap.Error(err))
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Record derives the visit fields from the request and persists one row.
// The returned error exists so failures stay observable; callers on the
// request path log it and move on.
func (rec *Recorder) Record(r *http.Request) error {
	deviceType := rec.parser.DeviceType(r.UserAgent())

	visit := &domain.SiteVisit{
		IPAddress: ClientIP(r),
		UserAgent: truncate(r.UserAgent(), domain.MaxUserAgentLength),
		Page:      r.URL.Path,
		SessionID: rec.sessionID(r),
	}
	if deviceType != useragent.DeviceUnknown {
		visit.DeviceType = &deviceType
	}

	return rec.storage.CreateVisit(r.Context(), visit)
}

func (rec *Recorder) sessionID(r *http.Request) string {
	if rec.sessionCookie == "" {
		return ""
	}
	cookie, err := r.Cookie(rec.sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClientIP извлекает IP адрес клиента с учетом прокси: первый элемент
// X-Forwarded-For, иначе адрес соединения. Пустой результат допустим.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For может содержать список IP через запятую
		if idx := strings.Index(forwarded, ","); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func shouldTrack(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
