package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"portfolio-backend/internal/domain"

	"go.uber.org/zap"
)

// FilesHandler обработчик скачивания файлов (CV)
type FilesHandler struct {
	settings *domain.SiteSettings
	log      *zap.Logger
}

// NewFilesHandler создает новый обработчик файлов
func NewFilesHandler(settings *domain.SiteSettings, log *zap.Logger) *FilesHandler {
	return &FilesHandler{
		settings: settings,
		log:      log,
	}
}

// DownloadCV обрабатывает GET /cv: отдает PDF резюме как attachment.
// Единственный публичный текст ошибки — "CV not available".
func (h *FilesHandler) DownloadCV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.settings == nil || h.settings.ResumePath == "" {
		h.writeError(w, "CV not available", http.StatusNotFound)
		return
	}

	file, err := os.Open(h.settings.ResumePath)
	if err != nil {
		h.log.Warn("resume file not readable", zap.String("path", h.settings.ResumePath), zap.Error(err))
		h.writeError(w, "CV not available", http.StatusNotFound)
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("CV_%s.pdf", strings.ReplaceAll(h.settings.Name, " ", "_"))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := io.Copy(w, file); err != nil {
		h.log.Warn("failed to stream resume file", zap.Error(err))
	}
}

func (h *FilesHandler) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}
