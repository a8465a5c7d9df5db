package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"portfolio-backend/internal/repository"
	"portfolio-backend/internal/service"

	"go.uber.org/zap"
)

// DashboardHandler обработчик панели управления и её JSON API
type DashboardHandler struct {
	dashboard *service.DashboardService
	storage   repository.Storage
	log       *zap.Logger
}

// NewDashboardHandler создает новый обработчик панели управления
func NewDashboardHandler(dashboard *service.DashboardService, storage repository.Storage, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		storage:   storage,
		log:       log,
	}
}

// Dashboard обрабатывает GET /dashboard: полный агрегированный снимок
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		h.log.Error("failed to compute dashboard stats", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, stats, http.StatusOK)
}

// APIStats обрабатывает GET /api/stats
func (h *DashboardHandler) APIStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.dashboard.QuickStats(r.Context())
	if err != nil {
		h.log.Error("failed to compute quick stats", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, stats, http.StatusOK)
}

// APIChartData обрабатывает GET /api/chart-data
func (h *DashboardHandler) APIChartData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chart, err := h.dashboard.ChartData(r.Context())
	if err != nil {
		h.log.Error("failed to compute chart data", zap.Error(err))
		h.writeError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, chart, http.StatusOK)
}

// MarkMessageRead обрабатывает POST /api/message/{id}/read.
// Ответ всегда в форме {"success": bool, "error": string}.
func (h *DashboardHandler) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeJSON(w, map[string]interface{}{
			"success": false,
			"error":   "Method not allowed",
		}, http.StatusMethodNotAllowed)
		return
	}

	// Путь: /api/message/{id}/read
	path := strings.TrimPrefix(r.URL.Path, "/api/message/")
	idStr := strings.TrimSuffix(path, "/read")
	if idStr == path || idStr == "" {
		h.writeJSON(w, map[string]interface{}{
			"success": false,
			"error":   "Not found",
		}, http.StatusNotFound)
		return
	}

	messageID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.writeJSON(w, map[string]interface{}{
			"success": false,
			"error":   "Invalid message id",
		}, http.StatusBadRequest)
		return
	}

	if err := h.storage.MarkMessageRead(r.Context(), messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			h.writeJSON(w, map[string]interface{}{
				"success": false,
				"error":   "Message not found",
			}, http.StatusNotFound)
			return
		}
		h.log.Error("failed to mark message as read", zap.Int64("message_id", messageID), zap.Error(err))
		h.writeJSON(w, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
		}, http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{"success": true}, http.StatusOK)
}

func (h *DashboardHandler) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, map[string]string{"error": message}, status)
}
