package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"deepseek-relay/internal/models"
	"deepseek-relay/internal/services"
)

const (
	probeMessage  = "Hello"
	previewLength = 100
	previewMarker = "..."
)

type HealthHandler struct {
	chat   chatService
	models modelSelection
	logger *zap.Logger
}

func NewHealthHandler(chat chatService, models modelSelection, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{chat: chat, models: models, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:       "healthy",
		APIProvider:  "DeepSeek",
		CurrentModel: h.models.Current(),
		BalanceInfo:  "Check your DeepSeek dashboard for usage",
	})
}

// TestConnection probes the upstream with a fixed message. Failures are
// reported in the body; the status code is always 200.
func (h *HealthHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	reply, err := h.chat.Chat(ctx, probeMessage, services.DefaultModel)
	if err != nil {
		h.logger.Warn("connection test failed", zap.Error(err))
		writeJSON(w, http.StatusOK, models.ConnectionTestResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	p := preview(reply)
	writeJSON(w, http.StatusOK, models.ConnectionTestResponse{
		Status:          "connected",
		Message:         "API connection successful",
		ResponsePreview: &p,
	})
}

// preview cuts s to its first previewLength characters, marking the cut.
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewLength {
		return s
	}
	return string(runes[:previewLength]) + previewMarker
}
