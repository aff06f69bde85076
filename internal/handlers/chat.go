package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"deepseek-relay/internal/models"
)

type ChatHandler struct {
	chat   chatService
	models modelSelection
	logger *zap.Logger
}

func NewChatHandler(chat chatService, models modelSelection, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chat:   chat,
		models: models,
		logger: logger,
	}
}

// SendMessage forwards one message to the active model and returns its reply.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	model := h.models.Current()

	// Once accepted, the call runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	reply, err := h.chat.Chat(ctx, req.Message, model)
	if err != nil {
		h.logger.Warn("chat request failed",
			zap.String("model", model),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
