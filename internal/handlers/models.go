package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"deepseek-relay/internal/models"
	"deepseek-relay/internal/services"
)

type ModelHandler struct {
	models modelSelection
	logger *zap.Logger
}

func NewModelHandler(models modelSelection, logger *zap.Logger) *ModelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelHandler{models: models, logger: logger}
}

func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ModelsResponse{
		AvailableModels:   services.AvailableModels(),
		CurrentModel:      h.models.Current(),
		ModelDescriptions: services.ModelDescriptions(),
	})
}

func (h *ModelHandler) Change(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	current, err := h.models.Set(name)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.logger.Info("active model changed", zap.String("model", current))

	writeJSON(w, http.StatusOK, models.ChangeModelResponse{
		Message:      fmt.Sprintf("Model changed to %s", current),
		CurrentModel: current,
	})
}
