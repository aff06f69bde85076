package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"deepseek-relay/internal/models"
	"deepseek-relay/internal/services"
)

// chatService is the upstream client the handlers forward to.
type chatService interface {
	Chat(ctx context.Context, message, model string) (string, error)
}

// modelSelection is the server-owned active model.
type modelSelection interface {
	Current() string
	Set(name string) (string, error)
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *services.ValidationError
		configErr     *services.ConfigurationError
		upstreamErr   *services.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", validationErr.Message, r))
	case errors.As(err, &configErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("CONFIGURATION_ERROR", configErr.Message, r))
	case errors.As(err, &upstreamErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("UPSTREAM_ERROR", "API error: "+upstreamErr.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
