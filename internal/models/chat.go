package models

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ModelsResponse lists the supported upstream models.
type ModelsResponse struct {
	AvailableModels   []string          `json:"available_models"`
	CurrentModel      string            `json:"current_model"`
	ModelDescriptions map[string]string `json:"model_descriptions"`
}

type ChangeModelResponse struct {
	Message      string `json:"message"`
	CurrentModel string `json:"current_model"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	APIProvider  string `json:"api_provider"`
	CurrentModel string `json:"current_model"`
	BalanceInfo  string `json:"balance_info"`
}

// ConnectionTestResponse reports the outcome of the connectivity probe.
// ResponsePreview is only set when the probe succeeded.
type ConnectionTestResponse struct {
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	ResponsePreview *string `json:"response_preview,omitempty"`
}
