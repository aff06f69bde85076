package models

// ChatMessage is a single message in an upstream chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the body sent to the upstream /v1/chat/completions endpoint.
type CompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// CompletionResponse holds the part of the upstream reply the relay reads.
// Content is a pointer so a missing field can be told apart from an empty reply.
type CompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ModelListResponse is the body of the upstream /v1/models endpoint.
type ModelListResponse struct {
	Object string `json:"object"`
	Data   []struct {
		ID      string `json:"id"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}
