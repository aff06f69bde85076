package services

import (
	"fmt"
	"sync"
)

// DefaultModel is selected at startup and used by the connectivity probe.
const DefaultModel = "deepseek-chat"

type ModelInfo struct {
	ID          string
	Description string
}

// modelCatalog is the fixed set of upstream models the relay will forward to.
var modelCatalog = []ModelInfo{
	{ID: "deepseek-chat", Description: "Best for general conversation and questions (Recommended)"},
	{ID: "deepseek-coder", Description: "Optimized for programming and code assistance"},
	{ID: "deepseek-llm", Description: "General purpose language model"},
}

// AvailableModels returns the catalog identifiers in catalog order.
func AvailableModels() []string {
	ids := make([]string, 0, len(modelCatalog))
	for _, m := range modelCatalog {
		ids = append(ids, m.ID)
	}
	return ids
}

func ModelDescriptions() map[string]string {
	descs := make(map[string]string, len(modelCatalog))
	for _, m := range modelCatalog {
		descs[m.ID] = m.Description
	}
	return descs
}

func IsKnownModel(name string) bool {
	for _, m := range modelCatalog {
		if m.ID == name {
			return true
		}
	}
	return false
}

// ModelSelector holds the active model. It only ever holds a catalog member.
type ModelSelector struct {
	mu      sync.RWMutex
	current string
}

func NewModelSelector() *ModelSelector {
	return &ModelSelector{current: DefaultModel}
}

func (s *ModelSelector) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set switches the active model. Unknown names are rejected with a
// *ValidationError and the previous selection is kept.
func (s *ModelSelector) Set(name string) (string, error) {
	if !IsKnownModel(name) {
		return "", &ValidationError{Message: fmt.Sprintf("Invalid model name: %q", name)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = name
	return s.current, nil
}
