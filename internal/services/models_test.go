package services

import (
	"errors"
	"sync"
	"testing"
)

func TestModelSelector_DefaultsToDeepSeekChat(t *testing.T) {
	s := NewModelSelector()
	if s.Current() != DefaultModel {
		t.Fatalf("expected %q, got %q", DefaultModel, s.Current())
	}
}

func TestModelSelector_SetKnownModel(t *testing.T) {
	for _, name := range AvailableModels() {
		t.Run(name, func(t *testing.T) {
			s := NewModelSelector()
			got, err := s.Set(name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != name || s.Current() != name {
				t.Fatalf("expected current model %q, got %q / %q", name, got, s.Current())
			}
		})
	}
}

func TestModelSelector_RejectsUnknownModel(t *testing.T) {
	s := NewModelSelector()
	if _, err := s.Set("deepseek-coder"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"gpt-4", "", "DEEPSEEK-CHAT", "deepseek-chat "} {
		_, err := s.Set(name)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError for %q, got %v", name, err)
		}
		if s.Current() != "deepseek-coder" {
			t.Fatalf("selection changed after rejected name %q: %q", name, s.Current())
		}
	}
}

func TestModelSelector_ConcurrentAccess(t *testing.T) {
	s := NewModelSelector()
	models := AvailableModels()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set(models[i%len(models)])
		}(i)
		go func() {
			defer wg.Done()
			if cur := s.Current(); !IsKnownModel(cur) {
				t.Errorf("observed unknown model %q", cur)
			}
		}()
	}
	wg.Wait()
}

func TestCatalog(t *testing.T) {
	ids := AvailableModels()
	want := []string{"deepseek-chat", "deepseek-coder", "deepseek-llm"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d models, got %d", len(want), len(ids))
	}
	descs := ModelDescriptions()
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("expected model %d to be %q, got %q", i, id, ids[i])
		}
		if descs[id] == "" {
			t.Errorf("missing description for %q", id)
		}
	}
}
