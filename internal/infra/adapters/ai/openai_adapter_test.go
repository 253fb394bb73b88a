package ai

import "testing"

func TestNewOpenAIAdapterDefaults(t *testing.T) {
	t.Run("empty model falls back to the provider default", func(t *testing.T) {
		a, err := NewOpenAIAdapter("k", "", 0)
		if err != nil {
			t.Fatalf("new adapter: %v", err)
		}
		if a.model != "gpt-4o-mini" {
			t.Fatalf("want gpt-4o-mini, got %q", a.model)
		}
		if a.maxTokens != 4096 {
			t.Fatalf("want 4096 max tokens, got %d", a.maxTokens)
		}
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		if _, err := NewOpenAIAdapter("", "gpt-4o-mini", 100); err == nil {
			t.Fatal("want an error for an empty api key")
		}
	})
}
