package configuration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storyforge/sources/tracing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("STORYFORGE_TEST_SET", "value")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "set variable", input: "a: ${STORYFORGE_TEST_SET}", expected: "a: value"},
		{name: "unset without default", input: "a: ${STORYFORGE_TEST_UNSET}", expected: "a: "},
		{name: "unset with default", input: "a: ${STORYFORGE_TEST_UNSET:fallback}", expected: "a: fallback"},
		{name: "set ignores default", input: "a: ${STORYFORGE_TEST_SET:fallback}", expected: "a: value"},
		{name: "plain text", input: "a: $NOT_EXPANDED", expected: "a: $NOT_EXPANDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnv(tt.input); got != tt.expected {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://api.llama.com/compat/v1", "https://api.llama.com/compat/v1"},
		{"https://api.llama.com/compat/v1/", "https://api.llama.com/compat/v1"},
		{"https://api.llama.com/compat/v1/chat/completions", "https://api.llama.com/compat/v1"},
		{" https://api.llama.com/compat/v1/chat/completions/ ", "https://api.llama.com/compat/v1"},
	}

	for _, tt := range tests {
		if got := normalizeEndpoint(tt.input); got != tt.expected {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_API_URL", "https://api.llama.com/compat/v1/chat/completions")
	t.Setenv("LLM_API_KEY", "secret")
	t.Chdir(t.TempDir())

	config, err := Load(tracing.NewNopLogger(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Backend.Endpoint != "https://api.llama.com/compat/v1" {
		t.Errorf("endpoint = %q", config.Backend.Endpoint)
	}
	if config.Generation.GroupWidth != 8 {
		t.Errorf("group width = %d, want 8", config.Generation.GroupWidth)
	}
	if config.Generation.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", config.Generation.MaxAttempts)
	}
	if config.Generation.BackoffBase != time.Second {
		t.Errorf("backoff base = %s, want 1s", config.Generation.BackoffBase)
	}
	if config.Progress.Period != 200*time.Millisecond {
		t.Errorf("progress period = %s, want 200ms", config.Progress.Period)
	}
	if len(config.Models) == 0 {
		t.Error("default catalog is empty")
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("LLM_API_URL", "")
	t.Setenv("LLM_API_KEY", "")
	t.Chdir(t.TempDir())

	_, err := Load(tracing.NewNopLogger(), "")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv("LLM_API_URL", "https://example.com/v1")
	t.Setenv("LLM_API_KEY", "secret")

	path := filepath.Join(t.TempDir(), "storyforge.yaml")
	content := `
generation:
  group_width: 3
models:
  - name: only-model
    input_price_per_m: "1.5"
    output_price_per_m: "2"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := Load(tracing.NewNopLogger(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Generation.GroupWidth != 3 {
		t.Errorf("group width = %d, want 3", config.Generation.GroupWidth)
	}
	if config.Generation.SlotAttempts != 5 {
		t.Errorf("slot attempts = %d, want default 5", config.Generation.SlotAttempts)
	}
	if len(config.Models) != 1 || config.Models[0].Name != "only-model" {
		t.Errorf("models = %+v", config.Models)
	}
}

func TestLoadExplicitPathMissing(t *testing.T) {
	t.Setenv("LLM_API_URL", "https://example.com/v1")
	t.Setenv("LLM_API_KEY", "secret")

	if _, err := Load(tracing.NewNopLogger(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit configuration file")
	}
}

func TestValidateModels(t *testing.T) {
	config := &Config{
		Backend:    BackendConfig{Endpoint: "https://example.com/v1", APIKey: "k", TimeoutSeconds: 10},
		Generation: GenerationConfig{GroupWidth: 8, SlotAttempts: 5, MaxAttempts: 5},
		Models: []ModelConfig{
			{Name: "", InputPricePerM: "abc", OutputPricePerM: "-1"},
		},
	}

	err := config.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}

	config.Models = nil
	if err := config.Validate(); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestValidateAttemptCeiling(t *testing.T) {
	config := &Config{
		Backend:    BackendConfig{Endpoint: "https://example.com/v1", APIKey: "k", TimeoutSeconds: 10},
		Generation: GenerationConfig{GroupWidth: 8, SlotAttempts: 5, MaxAttempts: 5},
		Models:     []ModelConfig{{Name: "m", InputPricePerM: "0.1", OutputPricePerM: "0.2"}},
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	config.Generation.MaxAttempts = 0
	var configErr *ConfigurationError
	if err := config.Validate(); !errors.As(err, &configErr) || configErr.Field != "generation.max_attempts" {
		t.Errorf("Validate() error = %v, want generation.max_attempts", err)
	}
}
