package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"viralengine/internal/config"
)

func setProviderKeys(t *testing.T) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "or-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")
	t.Setenv("RUNWAY_API_KEY", "rw-test")
}

func TestLoadDefaultsUseEnvKeysAndExpandPaths(t *testing.T) {
	setProviderKeys(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, ".local", "share", "viralengine", "output")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.OpenRouter.APIKey != "or-test" {
		t.Fatalf("expected OpenRouter key from env, got %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.BaseURL != strings.TrimRight(config.Default().OpenRouter.BaseURL, "/") {
		t.Fatalf("unexpected OpenRouter base url: %q", cfg.OpenRouter.BaseURL)
	}
	if cfg.ElevenLabs.Model != config.Default().ElevenLabs.Model {
		t.Fatalf("unexpected ElevenLabs model: %q", cfg.ElevenLabs.Model)
	}
	if cfg.Runway.PollIntervalSeconds != config.Default().Runway.PollIntervalSeconds {
		t.Fatalf("unexpected Runway poll interval: %d", cfg.Runway.PollIntervalSeconds)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.TempDir, cfg.Paths.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	setProviderKeys(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[openrouter]
api_key = "file-key"
model = "openai/gpt-4o"

[runway]
base_url = "https://runway.example.com/v1/"

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.OpenRouter.APIKey != "file-key" {
		t.Fatalf("file value should win over env, got %q", cfg.OpenRouter.APIKey)
	}
	if cfg.OpenRouter.Model != "openai/gpt-4o" {
		t.Fatalf("unexpected model %q", cfg.OpenRouter.Model)
	}
	if cfg.Runway.BaseURL != "https://runway.example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Runway.BaseURL)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsMissingKeys(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("RUNWAY_API_KEY", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected validation error without provider keys")
	} else if !strings.Contains(err.Error(), "openrouter.api_key") {
		t.Fatalf("expected openrouter key error, got %v", err)
	}
}

func TestValidateRejectsBadPipelineLimits(t *testing.T) {
	cfg := config.Default()
	cfg.OpenRouter.APIKey = "x"
	cfg.ElevenLabs.APIKey = "x"
	cfg.Runway.APIKey = "x"
	cfg.Pipeline.MaxScenes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_scenes = 0")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(body), "[openrouter]") {
		t.Fatalf("sample config missing openrouter section: %s", body)
	}
}
