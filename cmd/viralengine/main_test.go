package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"viralengine/internal/api"
	"viralengine/internal/jobs"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("OPENROUTER_API_KEY", "or-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")
	t.Setenv("RUNWAY_API_KEY", "rw-test")

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
output_dir = %q
temp_dir = %q
log_dir = %q
`,
		filepath.Join(base, "output"),
		filepath.Join(base, "tmp"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Fatalf("unexpected validate output: %q", out)
	}

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
}

func TestGenerateRequiresTopicAndVoice(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"generate", "--topic", "anything"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "voice") {
		t.Fatalf("expected missing voice error, got %v", err)
	}

	_, _, err = runCLI(t, []string{"generate", "--voice", "voice-1"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--topic") {
		t.Fatalf("expected missing topic error, got %v", err)
	}
}

func TestFormatProgressLine(t *testing.T) {
	status := api.JobStatus{
		ID:          "0123456789abcdef",
		Status:      string(jobs.StatusGeneratingAudio),
		Progress:    25,
		CurrentStep: "Generating AI voiceover...",
	}
	line := formatProgressLine(status)
	if !strings.HasPrefix(line, "01234567") {
		t.Errorf("line = %q", line)
	}
	if !strings.Contains(line, "25%") || !strings.Contains(line, "generating_audio") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasSuffix(line, "Generating AI voiceover...") {
		t.Errorf("line = %q", line)
	}
}

func TestRenderJobTable(t *testing.T) {
	now := time.Now().UTC()
	statuses := []api.JobStatus{
		{
			ID: "aaaaaaaa-1111", Topic: "solar sails", Status: string(jobs.StatusCompleted),
			StatusLabel: "Completed", Progress: 100, VideoURL: "/api/download/aaaaaaaa-1111",
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "bbbbbbbb-2222", Topic: "moss graffiti", Status: string(jobs.StatusFailed),
			StatusLabel: "Failed", Progress: 25, Error: "audio generation failed: quota exceeded",
			CreatedAt: now, UpdatedAt: now,
		},
	}

	rendered := renderJobTable(statuses)
	for _, want := range []string{
		"aaaaaaaa", "solar sails", "Completed", "100%", "/api/download/aaaaaaaa-1111",
		"bbbbbbbb", "moss graffiti", "Failed", "quota exceeded",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("table missing %q:\n%s", want, rendered)
		}
	}
}

func TestCountFailed(t *testing.T) {
	statuses := []api.JobStatus{
		{Status: string(jobs.StatusCompleted)},
		{Status: string(jobs.StatusFailed)},
		{Status: string(jobs.StatusFailed)},
	}
	if got := countFailed(statuses); got != 2 {
		t.Errorf("countFailed = %d, want 2", got)
	}
}
