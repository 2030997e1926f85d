package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func scriptResponse(t *testing.T, content string) []byte {
	t.Helper()
	payload := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"content": content},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return body
}

const validScriptPayload = `{"script":"Cats rule the internet.","scenes":[` +
	`{"description":"A cat stares at the camera","duration":4,"visual_style":"close-up"},` +
	`{"description":"A kitten pounces on yarn","duration":5,"visual_style":"slow motion"}]}`

func TestGenerateScript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "demo-model" {
			t.Fatalf("unexpected model %q", req.Model)
		}
		if req.ResponseFormat["type"] != jsonResponseType {
			t.Fatalf("expected json response format, got %v", req.ResponseFormat)
		}
		_, _ = w.Write(scriptResponse(t, validScriptPayload))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	result, err := client.GenerateScript(context.Background(), "cats", 30, "engaging")
	if err != nil {
		t.Fatalf("GenerateScript returned error: %v", err)
	}
	if result.Script != "Cats rule the internet." {
		t.Fatalf("unexpected script %q", result.Script)
	}
	if len(result.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(result.Scenes))
	}
	if result.Scenes[0].Description != "A cat stares at the camera" {
		t.Fatalf("unexpected first scene %#v", result.Scenes[0])
	}
	if result.Scenes[1].Duration != 5 {
		t.Fatalf("unexpected duration %v", result.Scenes[1].Duration)
	}
}

func TestGenerateScriptAcceptsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(scriptResponse(t, "```json\n"+validScriptPayload+"\n```"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	result, err := client.GenerateScript(context.Background(), "cats", 30, "engaging")
	if err != nil {
		t.Fatalf("GenerateScript returned error: %v", err)
	}
	if len(result.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(result.Scenes))
	}
}

func TestGenerateScriptRejectsSchemaViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(scriptResponse(t, `{"script":"hello","scenes":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(1))
	if _, err := client.GenerateScript(context.Background(), "cats", 30, "engaging"); err == nil {
		t.Fatal("expected schema validation failure for empty scenes")
	}
}

func TestGenerateScriptRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(scriptResponse(t, validScriptPayload))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(3),
		WithRetryBackoff(time.Millisecond, 2*time.Millisecond),
		WithSleeper(func(time.Duration) {}))
	result, err := client.GenerateScript(context.Background(), "cats", 30, "engaging")
	if err != nil {
		t.Fatalf("GenerateScript returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if result.Script == "" {
		t.Fatal("expected script content after retry")
	}
}

func TestGenerateScriptDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"},
		WithRetryMaxAttempts(5),
		WithSleeper(func(time.Duration) {}))
	if _, err := client.GenerateScript(context.Background(), "cats", 30, "engaging"); err == nil {
		t.Fatal("expected error for 401")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestGenerateScriptRequiresTopic(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.GenerateScript(context.Background(), "  ", 30, "engaging"); err == nil {
		t.Fatal("expected error for empty topic")
	}
}
