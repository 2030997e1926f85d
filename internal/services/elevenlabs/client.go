package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 120 * time.Second
	defaultModel       = "eleven_multilingual_v2"

	// maxSegmentChars bounds the text sent per synthesis request; long
	// scripts are split on sentence boundaries into multiple segments.
	maxSegmentChars = 900
)

// Config captures the runtime settings for the voiceover provider.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	OutputDir      string
	TimeoutSeconds int
}

// Client wraps the ElevenLabs text-to-speech API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an ElevenLabs client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			OutputDir:      strings.TrimSpace(cfg.OutputDir),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	return client
}

type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings map[string]any `json:"voice_settings,omitempty"`
}

// GenerateVoiceover synthesizes the script with the requested voice and
// returns the ordered audio segment paths written under the output
// directory. Long scripts are split on sentence boundaries so each request
// stays within provider limits.
func (c *Client) GenerateVoiceover(ctx context.Context, script, voiceID, jobID string) ([]string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, errors.New("voiceover: script required")
	}
	voiceID = strings.TrimSpace(voiceID)
	if voiceID == "" {
		return nil, errors.New("voiceover: voice id required")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, errors.New("voiceover: api key required")
	}

	dir := filepath.Join(c.cfg.OutputDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("voiceover: create output dir: %w", err)
	}

	segments := splitScript(script)
	paths := make([]string, 0, len(segments))
	for i, segment := range segments {
		audio, err := c.synthesize(ctx, segment, voiceID)
		if err != nil {
			return nil, fmt.Errorf("voiceover segment %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("audio_%03d.mp3", i))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return nil, fmt.Errorf("voiceover segment %d: write file: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (c *Client) synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	payload := synthesisRequest{
		Text:    text,
		ModelID: c.cfg.Model,
		VoiceSettings: map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.cfg.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(body) == 0 {
		return nil, errors.New("empty audio payload")
	}
	return body, nil
}

// splitScript breaks a script into synthesis-sized chunks on sentence
// boundaries, keeping original order.
func splitScript(script string) []string {
	if len(script) <= maxSegmentChars {
		return []string{script}
	}

	var segments []string
	var current strings.Builder
	for _, sentence := range splitSentences(script) {
		if current.Len() > 0 && current.Len()+len(sentence)+1 > maxSegmentChars {
			segments = append(segments, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		segments = append(segments, strings.TrimSpace(current.String()))
	}
	return segments
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			end := i + 1
			if sentence := strings.TrimSpace(text[start:end]); sentence != "" {
				sentences = append(sentences, sentence)
			}
			start = end
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
