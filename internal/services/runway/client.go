package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout  = 30 * time.Second
	defaultPollInterval = 5 * time.Second
	defaultTaskTimeout  = 10 * time.Minute
)

// Config captures the runtime settings for the video synthesis provider.
type Config struct {
	APIKey              string
	BaseURL             string
	Model               string
	PollIntervalSeconds int
	TimeoutSeconds      int
}

// Client wraps the Runway generation API. Generation is task shaped: a
// request enqueues a task, and the client polls until the task reaches a
// terminal state or the configured deadline passes.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	pollInterval time.Duration
	taskTimeout  time.Duration
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

// WithPollInterval overrides the task polling cadence (useful for tests).
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// NewClient constructs a Runway client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:   strings.TrimSpace(cfg.Model),
		},
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		pollInterval: defaultPollInterval,
		taskTimeout:  defaultTaskTimeout,
	}
	if cfg.PollIntervalSeconds > 0 {
		client.pollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second
	}
	if cfg.TimeoutSeconds > 0 {
		client.taskTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.runwayml.com/v1"
	}
	return client
}

type generationRequest struct {
	Model    string         `json:"model"`
	Prompt   string         `json:"prompt"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type compositionRequest struct {
	Clips    []string       `json:"clips"`
	Audio    []string       `json:"audio"`
	Timeline []timelineItem `json:"timeline"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type timelineItem struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration,omitempty"`
}

type taskResponse struct {
	ID      string   `json:"id"`
	Status  string   `json:"status"`
	Output  []string `json:"output"`
	Failure string   `json:"failure"`
}

// SceneInput mirrors the scene fields the compositor needs for timing.
type SceneInput struct {
	Description string
	Duration    float64
}

// GenerateSceneClip enqueues generation of a single scene clip and waits for
// completion, returning the clip reference.
func (c *Client) GenerateSceneClip(ctx context.Context, description, style, jobID string, sceneIndex int) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.New("scene clip: description required")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", errors.New("scene clip: api key required")
	}

	prompt := description
	if style = strings.TrimSpace(style); style != "" {
		prompt = fmt.Sprintf("%s, %s style", description, style)
	}
	payload := generationRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Metadata: map[string]any{
			"job_id":      jobID,
			"scene_index": sceneIndex,
		},
	}

	task, err := c.createTask(ctx, "/tasks", payload)
	if err != nil {
		return "", fmt.Errorf("scene clip: %w", err)
	}
	done, err := c.waitForTask(ctx, task.ID)
	if err != nil {
		return "", fmt.Errorf("scene clip: %w", err)
	}
	if len(done.Output) == 0 {
		return "", fmt.Errorf("scene clip: task %s produced no output", task.ID)
	}
	return done.Output[0], nil
}

// CreateFinalVideo enqueues composition of the ordered clips and audio
// segments into the final video and waits for the merged artifact reference.
// Clip order must match scene order; the timeline carries per-scene timing.
func (c *Client) CreateFinalVideo(ctx context.Context, scenes []SceneInput, clips, audioSegments []string, jobID string) (string, error) {
	if len(clips) == 0 {
		return "", errors.New("final video: clips required")
	}
	if len(clips) != len(scenes) {
		return "", fmt.Errorf("final video: clip count %d does not match scene count %d", len(clips), len(scenes))
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", errors.New("final video: api key required")
	}

	timeline := make([]timelineItem, len(scenes))
	for i, scene := range scenes {
		timeline[i] = timelineItem{Description: scene.Description, Duration: scene.Duration}
	}
	payload := compositionRequest{
		Clips:    clips,
		Audio:    audioSegments,
		Timeline: timeline,
		Metadata: map[string]any{"job_id": jobID},
	}

	task, err := c.createTask(ctx, "/compositions", payload)
	if err != nil {
		return "", fmt.Errorf("final video: %w", err)
	}
	done, err := c.waitForTask(ctx, task.ID)
	if err != nil {
		return "", fmt.Errorf("final video: %w", err)
	}
	if len(done.Output) == 0 {
		return "", fmt.Errorf("final video: task %s produced no output", task.ID)
	}
	return done.Output[0], nil
}

func (c *Client) createTask(ctx context.Context, path string, payload any) (taskResponse, error) {
	var task taskResponse
	encoded, err := json.Marshal(payload)
	if err != nil {
		return task, fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return task, fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return task, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return task, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return task, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("decode response: %w", err)
	}
	if task.ID == "" {
		return task, errors.New("response missing task id")
	}
	return task, nil
}

func (c *Client) waitForTask(ctx context.Context, id string) (taskResponse, error) {
	var task taskResponse
	deadline := time.Now().Add(c.taskTimeout)
	for {
		var err error
		task, err = c.fetchTask(ctx, id)
		if err != nil {
			return task, err
		}
		switch strings.ToUpper(strings.TrimSpace(task.Status)) {
		case "SUCCEEDED":
			return task, nil
		case "FAILED", "CANCELLED":
			failure := strings.TrimSpace(task.Failure)
			if failure == "" {
				failure = "task failed without detail"
			}
			return task, fmt.Errorf("task %s: %s", id, failure)
		}
		if time.Now().After(deadline) {
			return task, fmt.Errorf("task %s: timed out after %s", id, c.taskTimeout)
		}

		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return task, ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) fetchTask(ctx context.Context, id string) (taskResponse, error) {
	var task taskResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/tasks/"+id, nil)
	if err != nil {
		return task, fmt.Errorf("new request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return task, fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return task, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return task, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &task); err != nil {
		return task, fmt.Errorf("decode response: %w", err)
	}
	return task, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
}
