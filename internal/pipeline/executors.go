package pipeline

import (
	"context"

	"viralengine/internal/config"
	"viralengine/internal/jobs"
	"viralengine/internal/services/elevenlabs"
	"viralengine/internal/services/openrouter"
	"viralengine/internal/services/runway"
)

// ScriptOutput is the normalized result of the script stage.
type ScriptOutput struct {
	Script string
	Scenes []jobs.Scene
}

// ScriptExecutor produces a narration script and ordered scene descriptions.
type ScriptExecutor interface {
	GenerateScript(ctx context.Context, topic string, duration int, style string) (ScriptOutput, error)
}

// AudioExecutor synthesizes the voiceover and returns ordered segment references.
type AudioExecutor interface {
	GenerateVoiceover(ctx context.Context, script, voiceID, jobID string) ([]string, error)
}

// VisualExecutor produces one clip reference for a single scene.
type VisualExecutor interface {
	GenerateSceneClip(ctx context.Context, description, style, jobID string, sceneIndex int) (string, error)
}

// MergeExecutor composites ordered clips and audio into the final video.
type MergeExecutor interface {
	CreateFinalVideo(ctx context.Context, scenes []jobs.Scene, clips, audioSegments []string, jobID string) (string, error)
}

// Executors bundles the four stage executors the orchestrator drives.
type Executors struct {
	Script ScriptExecutor
	Audio  AudioExecutor
	Visual VisualExecutor
	Merge  MergeExecutor
}

// NewExecutors wires the provider clients configured in cfg into the
// executor contracts.
func NewExecutors(cfg *config.Config) Executors {
	scriptClient := openrouter.NewClient(openrouter.Config{
		APIKey:         cfg.OpenRouter.APIKey,
		BaseURL:        cfg.OpenRouter.BaseURL,
		Model:          cfg.OpenRouter.Model,
		Referer:        cfg.OpenRouter.Referer,
		Title:          cfg.OpenRouter.Title,
		TimeoutSeconds: cfg.OpenRouter.TimeoutSeconds,
	})
	audioClient := elevenlabs.NewClient(elevenlabs.Config{
		APIKey:         cfg.ElevenLabs.APIKey,
		BaseURL:        cfg.ElevenLabs.BaseURL,
		Model:          cfg.ElevenLabs.Model,
		OutputDir:      cfg.Paths.OutputDir,
		TimeoutSeconds: cfg.ElevenLabs.TimeoutSeconds,
	})
	videoClient := runway.NewClient(runway.Config{
		APIKey:              cfg.Runway.APIKey,
		BaseURL:             cfg.Runway.BaseURL,
		Model:               cfg.Runway.Model,
		PollIntervalSeconds: cfg.Runway.PollIntervalSeconds,
		TimeoutSeconds:      cfg.Runway.TimeoutSeconds,
	})
	return Executors{
		Script: scriptAdapter{client: scriptClient},
		Audio:  audioClient,
		Visual: videoClient,
		Merge:  mergeAdapter{client: videoClient},
	}
}

type scriptAdapter struct {
	client *openrouter.Client
}

func (a scriptAdapter) GenerateScript(ctx context.Context, topic string, duration int, style string) (ScriptOutput, error) {
	result, err := a.client.GenerateScript(ctx, topic, duration, style)
	if err != nil {
		return ScriptOutput{}, err
	}
	return ScriptOutput{Script: result.Script, Scenes: result.Scenes}, nil
}

type mergeAdapter struct {
	client *runway.Client
}

func (a mergeAdapter) CreateFinalVideo(ctx context.Context, scenes []jobs.Scene, clips, audioSegments []string, jobID string) (string, error) {
	inputs := make([]runway.SceneInput, len(scenes))
	for i, scene := range scenes {
		inputs[i] = runway.SceneInput{Description: scene.Description, Duration: scene.Duration}
	}
	return a.client.CreateFinalVideo(ctx, inputs, clips, audioSegments, jobID)
}
