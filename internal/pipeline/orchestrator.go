package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"viralengine/internal/jobs"
	"viralengine/internal/logging"
	"viralengine/internal/services"
)

// Progress checkpoints are coarse milestones, not percentage math: stage
// durations are provider-dependent, so the values only signal pipeline depth.
const (
	progressScriptStarted = 10
	progressScriptDone    = 25
	progressAudioDone     = 45
	progressVisualsDone   = 70
	progressMergeStarted  = 80
	progressCompleted     = 100
)

// sceneStepPrefixLen bounds the scene description shown in current_step;
// the full text stays in the scene record.
const sceneStepPrefixLen = 50

// Orchestrator drives a single job through the stage sequence, committing
// progress to the store after every sub-step. One Run executes per job;
// it is the only writer of that job after dispatch.
type Orchestrator struct {
	store     *jobs.Store
	exec      Executors
	logger    *slog.Logger
	maxScenes int
}

// NewOrchestrator constructs an orchestrator around the store and executors.
// maxScenes caps the visual stage fan-out; zero disables the cap.
func NewOrchestrator(store *jobs.Store, exec Executors, logger *slog.Logger, maxScenes int) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		store:     store,
		exec:      exec,
		logger:    logging.NewComponentLogger(logger, "orchestrator"),
		maxScenes: maxScenes,
	}
}

// Run advances the job to a terminal state. Stage failures are recorded on
// the job; Run itself only returns an error for store-level problems such
// as an unknown job id.
func (o *Orchestrator) Run(ctx context.Context, jobID string) error {
	ctx = services.WithJobID(ctx, jobID)
	ctx = services.WithRequestID(ctx, uuid.NewString())

	job, err := o.store.Get(jobID)
	if err != nil {
		return err
	}
	if job.IsTerminal() {
		return nil
	}
	req := job.Request

	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("pipeline panic: %v", r)
			logging.WithContext(ctx, o.logger).Error("pipeline panicked", logging.String("panic", fmt.Sprint(r)))
			_ = o.store.Update(jobID, func(j *jobs.Job) {
				if !j.IsTerminal() {
					j.SetFailed(message)
				}
			})
		}
	}()

	// Script stage.
	script, scenes, err := o.runScriptStage(ctx, jobID, req)
	if err != nil {
		return nil
	}

	// Audio stage.
	audioSegments, err := o.runAudioStage(ctx, jobID, script, req.VoiceID)
	if err != nil {
		return nil
	}

	// Visual stage.
	clips, err := o.runVisualStage(ctx, jobID, scenes, req.Style)
	if err != nil {
		return nil
	}

	// Merge stage.
	o.runMergeStage(ctx, jobID, scenes, clips, audioSegments)
	return nil
}

func (o *Orchestrator) runScriptStage(ctx context.Context, jobID string, req jobs.Request) (string, []jobs.Scene, error) {
	ctx = services.WithStage(ctx, "script")
	o.stageStarted(ctx, jobID, jobs.StatusGeneratingScript, progressScriptStarted,
		"Writing engaging script and scene descriptions...")

	out, err := o.exec.Script.GenerateScript(ctx, req.Topic, req.Duration, req.Style)
	if err == nil && len(out.Scenes) == 0 {
		err = fmt.Errorf("provider returned no scenes")
	}
	if err == nil && o.maxScenes > 0 && len(out.Scenes) > o.maxScenes {
		err = fmt.Errorf("scene count %d exceeds limit %d", len(out.Scenes), o.maxScenes)
	}
	if err != nil {
		o.stageFailed(ctx, jobID, "script generation failed", err)
		return "", nil, err
	}

	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.Script = out.Script
		j.Scenes = out.Scenes
		j.SetProgress(progressScriptDone, "")
	})
	o.stageCompleted(ctx, logging.Int("scene_count", len(out.Scenes)))
	return out.Script, out.Scenes, nil
}

func (o *Orchestrator) runAudioStage(ctx context.Context, jobID, script, voiceID string) ([]string, error) {
	ctx = services.WithStage(ctx, "audio")
	o.stageStarted(ctx, jobID, jobs.StatusGeneratingAudio, 0,
		"Generating AI voiceover...")

	segments, err := o.exec.Audio.GenerateVoiceover(ctx, script, voiceID, jobID)
	if err != nil {
		o.stageFailed(ctx, jobID, "audio generation failed", err)
		return nil, err
	}

	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.AudioSegments = segments
		j.SetProgress(progressAudioDone, "")
	})
	o.stageCompleted(ctx, logging.Int("segment_count", len(segments)))
	return segments, nil
}

func (o *Orchestrator) runVisualStage(ctx context.Context, jobID string, scenes []jobs.Scene, style string) ([]string, error) {
	ctx = services.WithStage(ctx, "visuals")
	total := len(scenes)
	o.stageStarted(ctx, jobID, jobs.StatusGeneratingVisuals, 0,
		fmt.Sprintf("Generating %d video clips...", total))

	clips := make([]string, 0, total)
	for i, scene := range scenes {
		step := fmt.Sprintf("Generating scene %d of %d: %s", i+1, total, truncateDescription(scene.Description))
		o.commit(ctx, jobID, func(j *jobs.Job) {
			j.CurrentStep = step
		})

		clip, err := o.exec.Visual.GenerateSceneClip(ctx, scene.Description, style, jobID, i)
		if err != nil {
			// Clips produced so far stay on the record for diagnostics;
			// the merge never runs for a failed job.
			o.commit(ctx, jobID, func(j *jobs.Job) {
				j.VideoClips = clips
			})
			o.stageFailed(ctx, jobID, fmt.Sprintf("visual generation failed at scene %d", i), err)
			return nil, err
		}
		clips = append(clips, clip)
		committed := make([]string, len(clips))
		copy(committed, clips)
		o.commit(ctx, jobID, func(j *jobs.Job) {
			j.VideoClips = committed
		})
	}

	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.SetProgress(progressVisualsDone, "")
	})
	o.stageCompleted(ctx, logging.Int("clip_count", len(clips)))
	return clips, nil
}

func (o *Orchestrator) runMergeStage(ctx context.Context, jobID string, scenes []jobs.Scene, clips, audioSegments []string) {
	ctx = services.WithStage(ctx, "merge")
	o.stageStarted(ctx, jobID, jobs.StatusProcessingVideo, progressMergeStarted,
		"Merging clips and adding subtitles")

	final, err := o.exec.Merge.CreateFinalVideo(ctx, scenes, clips, audioSegments, jobID)
	if err != nil {
		o.stageFailed(ctx, jobID, "video processing failed", err)
		return
	}

	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.FinalVideoPath = final
		j.VideoURL = "/api/download/" + jobID
		j.Status = jobs.StatusCompleted
		j.SetProgress(progressCompleted, "Video ready!")
	})
	o.stageCompleted(ctx, logging.String("final_video", final))
}

func (o *Orchestrator) stageStarted(ctx context.Context, jobID string, status jobs.Status, progress int, step string) {
	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.Status = status
		if progress > 0 {
			j.SetProgress(progress, step)
		} else {
			j.CurrentStep = step
		}
	})
	logging.WithContext(ctx, o.logger).Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("status", string(status)),
	)
}

func (o *Orchestrator) stageCompleted(ctx context.Context, attrs ...logging.Attr) {
	args := append([]logging.Attr{logging.String(logging.FieldEventType, "stage_complete")}, attrs...)
	logging.WithContext(ctx, o.logger).Info("stage completed", logging.Args(args...)...)
}

func (o *Orchestrator) stageFailed(ctx context.Context, jobID, prefix string, stageErr error) {
	cause := strings.TrimSpace(services.Details(stageErr).Message)
	if cause == "" {
		cause = "failed without error detail"
	}
	message := fmt.Sprintf("%s: %s", prefix, cause)
	o.commit(ctx, jobID, func(j *jobs.Job) {
		j.SetFailed(message)
	})
	logging.WithContext(ctx, o.logger).Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("error_message", message),
		logging.Error(stageErr),
	)
}

func (o *Orchestrator) commit(ctx context.Context, jobID string, mutate func(*jobs.Job)) {
	if err := o.store.Update(jobID, mutate); err != nil {
		logging.WithContext(ctx, o.logger).Error("failed to persist job update", logging.Error(err))
	}
}

func truncateDescription(description string) string {
	description = strings.TrimSpace(description)
	runes := []rune(description)
	if len(runes) <= sceneStepPrefixLen {
		return description
	}
	return string(runes[:sceneStepPrefixLen]) + "..."
}
