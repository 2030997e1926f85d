package jobs

import (
	"fmt"
	"strings"
	"time"

	"viralengine/internal/services"
)

// Status represents the lifecycle of a generation job.
type Status string

const (
	StatusPending           Status = "pending"
	StatusGeneratingScript  Status = "generating_script"
	StatusGeneratingAudio   Status = "generating_audio"
	StatusGeneratingVisuals Status = "generating_visuals"
	StatusProcessingVideo   Status = "processing_video"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusGeneratingScript,
	StatusGeneratingAudio,
	StatusGeneratingVisuals,
	StatusProcessingVideo,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusGeneratingScript:  {},
	StatusGeneratingAudio:   {},
	StatusGeneratingVisuals: {},
	StatusProcessingVideo:   {},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsProcessing reports whether a status reflects an in-flight stage.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// DefaultDuration is the requested video length applied when a submission
// omits one.
const DefaultDuration = 60

// DefaultStyle is the presentation style applied when a submission omits one.
const DefaultStyle = "engaging"

// Request is the immutable submission captured when a job is created.
type Request struct {
	Topic    string
	VoiceID  string
	Duration int
	Style    string
}

// Normalize trims fields and applies submission defaults.
func (r *Request) Normalize() {
	r.Topic = strings.TrimSpace(r.Topic)
	r.VoiceID = strings.TrimSpace(r.VoiceID)
	r.Style = strings.TrimSpace(r.Style)
	if r.Duration == 0 {
		r.Duration = DefaultDuration
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
}

// Validate rejects malformed submissions before any job exists.
func (r Request) Validate() error {
	var problems []string
	if r.Topic == "" {
		problems = append(problems, "topic must not be empty")
	}
	if r.VoiceID == "" {
		problems = append(problems, "voice_id must not be empty")
	}
	if r.Duration <= 0 {
		problems = append(problems, "duration must be positive")
	}
	if r.Style == "" {
		problems = append(problems, "style must not be empty")
	}
	if len(problems) > 0 {
		return services.Wrap(services.ErrValidation, "submit", "validate request", strings.Join(problems, "; "), nil)
	}
	return nil
}

// Scene is one ordered shot of the generated script.
type Scene struct {
	Description string
	Duration    float64
	VisualStyle string
}

// Job is one end-to-end generation request and its accumulated state.
// The pipeline is the only writer after dispatch; readers always receive
// deep copies from the Store.
type Job struct {
	ID             string
	Status         Status
	Progress       int
	CurrentStep    string
	Request        Request
	Script         string
	Scenes         []Scene
	AudioSegments  []string
	VideoClips     []string
	FinalVideoPath string
	VideoURL       string
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy that shares no slices with the receiver.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	cp := *j
	if j.Scenes != nil {
		cp.Scenes = make([]Scene, len(j.Scenes))
		copy(cp.Scenes, j.Scenes)
	}
	if j.AudioSegments != nil {
		cp.AudioSegments = make([]string, len(j.AudioSegments))
		copy(cp.AudioSegments, j.AudioSegments)
	}
	if j.VideoClips != nil {
		cp.VideoClips = make([]string, len(j.VideoClips))
		copy(cp.VideoClips, j.VideoClips)
	}
	return &cp
}

// IsTerminal reports whether the job reached completed or failed.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// SetProgress raises the progress checkpoint and updates the step label.
// Progress never decreases over a job's lifetime.
func (j *Job) SetProgress(percent int, step string) {
	if percent > 100 {
		percent = 100
	}
	if percent > j.Progress {
		j.Progress = percent
	}
	if step != "" {
		j.CurrentStep = step
	}
}

// SetFailed marks the job as failed with the given stage-attributed message.
func (j *Job) SetFailed(message string) {
	j.Status = StatusFailed
	j.ErrorMessage = message
	j.CurrentStep = fmt.Sprintf("Error: %s", message)
}
