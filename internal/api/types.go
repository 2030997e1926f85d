package api

import "time"

// JobStatus is the read-only projection of a job handed to callers. It never
// exposes intermediate working state such as per-segment asset paths.
type JobStatus struct {
	ID          string    `json:"id"`
	Topic       string    `json:"topic"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Progress    int       `json:"progress"`
	CurrentStep string    `json:"current_step"`
	SceneCount  int       `json:"scene_count,omitempty"`
	VideoURL    string    `json:"video_url,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
