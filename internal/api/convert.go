package api

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"viralengine/internal/jobs"
)

var titleCaser = cases.Title(language.English)

// StatusLabel renders a status value for display, e.g. generating_script
// becomes "Generating Script".
func StatusLabel(status jobs.Status) string {
	return titleCaser.String(strings.ReplaceAll(string(status), "_", " "))
}

// FromJob projects a job snapshot into its external status view.
func FromJob(job *jobs.Job) JobStatus {
	status := JobStatus{
		ID:          job.ID,
		Topic:       job.Request.Topic,
		Status:      string(job.Status),
		StatusLabel: StatusLabel(job.Status),
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		SceneCount:  len(job.Scenes),
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	switch job.Status {
	case jobs.StatusCompleted:
		status.VideoURL = job.VideoURL
	case jobs.StatusFailed:
		status.Error = job.ErrorMessage
	}
	return status
}
