package api

import (
	"viralengine/internal/jobs"
)

// JobReader is the subset of the job store the status service depends on.
type JobReader interface {
	Get(id string) (*jobs.Job, error)
	List() []*jobs.Job
}

// StatusService answers status queries from job snapshots. It never mutates
// jobs; all writes stay with the pipeline.
type StatusService struct {
	reader JobReader
}

// NewStatusService constructs a status service over the given reader.
func NewStatusService(reader JobReader) *StatusService {
	return &StatusService{reader: reader}
}

// Get returns the status projection for one job. Unknown ids surface the
// store's not found error unchanged.
func (s *StatusService) Get(id string) (JobStatus, error) {
	job, err := s.reader.Get(id)
	if err != nil {
		return JobStatus{}, err
	}
	return FromJob(job), nil
}

// List returns projections for every known job in creation order.
func (s *StatusService) List() []JobStatus {
	snapshots := s.reader.List()
	statuses := make([]JobStatus, 0, len(snapshots))
	for _, job := range snapshots {
		statuses = append(statuses, FromJob(job))
	}
	return statuses
}

// Active returns projections for jobs that are still being processed.
func (s *StatusService) Active() []JobStatus {
	statuses := s.List()
	active := statuses[:0]
	for _, status := range statuses {
		if jobs.Status(status.Status).IsTerminal() {
			continue
		}
		active = append(active, status)
	}
	return active
}
