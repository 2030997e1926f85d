package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"viralengine/internal/jobs"
	"viralengine/internal/logging"
)

// Dispatcher accepts generation requests and launches one pipeline run per
// accepted job. Submit returns as soon as the job record exists; the run
// proceeds on its own goroutine.
type Dispatcher struct {
	store        *jobs.Store
	orchestrator *Orchestrator
	logger       *slog.Logger
	wg           sync.WaitGroup
}

// NewDispatcher constructs a dispatcher over the shared store and orchestrator.
func NewDispatcher(store *jobs.Store, orchestrator *Orchestrator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		store:        store,
		orchestrator: orchestrator,
		logger:       logging.NewComponentLogger(logger, "dispatcher"),
	}
}

// Submit validates the request, registers the job, and starts the pipeline in
// the background. Validation failures leave no trace in the store.
func (d *Dispatcher) Submit(ctx context.Context, req jobs.Request) (*jobs.Job, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := d.store.Create(req)

	d.logger.Info("job accepted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("topic", req.Topic),
		logging.Int("duration", req.Duration),
	)

	// The run outlives the submitting caller; only values carried on ctx
	// survive, never its cancellation.
	runCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.orchestrator.Run(runCtx, job.ID); err != nil {
			d.logger.Error("pipeline run aborted",
				logging.String(logging.FieldJobID, job.ID),
				logging.Error(err),
			)
		}
	}()

	return job, nil
}

// Wait blocks until every launched pipeline run has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
