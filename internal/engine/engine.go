package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"viralengine/internal/api"
	"viralengine/internal/config"
	"viralengine/internal/jobs"
	"viralengine/internal/logging"
	"viralengine/internal/pipeline"
)

// Engine bundles the job store, dispatcher, and status service behind a
// workspace lock so only one process generates into an output directory
// at a time.
type Engine struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *jobs.Store
	dispatcher *pipeline.Dispatcher
	status     *api.StatusService

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs an engine over the provided executors. The lock file lives
// in the configured log directory.
func New(cfg *config.Config, exec pipeline.Executors, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("engine requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store := jobs.NewStore()
	orchestrator := pipeline.NewOrchestrator(store, exec, logger, cfg.Pipeline.MaxScenes)
	lockPath := filepath.Join(cfg.Paths.LogDir, "viralengine.lock")

	return &Engine{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "engine"),
		store:      store,
		dispatcher: pipeline.NewDispatcher(store, orchestrator, logger),
		status:     api.NewStatusService(store),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the workspace lock. It fails fast when another process
// already holds it.
func (e *Engine) Start() error {
	if e.running.Load() {
		return errors.New("engine already running")
	}
	ok, err := e.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("workspace %s is locked by another viralengine process", e.cfg.Paths.OutputDir)
	}
	e.running.Store(true)
	e.logger.Info("engine started", logging.String("lock", e.lockPath))
	return nil
}

// Submit hands a request to the dispatcher.
func (e *Engine) Submit(ctx context.Context, req jobs.Request) (*jobs.Job, error) {
	if !e.running.Load() {
		return nil, errors.New("engine is not running")
	}
	return e.dispatcher.Submit(ctx, req)
}

// Status exposes the read-only status service.
func (e *Engine) Status() *api.StatusService {
	return e.status
}

// Wait blocks until every in-flight pipeline run has finished.
func (e *Engine) Wait() {
	e.dispatcher.Wait()
}

// Stop waits for in-flight runs and releases the workspace lock.
func (e *Engine) Stop() {
	if !e.running.Load() {
		return
	}
	e.dispatcher.Wait()
	if err := e.lock.Unlock(); err != nil {
		e.logger.Warn("failed to release workspace lock", logging.Error(err))
	}
	e.running.Store(false)
	e.logger.Info("engine stopped")
}
