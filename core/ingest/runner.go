package ingest

import (
	"context"
	"path/filepath"
	"sync"

	"vessfm/logger"
	"vessfm/model"
)

// Job is one file to ingest. CoverPath is an optional externally supplied
// cover reference; OwnerID 0 means "no authenticated uploader" and falls
// back to the configured system user.
type Job struct {
	FilePath  string
	CoverPath string
	OwnerID   int64
}

// Extractor reads a tag bag from an audio file. Satisfied by TagReader.
type Extractor interface {
	Extract(ctx context.Context, path string) (*model.TagBag, error)
}

// Runner executes ingest jobs on a bounded worker pool. Each job is
// isolated: a failure is logged and published as an event, then dropped.
// The uploaded file stays on disk unregistered; there are no retries.
type Runner struct {
	reader       Extractor
	assembler    *Assembler
	hub          *EventHub // may be nil
	systemUserID int64

	jobs     chan Job
	workers  int
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewRunner creates an ingest runner with the given pool and queue sizes.
func NewRunner(reader Extractor, assembler *Assembler, hub *EventHub, workers, queueSize int, systemUserID int64) *Runner {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Runner{
		reader:       reader,
		assembler:    assembler,
		hub:          hub,
		systemUserID: systemUserID,
		jobs:         make(chan Job, queueSize),
		workers:      workers,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	logger.Info("ingest runner starting", logger.Int("workers", r.workers))
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

// Stop shuts the pool down. Workers drain whatever is already queued
// before exiting, so an accepted upload is never silently dropped by a
// clean shutdown.
func (r *Runner) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	logger.Info("ingest runner stopped")
}

// Enqueue submits a job without blocking. Returns ErrQueueFull when the
// queue has no room, so callers can surface backpressure.
func (r *Runner) Enqueue(job Job) error {
	select {
	case r.jobs <- job:
		r.hub.Publish(Event{Type: EventQueued, File: filepath.Base(job.FilePath)})
		return nil
	default:
		return ErrQueueFull
	}
}

// EnqueueWait submits a job, blocking until there is room or ctx is done.
// Used by the directory scanner, which prefers waiting over dropping.
func (r *Runner) EnqueueWait(ctx context.Context, job Job) error {
	select {
	case r.jobs <- job:
		r.hub.Publish(Event{Type: EventQueued, File: filepath.Base(job.FilePath)})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopChan:
			for {
				select {
				case job := <-r.jobs:
					r.process(job)
				default:
					return
				}
			}
		case job := <-r.jobs:
			r.process(job)
		}
	}
}

// process runs one job to completion. All errors stop here; a panic or
// failure in one file never affects sibling ingestions.
func (r *Runner) process(job Job) {
	file := filepath.Base(job.FilePath)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while ingesting file",
				logger.String("file", file),
				logger.Any("panic", rec))
			r.hub.Publish(Event{Type: EventFailed, File: file, Error: "internal error"})
		}
	}()

	ownerID := job.OwnerID
	if ownerID == 0 {
		ownerID = r.systemUserID
	}

	ctx := context.Background()

	bag, err := r.reader.Extract(ctx, job.FilePath)
	if err != nil {
		logger.Error("failed to read tags, dropping file",
			logger.String("file", file),
			logger.ErrorField(err))
		r.hub.Publish(Event{Type: EventFailed, File: file, Error: err.Error()})
		return
	}

	track, err := r.assembler.Assemble(ctx, bag, job.FilePath, job.CoverPath, ownerID)
	if err != nil {
		logger.Error("failed to ingest file",
			logger.String("file", file),
			logger.ErrorField(err))
		r.hub.Publish(Event{Type: EventFailed, File: file, Error: err.Error()})
		return
	}

	logger.Info("file ingested",
		logger.String("file", file),
		logger.Int64("trackId", track.ID),
		logger.String("title", track.Title))
	r.hub.Publish(Event{Type: EventCompleted, File: file, TrackID: track.ID, Title: track.Title})
}
