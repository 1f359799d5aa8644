package orchestrator

import (
	"context"
	"fmt"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// worker is the processing loop for a single concurrent worker.
func (o *Orchestrator) worker(workerID int) {
	defer o.workers.Done()
	logger := ctxlog.FromContext(o.ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for j := range o.queue {
		ctx := ctxlog.With(o.ctx, "workerID", workerID, "task_id", j.id)
		workerLogger := ctxlog.FromContext(ctx)
		workerLogger.Debug("Worker picked up generation job.", "name", j.name)

		location, err := o.run(ctx, j)
		result := taskstore.Finished(location)
		if err != nil {
			workerLogger.Error("Generation task failed.", "error", err)
			result = taskstore.Failed(err)
		}

		if err := o.deps.Tasks.Complete(ctx, j.id, result); err != nil {
			workerLogger.Error("Failed to record task outcome.", "status", result.Status, "error", err)
			continue
		}
		if result.Status == taskstore.StatusFinished {
			workerLogger.Info("✅ Generation task finished.", "location", location)
		}
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// run executes the pipeline for one job and returns the download location.
func (o *Orchestrator) run(ctx context.Context, j job) (location string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation panicked: %v", r)
		}
	}()
	logger := ctxlog.FromContext(ctx)

	out, err := o.deps.Strategy.Synthesize(ctx, j.pallets)
	if err != nil {
		return "", err
	}
	logger.Debug("Synthesis complete.", "manifest_bytes", len(out.Manifest), "runtime_bytes", len(out.Runtime))

	data, err := o.deps.Assembler.Assemble(ctx, out)
	if err != nil {
		return "", err
	}

	key := o.opts.KeyPrefix + j.id + o.opts.Format.Extension()
	if err := o.deps.Objects.Put(ctx, key, data, o.opts.Format.ContentType()); err != nil {
		return "", err
	}
	logger.Debug("Archive uploaded.", "key", key, "bytes", len(data))

	return o.deps.Objects.PresignedURL(ctx, key, o.opts.URLTTL)
}
