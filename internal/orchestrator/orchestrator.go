package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/palletforge/internal/archive"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/model"
	"github.com/specialistvlad/palletforge/internal/objectstore"
	"github.com/specialistvlad/palletforge/internal/resolve"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// Defaults applied to zero Options fields.
const (
	DefaultWorkers       = 4
	DefaultQueueSize     = 64
	DefaultKeyPrefix     = "generations/"
	DefaultURLTTL        = time.Hour
	DefaultSweepInterval = time.Minute
)

var (
	// ErrNotFound is returned by Poll for unknown task ids.
	ErrNotFound = taskstore.ErrNotFound
	// ErrClosed is returned by Submit after Shutdown has begun.
	ErrClosed = errors.New("orchestrator is shut down")
)

// Assembler packages a synthesis Output into archive bytes.
type Assembler interface {
	Assemble(ctx context.Context, out *synth.Output) ([]byte, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Strategy  synth.Strategy
	Assembler Assembler
	Objects   objectstore.Store
	Tasks     taskstore.Store
}

// Options tunes an Orchestrator.
type Options struct {
	Workers   int
	QueueSize int

	// Format decides the uploaded object's extension and content type.
	Format    archive.Format
	KeyPrefix string
	URLTTL    time.Duration

	// Retention removes terminal tasks older than this. Zero keeps them.
	Retention     time.Duration
	SweepInterval time.Duration
}

// job is one queued generation.
type job struct {
	id      string
	name    string
	pallets []*model.Pallet
}

// Orchestrator owns the job queue and its workers.
type Orchestrator struct {
	deps  Deps
	opts  Options
	ctx   context.Context
	newID func() string

	queue chan job
	stop  chan struct{}

	mu       sync.RWMutex
	closed   bool
	overflow sync.WaitGroup
	workers  sync.WaitGroup
}

// New starts the worker pool. Background work inherits the logger and values
// of ctx but not its cancellation; use Shutdown to stop.
func New(ctx context.Context, deps Deps, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Format == "" {
		opts.Format = archive.FormatZip
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.URLTTL <= 0 {
		opts.URLTTL = DefaultURLTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}

	o := &Orchestrator{
		deps:  deps,
		opts:  opts,
		ctx:   context.WithoutCancel(ctx),
		newID: uuid.NewString,
		queue: make(chan job, opts.QueueSize),
		stop:  make(chan struct{}),
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting orchestrator workers.", "workers", opts.Workers, "queue_size", opts.QueueSize)
	for i := 0; i < opts.Workers; i++ {
		o.workers.Add(1)
		go o.worker(i)
	}
	if opts.Retention > 0 {
		o.workers.Add(1)
		go o.sweeper()
	}
	return o
}

// Submit records a Pending task for set and queues it. It never waits for
// queue space.
func (o *Orchestrator) Submit(ctx context.Context, name string, set *resolve.Set) (string, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return "", ErrClosed
	}

	id := o.newID()
	if err := o.deps.Tasks.Create(ctx, taskstore.Task{ID: id, Name: name, Status: taskstore.StatusPending}); err != nil {
		return "", err
	}

	j := job{id: id, name: name, pallets: set.Pallets()}
	select {
	case o.queue <- j:
	default:
		ctxlog.FromContext(ctx).Debug("Job queue is full, handing job off.", "task_id", id)
		o.overflow.Add(1)
		go func() {
			defer o.overflow.Done()
			o.queue <- j
		}()
	}

	ctxlog.FromContext(ctx).Info("Generation task submitted.", "task_id", id, "name", name, "pallets", set.Len())
	return id, nil
}

// Poll returns the current state of a task.
func (o *Orchestrator) Poll(ctx context.Context, id string) (taskstore.Task, error) {
	return o.deps.Tasks.Get(ctx, id)
}

// Shutdown stops accepting tasks, lets queued jobs finish and waits for the
// workers. It returns ctx.Err() if ctx ends first; the workers keep draining.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.stop)
		go func() {
			o.overflow.Wait()
			close(o.queue)
		}()
	}
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		ctxlog.FromContext(ctx).Debug("Orchestrator stopped.")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sweeper periodically drops old terminal tasks.
func (o *Orchestrator) sweeper() {
	defer o.workers.Done()
	logger := ctxlog.FromContext(o.ctx)
	ticker := time.NewTicker(o.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		case now := <-ticker.C:
			n, err := o.deps.Tasks.Sweep(o.ctx, now.Add(-o.opts.Retention))
			if err != nil {
				logger.Warn("Task sweep failed.", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("Swept expired tasks.", "removed", n)
			}
		}
	}
}
