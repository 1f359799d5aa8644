package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/specialistvlad/palletforge/internal/archive"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/generation"
	"github.com/specialistvlad/palletforge/internal/orchestrator"
	"github.com/specialistvlad/palletforge/internal/resolve"
	"github.com/specialistvlad/palletforge/internal/splice"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// GenerateRequest is a generate command.
type GenerateRequest struct {
	Name          string
	Pallets       []string
	Target        string
	OverridesPath string
	Wait          bool
	Timeout       time.Duration
}

// SpliceRequest is a splice command.
type SpliceRequest struct {
	ProjectDir    string
	Pallets       []string
	Target        string
	OverridesPath string
}

// Start brings up the background machinery: object store, task store,
// orchestrator and health check server. It is safe to call more than once.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.orchestrator != nil {
		return nil
	}
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Start method started.")

	objects, err := a.newObjectStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to configure object store: %w", err)
	}
	tasks, err := a.newTaskStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to configure task store: %w", err)
	}
	strategy, err := a.NewAggregate()
	if err != nil {
		return err
	}
	assembler, err := a.newAssembler()
	if err != nil {
		return err
	}

	a.orchestrator = orchestrator.New(ctx, orchestrator.Deps{
		Strategy:  strategy,
		Assembler: assembler,
		Objects:   objects,
		Tasks:     tasks,
	}, orchestrator.Options{
		Workers:   a.config.WorkerCount,
		QueueSize: a.config.QueueSize,
		Format:    archive.Format(a.config.ArchiveFormat),
		KeyPrefix: a.config.Storage.Prefix,
		URLTTL:    a.config.Storage.URLTTL,
		Retention: a.config.Tasks.Retention,
	})
	a.service = generation.New(a.catalogue, a.orchestrator, serviceOptions(a.config))

	a.healthCheckServer()
	logger.Info("🚀 Generation workers started.", "workers", a.config.WorkerCount, "storage", a.config.Storage.Backend, "tasks", a.config.Tasks.Backend)
	return nil
}

// Close drains the orchestrator and releases the health check server and
// Redis connection.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))

	var errs []error
	if a.orchestrator != nil {
		errs = append(errs, a.orchestrator.Shutdown(ctx))
	}
	errs = append(errs, a.closeHealthCheckServer(ctx))
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	ctxlog.FromContext(ctx).Debug("App closed.")
	return errors.Join(errs...)
}

// List writes the catalogue as a table.
func (a *App) List(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPACKAGE\tREQUIRES\tESSENTIAL\tDESCRIPTION")
	for _, name := range a.catalogue.Names() {
		p, _ := a.catalogue.Get(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			dash(p.Metadata.Category),
			p.Dependencies.Package.Name,
			dash(strings.Join(p.Dependencies.Required, ",")),
			dash(strings.Join(p.Metadata.EssentialFor, ",")),
			p.Metadata.Description,
		)
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Generate submits a generation and, with Wait, blocks until it is terminal.
// The returned task is its latest observed state.
func (a *App) Generate(ctx context.Context, req GenerateRequest) (taskstore.Task, error) {
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))

	overrides, err := loadOverridesFile(req.OverridesPath)
	if err != nil {
		return taskstore.Task{}, err
	}
	if err := a.Start(ctx); err != nil {
		return taskstore.Task{}, err
	}

	svc := a.Service()
	id, err := svc.SubmitGeneration(ctx, generation.Request{
		Name:      req.Name,
		Pallets:   req.Pallets,
		Target:    req.Target,
		Overrides: overrides,
	})
	if err != nil {
		return taskstore.Task{}, err
	}

	if !req.Wait {
		return svc.PollStatus(ctx, id)
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	return svc.Wait(ctx, id, generation.DefaultPollInterval)
}

// Splice adds the requested pallets to the project at req.ProjectDir in
// place and returns the names of the pallets it spliced. Pallets already
// present in the project are not listed.
func (a *App) Splice(ctx context.Context, req SpliceRequest) ([]string, error) {
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(a.ctx))

	overrides, err := loadOverridesFile(req.OverridesPath)
	if err != nil {
		return nil, err
	}
	policy, err := synth.ParsePolicy(a.config.Policy)
	if err != nil {
		return nil, err
	}

	svc := a.Service()
	set, err := svc.Prepare(ctx, generation.Request{Pallets: req.Pallets, Target: req.Target, Overrides: overrides})
	if err != nil {
		return nil, err
	}
	out, err := svc.Synthesize(ctx, set, splice.New(req.ProjectDir, splice.Options{Policy: policy}))
	if err != nil {
		return nil, err
	}
	return out.Applied, nil
}

func loadOverridesFile(path string) (resolve.Overrides, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overrides file: %w", err)
	}
	defer f.Close()
	return resolve.LoadOverrides(f)
}
