// Package generation is the entry point used by the CLI: it resolves a
// request against the catalogue, applies overrides and hands the result to
// the orchestrator.
package generation

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/palletforge/internal/catalogue"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/resolve"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/taskstore"
)

// DefaultTarget is used when a request names no target.
const DefaultTarget = "solochain"

// DefaultPollInterval is the Wait polling period.
const DefaultPollInterval = 250 * time.Millisecond

// Tasks runs generations in the background.
type Tasks interface {
	Submit(ctx context.Context, name string, set *resolve.Set) (string, error)
	Poll(ctx context.Context, id string) (taskstore.Task, error)
}

// Options configures a Service.
type Options struct {
	Target    string
	Overrides resolve.OverrideOptions
}

// Request describes one generation.
type Request struct {
	Name      string
	Pallets   []string
	Target    string
	Overrides resolve.Overrides
}

// Service exposes resolve, override, synthesize, submit and poll.
type Service struct {
	cat   *catalogue.Catalogue
	tasks Tasks
	opts  Options
}

// New creates a Service. tasks may be nil for callers that only resolve and
// synthesize.
func New(cat *catalogue.Catalogue, tasks Tasks, opts Options) *Service {
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	return &Service{cat: cat, tasks: tasks, opts: opts}
}

// Catalogue returns the loaded catalogue.
func (s *Service) Catalogue() *catalogue.Catalogue {
	return s.cat
}

// Resolve expands requested into a resolved set for target, or the default
// target when empty.
func (s *Service) Resolve(ctx context.Context, requested []string, target string) (*resolve.Set, error) {
	if target == "" {
		target = s.opts.Target
	}
	return resolve.Resolve(ctx, s.cat, requested, target)
}

// ApplyOverrides writes overrides onto set.
func (s *Service) ApplyOverrides(ctx context.Context, set *resolve.Set, overrides resolve.Overrides) error {
	return resolve.ApplyOverrides(ctx, set, overrides, s.opts.Overrides)
}

// Synthesize runs strategy over set synchronously.
func (s *Service) Synthesize(ctx context.Context, set *resolve.Set, strategy synth.Strategy) (*synth.Output, error) {
	return strategy.Synthesize(ctx, set.Pallets())
}

// Prepare resolves the request and applies its overrides.
func (s *Service) Prepare(ctx context.Context, req Request) (*resolve.Set, error) {
	set, err := s.Resolve(ctx, req.Pallets, req.Target)
	if err != nil {
		return nil, err
	}
	if len(req.Overrides) > 0 {
		if err := s.ApplyOverrides(ctx, set, req.Overrides); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// SubmitGeneration prepares the request and queues it. Resolution and
// override errors are returned before any task exists.
func (s *Service) SubmitGeneration(ctx context.Context, req Request) (string, error) {
	if s.tasks == nil {
		return "", errors.New("generation service has no task runner")
	}
	set, err := s.Prepare(ctx, req)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Request prepared.", "name", req.Name, "pallets", set.Names())
	return s.tasks.Submit(ctx, req.Name, set)
}

// PollStatus returns the current state of a task.
func (s *Service) PollStatus(ctx context.Context, id string) (taskstore.Task, error) {
	if s.tasks == nil {
		return taskstore.Task{}, taskstore.ErrNotFound
	}
	return s.tasks.Poll(ctx, id)
}

// Wait polls id every interval until it is terminal or ctx ends.
func (s *Service) Wait(ctx context.Context, id string, interval time.Duration) (taskstore.Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		task, err := s.PollStatus(ctx, id)
		if err != nil {
			return taskstore.Task{}, err
		}
		if task.Status.Terminal() {
			return task, nil
		}
		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-ticker.C:
		}
	}
}
