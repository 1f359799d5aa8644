package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/palletforge/internal/generation"
	"github.com/specialistvlad/palletforge/internal/resolve"
	"github.com/specialistvlad/palletforge/internal/synth"
	"github.com/specialistvlad/palletforge/internal/taskstore"
	"github.com/specialistvlad/palletforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTasks records submissions and serves scripted poll results.
type fakeTasks struct {
	mu        sync.Mutex
	submitted []*resolve.Set
	polls     []taskstore.Task
}

func (f *fakeTasks) Submit(_ context.Context, name string, set *resolve.Set) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, set)
	return "task-" + name, nil
}

func (f *fakeTasks) Poll(_ context.Context, id string) (taskstore.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.polls) == 0 {
		return taskstore.Task{}, taskstore.ErrNotFound
	}
	task := f.polls[0]
	if len(f.polls) > 1 {
		f.polls = f.polls[1:]
	}
	return task, nil
}

func (f *fakeTasks) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func newService(t *testing.T, tasks generation.Tasks, opts generation.Options) *generation.Service {
	t.Helper()
	return generation.New(testutil.LoadCatalogue(t, testutil.ScenarioCatalogueHCL), tasks, opts)
}

func TestScenarioA_ResolveAddsRequiredAndEssential(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	svc := newService(t, nil, generation.Options{})

	set, err := svc.Resolve(ctx, []string{"Y"}, "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"X", "Y", "Z"}, set.Names())
}

func TestScenarioB_OverrideIsRendered(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	tasks := &fakeTasks{}
	svc := newService(t, tasks, generation.Options{})

	mult := int64(5)
	_, err := svc.SubmitGeneration(ctx, generation.Request{
		Name:      "b",
		Pallets:   []string{"Y"},
		Overrides: resolve.Overrides{"Y": {"p1": {Multiplier: &mult}}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, tasks.count())

	engine, err := synth.NewTextEngine("")
	require.NoError(t, err)
	out, err := svc.Synthesize(ctx, tasks.submitted[0], synth.NewAggregate(engine, synth.AggregateOptions{}))
	require.NoError(t, err)
	assert.Contains(t, string(out.Runtime), "pub const p1: u32 = 5 * U;")
	assert.Contains(t, string(out.Runtime), "pub const p2: u32 = 7 * U;")

	y, ok := svc.Catalogue().Get("Y")
	require.True(t, ok)
	assert.Nil(t, y.Runtime.Parameter("p1").ConfiguredMultiplier, "catalogue entries are never mutated")
}

func TestScenarioC_UnknownModuleCreatesNoTask(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		req  generation.Request
	}{
		{
			name: "unknown requested pallet",
			req:  generation.Request{Name: "c", Pallets: []string{"Nope"}},
		},
		{
			name: "override for pallet outside the set",
			req: generation.Request{
				Name:      "c",
				Pallets:   []string{"X"},
				Overrides: resolve.Overrides{"Nope": {"p1": {}}},
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)
			tasks := &fakeTasks{}
			svc := newService(t, tasks, generation.Options{})

			id, err := svc.SubmitGeneration(ctx, tc.req)
			var unknown *resolve.UnknownModuleError
			require.ErrorAs(t, err, &unknown)
			assert.True(t, unknown.Has("Nope"))
			assert.Empty(t, id)
			assert.Zero(t, tasks.count())
		})
	}
}

func TestSubmitGeneration_StrictOverrides(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	tasks := &fakeTasks{}
	svc := newService(t, tasks, generation.Options{Overrides: resolve.OverrideOptions{Strict: true}})

	mult := int64(3)
	_, err := svc.SubmitGeneration(ctx, generation.Request{
		Name:      "strict",
		Pallets:   []string{"Y"},
		Overrides: resolve.Overrides{"Y": {"p2": {Multiplier: &mult}}},
	})
	var invalid *resolve.InvalidOverrideError
	require.ErrorAs(t, err, &invalid)
	assert.Zero(t, tasks.count())
}

func TestWait(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	tasks := &fakeTasks{polls: []taskstore.Task{
		{ID: "t", Status: taskstore.StatusPending},
		{ID: "t", Status: taskstore.StatusPending},
		{ID: "t", Status: taskstore.StatusFinished, Location: "file:///tmp/t.zip"},
	}}
	svc := newService(t, tasks, generation.Options{})

	task, err := svc.Wait(ctx, "t", time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, taskstore.StatusFinished, task.Status)
	assert.Equal(t, "file:///tmp/t.zip", task.Location)
}

func TestWait_ContextDone(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	tasks := &fakeTasks{polls: []taskstore.Task{{ID: "t", Status: taskstore.StatusPending}}}
	svc := newService(t, tasks, generation.Options{})

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	task, err := svc.Wait(ctx, "t", time.Millisecond)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, taskstore.StatusPending, task.Status)
}

func TestPollStatus_Unknown(t *testing.T) {
	t.Parallel()
	ctx, _ := testutil.Context(t)
	svc := newService(t, &fakeTasks{}, generation.Options{})

	_, err := svc.PollStatus(ctx, "missing")
	require.ErrorIs(t, err, taskstore.ErrNotFound)
}
