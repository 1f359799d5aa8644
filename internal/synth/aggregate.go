package synth

import (
	"context"
	"sort"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/model"
)

// ReservedSlots is the number of construct-runtime slots the runtime template
// assigns itself (System and TransactionPayment). Catalogue pallets are
// numbered from here on.
const ReservedSlots = 2

// DefaultPackageName is the runtime crate name written into the manifest.
const DefaultPackageName = "palletforge-runtime"

// AggregateOptions configures an Aggregate.
type AggregateOptions struct {
	Policy      Policy
	PackageName string
}

// Aggregate renders the manifest and runtime from templates in one pass.
//
// A crate shared by several pallets is declared once, with the coordinates of
// the first pallet that lists it. Registration slots are positional: the n-th registered pallet (0-based) gets
// slot n+ReservedSlots; the index declared in the catalogue is ignored.
type Aggregate struct {
	engine      TemplateEngine
	policy      Policy
	packageName string
}

// NewAggregate creates an Aggregate rendering through engine.
func NewAggregate(engine TemplateEngine, opts AggregateOptions) *Aggregate {
	a := &Aggregate{engine: engine, policy: opts.Policy, packageName: opts.PackageName}
	if a.policy == "" {
		a.policy = PolicyAllOrNothing
	}
	if a.packageName == "" {
		a.packageName = DefaultPackageName
	}
	return a
}

type manifestData struct {
	PackageName  string
	Dependencies []string
	Features     []string
}

type runtimeData struct {
	Imports       []string
	ImplBlocks    []string
	Registrations []string
	RuntimeAPIs   []string
}

// Synthesize implements Strategy.
func (a *Aggregate) Synthesize(ctx context.Context, pallets []*model.Pallet) (*Output, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering aggregate runtime.", "pallets", len(pallets), "policy", a.policy)

	manifest := manifestData{PackageName: a.packageName}
	runtime := runtimeData{}
	var applied []string
	imports := make(map[string]struct{})
	crates := make(map[string]struct{})
	slot := ReservedSlots

	for _, p := range pallets {
		f, err := NewFragments(p)
		if err != nil {
			if a.policy == PolicyAllOrNothing {
				return nil, err
			}
			logger.Warn("Skipping pallet that cannot be synthesized.", "pallet", p.Name, "error", err)
			continue
		}

		for i, crate := range f.Crates {
			if _, seen := crates[crate]; seen {
				logger.Debug("Crate already declared, skipping.", "pallet", p.Name, "crate", crate)
				continue
			}
			crates[crate] = struct{}{}
			manifest.Dependencies = append(manifest.Dependencies, f.Dependencies[i])
			manifest.Features = append(manifest.Features, f.Features[i])
		}

		for _, imp := range f.Imports {
			imports[imp] = struct{}{}
		}
		runtime.ImplBlocks = append(runtime.ImplBlocks, f.Impl)
		if f.Registration != nil {
			runtime.Registrations = append(runtime.Registrations, RegistrationLine(slot, f.Registration))
			slot++
		}
		if f.RuntimeAPI != "" {
			runtime.RuntimeAPIs = append(runtime.RuntimeAPIs, f.RuntimeAPI)
		}
		applied = append(applied, p.Name)
	}

	runtime.Imports = make([]string, 0, len(imports))
	for imp := range imports {
		runtime.Imports = append(runtime.Imports, imp)
	}
	sort.Strings(runtime.Imports)

	manifestOut, err := a.engine.Render(ManifestTemplate, manifest)
	if err != nil {
		return nil, err
	}
	runtimeOut, err := a.engine.Render(RuntimeTemplate, runtime)
	if err != nil {
		return nil, err
	}

	logger.Debug("Aggregate runtime rendered.", "impl_blocks", len(runtime.ImplBlocks), "imports", len(runtime.Imports))
	return &Output{Manifest: manifestOut, Runtime: runtimeOut, Applied: applied}, nil
}
