package splice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/model"
	"github.com/specialistvlad/palletforge/internal/splice/anchor"
	"github.com/specialistvlad/palletforge/internal/synth"
)

// Paths locates the edited files relative to the project root.
type Paths struct {
	Runtime   string
	ChainSpec string
	Manifest  string
}

// DefaultPaths is the layout of a node template project.
var DefaultPaths = Paths{
	Runtime:   "runtime/src/lib.rs",
	ChainSpec: "node/src/chain_spec.rs",
	Manifest:  "runtime/Cargo.toml",
}

// DefaultImportFallbackLine is where imports go in a file without a top-level
// `use` line.
const DefaultImportFallbackLine = 1

// Options configures a Splicer. Zero values select the defaults.
type Options struct {
	Paths              Paths
	Policy             synth.Policy
	ImportFallbackLine int
}

// Splicer edits an existing project tree in place. It implements
// synth.Strategy; the returned Output holds the final manifest and runtime.
type Splicer struct {
	root           string
	paths          Paths
	policy         synth.Policy
	importFallback int
}

// New creates a Splicer for the project rooted at root.
func New(root string, opts Options) *Splicer {
	s := &Splicer{
		root:           root,
		paths:          opts.Paths,
		policy:         opts.Policy,
		importFallback: opts.ImportFallbackLine,
	}
	if s.paths.Runtime == "" {
		s.paths.Runtime = DefaultPaths.Runtime
	}
	if s.paths.ChainSpec == "" {
		s.paths.ChainSpec = DefaultPaths.ChainSpec
	}
	if s.paths.Manifest == "" {
		s.paths.Manifest = DefaultPaths.Manifest
	}
	if s.policy == "" {
		s.policy = synth.PolicyAllOrNothing
	}
	if s.importFallback <= 0 {
		s.importFallback = DefaultImportFallbackLine
	}
	return s
}

// Synthesize implements synth.Strategy.
//
// Under PolicyAllOrNothing the first failing pallet aborts the run and no file
// is written. Under PolicyBestEffort a failing pallet is logged and skipped,
// and the edits of the other pallets are written.
func (s *Splicer) Synthesize(ctx context.Context, pallets []*model.Pallet) (*synth.Output, error) {
	logger := ctxlog.FromContext(ctx).With("project", s.root)
	logger.Debug("Splicing pallets into project.", "pallets", len(pallets), "policy", s.policy)

	t := newTree(s.root)
	var applied []string
	var present, failed int
	for _, p := range pallets {
		ok, err := s.splicePallet(ctxlog.WithLogger(ctx, logger.With("pallet", p.Name)), t, p)
		switch {
		case err != nil:
			if s.policy == synth.PolicyAllOrNothing {
				return nil, err
			}
			failed++
			logger.Error("Skipping pallet that could not be spliced.", "pallet", p.Name, "error", err)
		case ok:
			applied = append(applied, p.Name)
		default:
			present++
		}
	}

	var writeErrs []error
	for _, rel := range t.dirtyPaths() {
		if err := t.write(rel); err != nil {
			ioErr := &IOError{Path: rel, Err: err}
			if s.policy == synth.PolicyAllOrNothing {
				return nil, ioErr
			}
			logger.Error("Failed to write spliced file.", "path", rel, "error", err)
			writeErrs = append(writeErrs, ioErr)
		}
	}

	manifest, err := t.read(s.paths.Manifest)
	if err != nil {
		return nil, &IOError{Path: s.paths.Manifest, Err: err}
	}
	runtime, err := t.read(s.paths.Runtime)
	if err != nil {
		return nil, &IOError{Path: s.paths.Runtime, Err: err}
	}

	logger.Info("✅ Splice finished.", "spliced", len(applied), "already_present", present, "failed", failed)
	return &synth.Output{Manifest: manifest, Runtime: runtime, Applied: applied}, errors.Join(writeErrs...)
}

// splicePallet stages and commits every edit for p. It reports false without
// error when p is already wired into the runtime.
func (s *Splicer) splicePallet(ctx context.Context, t *tree, p *model.Pallet) (bool, error) {
	logger := ctxlog.FromContext(ctx)
	st := t.stage()

	runtime, err := st.get(s.paths.Runtime)
	if err != nil {
		return false, &IOError{Pallet: p.Name, Path: s.paths.Runtime, Err: err}
	}
	if anchor.ContainsCode(runtime, synth.ImplMarker(p.Ident())) {
		logger.Info("Pallet already present, skipping.")
		return false, nil
	}

	f, err := synth.NewFragments(p)
	if err != nil {
		return false, err
	}

	if err := s.editManifest(st, p); err != nil {
		return false, err
	}
	if err := s.editRuntime(st, f); err != nil {
		return false, err
	}
	if f.Genesis != nil || len(f.ChainSpecImports) > 0 {
		if err := s.editChainSpec(st, f); err != nil {
			return false, err
		}
	}

	st.commit()
	logger.Info("✅ Pallet spliced.")
	return true, nil
}

func (s *Splicer) editManifest(st *stage, p *model.Pallet) error {
	rel := s.paths.Manifest
	data, err := st.get(rel)
	if err != nil {
		return &IOError{Pallet: p.Name, Path: rel, Err: err}
	}

	crates := append([]model.Coordinates{p.Dependencies.Package}, p.Dependencies.Additional...)
	for _, c := range crates {
		deps, err := anchor.FindTable(data, "dependencies")
		if err != nil {
			return &IOError{Pallet: p.Name, Path: rel, Err: err}
		}
		if !anchor.HasKey(data, deps, c.CrateAlias()) {
			data = insertLine(data, deps.LastLineEnd(data), synth.DependencyLine(c))
		}

		features, err := anchor.FindTable(data, "features")
		if err != nil {
			return &IOError{Pallet: p.Name, Path: rel, Err: err}
		}
		std, err := anchor.ArrayRegion(data, features, "std")
		if err != nil {
			return &IOError{Pallet: p.Name, Path: rel, Err: err}
		}
		if !bytes.Contains(std.Body(data), []byte(strconv.Quote(c.CrateAlias()+"/std"))) {
			data = anchor.EnsureTrailingCommaTOML(data, std)
			std, err = anchor.ArrayRegion(data, features, "std")
			if err != nil {
				return &IOError{Pallet: p.Name, Path: rel, Err: err}
			}
			data = anchor.InsertBeforeClose(data, std, synth.FeatureLine(c))
		}
	}

	st.set(rel, data)
	return nil
}

func (s *Splicer) editRuntime(st *stage, f *synth.Fragments) error {
	rel := s.paths.Runtime
	data, err := st.get(rel)
	if err != nil {
		return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
	}

	decl, err := anchor.RuntimeRegion(data)
	if err != nil {
		return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
	}
	data = insertLine(data, anchor.LineEnd(data, decl.Outer.Close), "\n"+strings.TrimRight(f.Impl, "\n"))

	if reg := f.Registration; reg != nil {
		decl, err = anchor.RuntimeRegion(data)
		if err != nil {
			return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
		}
		line := synth.RegistrationLine(reg.Index, reg)
		if decl.Macro {
			data = anchor.EnsureTrailingComma(data, decl.Region)
			if decl, err = anchor.RuntimeRegion(data); err != nil {
				return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
			}
			line = fmt.Sprintf("%s: %s = %d,", reg.Symbol, reg.TypeExpr, reg.Index)
		}
		data = anchor.InsertBeforeClose(data, decl.Region, line)
	}

	data = s.insertImports(data, f.Imports)

	if f.RuntimeAPI != "" {
		header, _, _ := strings.Cut(f.RuntimeAPI, "\n")
		if !anchor.ContainsCode(data, strings.TrimSpace(header)) {
			apis, err := anchor.RuntimeAPIRegion(data)
			if err != nil {
				return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
			}
			data = anchor.InsertBeforeClose(data, apis, "\n"+f.RuntimeAPI)
		}
	}

	st.set(rel, data)
	return nil
}

func (s *Splicer) editChainSpec(st *stage, f *synth.Fragments) error {
	rel := s.paths.ChainSpec
	data, err := st.get(rel)
	if err != nil {
		return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
	}

	data = s.insertImports(data, f.ChainSpecImports)

	if g := f.Genesis; g != nil {
		obj, err := anchor.GenesisRegion(data)
		if err != nil {
			return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
		}
		entry := genesisEntry(g)

		if field, exists := anchor.ObjectField(data, obj, g.Field); exists {
			if g.Mode == model.GenesisReplace {
				indent := anchor.LineIndent(data, field.Start)
				data = anchor.Replace(data, field.Start, field.End, indentTail(entry, indent))
			}
		} else {
			data = anchor.EnsureTrailingComma(data, obj)
			if obj, err = anchor.GenesisRegion(data); err != nil {
				return &IOError{Pallet: f.Pallet, Path: rel, Err: err}
			}
			data = anchor.InsertBeforeClose(data, obj, entry)
		}
	}

	st.set(rel, data)
	return nil
}

// insertImports adds the lines not already present, in order, at the import
// point.
func (s *Splicer) insertImports(data []byte, imports []string) []byte {
	var missing []string
	for _, imp := range imports {
		if !anchor.HasLine(data, imp) && !contains(missing, imp) {
			missing = append(missing, strings.TrimSpace(imp))
		}
	}
	if len(missing) == 0 {
		return data
	}
	return insertLine(data, anchor.ImportPoint(data, s.importFallback), strings.Join(missing, "\n"))
}

// genesisEntry renders `"field": { "key": value, ... },` with relative
// indentation.
func genesisEntry(g *model.Genesis) string {
	if len(g.Values) == 0 {
		return strconv.Quote(g.Field) + ": {},"
	}
	var b strings.Builder
	b.WriteString(strconv.Quote(g.Field) + ": {\n")
	for _, v := range g.Values {
		fmt.Fprintf(&b, "\t%s: %s,\n", strconv.Quote(v.Key), v.Value)
	}
	b.WriteString("},")
	return b.String()
}

// indentTail indents every line of text but the first.
func indentTail(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = indent + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// insertLine inserts text followed by a newline at offset at, which must be
// the start of a line or the end of src.
func insertLine(src []byte, at int, text string) []byte {
	if at == len(src) && len(src) > 0 && src[len(src)-1] != '\n' {
		text = "\n" + text
	}
	return anchor.Insert(src, at, text+"\n")
}

func contains(list []string, s string) bool {
	s = strings.TrimSpace(s)
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
