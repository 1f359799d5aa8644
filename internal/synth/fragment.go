package synth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/palletforge/internal/model"
)

// Fragments is the per-pallet text both strategies insert into a project.
type Fragments struct {
	Pallet string
	// Ident is the snake-cased crate path, e.g. "pallet_balances".
	Ident string
	// Crates holds the manifest key of each crate: the pallet's own package
	// first, then its additional dependencies. Dependencies and Features are
	// parallel to it.
	Crates []string
	// Dependencies holds one manifest line per crate.
	Dependencies []string
	// Features holds the matching `"<crate>/std",` lines.
	Features         []string
	ParameterLines   []string
	Impl             string
	Registration     *model.Registration
	Imports          []string
	ChainSpecImports []string
	RuntimeAPI       string
	Genesis          *model.Genesis
}

// NewFragments validates p and renders its fragments.
func NewFragments(p *model.Pallet) (*Fragments, error) {
	if err := validatePallet(p); err != nil {
		return nil, &Error{Pallet: p.Name, Err: err}
	}

	f := &Fragments{
		Pallet:           p.Name,
		Ident:            p.Ident(),
		Registration:     p.Runtime.Registration,
		Imports:          p.Runtime.Imports,
		ChainSpecImports: p.Runtime.ChainSpecImports,
		RuntimeAPI:       strings.TrimSpace(p.Runtime.RuntimeAPI),
		Genesis:          p.Runtime.Genesis,
	}

	crates := append([]model.Coordinates{p.Dependencies.Package}, p.Dependencies.Additional...)
	for _, c := range crates {
		f.Crates = append(f.Crates, c.CrateAlias())
		f.Dependencies = append(f.Dependencies, DependencyLine(c))
		f.Features = append(f.Features, FeatureLine(c))
	}
	for _, param := range p.Runtime.Parameters {
		f.ParameterLines = append(f.ParameterLines, param.Line())
	}
	f.Impl = ImplBlock(f.Ident, p.Runtime.Bindings, f.ParameterLines, p.Runtime.AdditionalImpl)
	return f, nil
}

func validatePallet(p *model.Pallet) error {
	var errs []error
	if p.Dependencies.Package.Name == "" {
		errs = append(errs, errors.New("dependency package name is empty"))
	}
	for _, b := range p.Runtime.Bindings {
		if b.Trait == "" || b.Type == "" {
			errs = append(errs, fmt.Errorf("binding %q = %q is incomplete", b.Trait, b.Type))
		}
	}
	for _, param := range p.Runtime.Parameters {
		if param.Type == "" {
			errs = append(errs, fmt.Errorf("parameter '%s' has no type", param.Name))
		}
	}
	if reg := p.Runtime.Registration; reg != nil && (reg.Symbol == "" || reg.TypeExpr == "") {
		errs = append(errs, errors.New("registration needs both a symbol and a type"))
	}
	if g := p.Runtime.Genesis; g != nil && g.Field == "" {
		errs = append(errs, errors.New("genesis fragment has no field name"))
	}
	return errors.Join(errs...)
}

// ImplMarker is the header of the trait implementation for a crate. Its
// presence in a runtime source means the pallet is already wired.
func ImplMarker(ident string) string {
	return "impl " + ident + "::Config for Runtime"
}

// ImplBlock renders the optional parameter_types! block, the Config
// implementation and any additional impl code.
func ImplBlock(ident string, bindings []model.Binding, parameterLines []string, additional string) string {
	var b strings.Builder
	if len(parameterLines) > 0 {
		b.WriteString("parameter_types! {\n")
		for _, l := range parameterLines {
			b.WriteString("\t" + l + "\n")
		}
		b.WriteString("}\n\n")
	}
	b.WriteString(ImplMarker(ident) + " {\n")
	for _, binding := range bindings {
		fmt.Fprintf(&b, "\ttype %s = %s;\n", binding.Trait, binding.Type)
	}
	b.WriteString("}\n")
	if additional = strings.TrimSpace(additional); additional != "" {
		b.WriteString("\n" + additional + "\n")
	}
	return b.String()
}

// DependencyLine renders an inline manifest dependency, e.g.
// `pallet-balances = { git = "...", tag = "...", default-features = false }`.
func DependencyLine(c model.Coordinates) string {
	var fields []string
	if c.Alias != "" && c.Alias != c.Name {
		fields = append(fields, "package = "+strconv.Quote(c.Name))
	}
	if c.Git != "" {
		fields = append(fields, "git = "+strconv.Quote(c.Git))
	}
	if c.Tag != "" {
		fields = append(fields, "tag = "+strconv.Quote(c.Tag))
	}
	if c.Branch != "" {
		fields = append(fields, "branch = "+strconv.Quote(c.Branch))
	}
	if c.Version != "" {
		fields = append(fields, "version = "+strconv.Quote(c.Version))
	}
	fields = append(fields, "default-features = "+strconv.FormatBool(c.DefaultFeatures))
	if len(c.Features) > 0 {
		quoted := make([]string, len(c.Features))
		for i, f := range c.Features {
			quoted[i] = strconv.Quote(f)
		}
		fields = append(fields, "features = ["+strings.Join(quoted, ", ")+"]")
	}
	return c.CrateAlias() + " = { " + strings.Join(fields, ", ") + " }"
}

// FeatureLine renders the std feature entry for a crate.
func FeatureLine(c model.Coordinates) string {
	return strconv.Quote(c.CrateAlias()+"/std") + ","
}

// RegistrationLine renders a construct-runtime registration at slot index.
func RegistrationLine(index int, reg *model.Registration) string {
	return fmt.Sprintf("#[runtime::pallet_index(%d)] pub type %s = %s;", index, reg.Symbol, reg.TypeExpr)
}
