package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/fsutil"
	"github.com/specialistvlad/palletforge/internal/model"
)

// Load reads every .hcl file under dir into a new Catalogue and validates it.
func Load(ctx context.Context, dir string) (*Catalogue, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pallet catalogue...", "path", dir)

	filePaths, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		logger.Error("Failed to walk catalogue directory", "path", dir, "error", err)
		return nil, &LoadError{Path: dir, Err: err}
	}

	cat := New()
	if len(filePaths) == 0 {
		logger.Warn("No .hcl pallet files found in path", "path", dir)
		return cat, nil
	}

	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, &LoadError{Path: filePath, Err: diags}
		}

		pallets, diags := model.ParsePalletFile(ctx, hclFile, filePath)
		if diags.HasErrors() {
			return nil, &LoadError{Path: filePath, Err: diags}
		}

		for _, p := range pallets {
			if err := cat.Add(p); err != nil {
				return nil, &LoadError{Path: filePath, Err: err}
			}
		}
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath, "pallets", len(pallets))
	}

	if err := cat.Validate(ctx); err != nil {
		return nil, err
	}

	logger.Info("Catalogue loaded successfully.", "pallets_loaded", cat.Len())
	return cat, nil
}

// Validate checks cross-pallet invariants: every required pallet exists and
// every version requirement parses. All violations are reported together.
func (c *Catalogue) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []error

	slots := make(map[int]string)
	for _, name := range c.order {
		p := c.pallets[name]

		for _, req := range p.Dependencies.Required {
			if _, ok := c.pallets[req]; !ok {
				errs = append(errs, &LoadError{Path: sourceOf(p), Err: &NotFoundError{Pallet: name, Required: req}})
			}
		}

		coords := append([]model.Coordinates{p.Dependencies.Package}, p.Dependencies.Additional...)
		for _, co := range coords {
			if err := validatePin(co); err != nil {
				errs = append(errs, &LoadError{Path: sourceOf(p), Err: fmt.Errorf("pallet '%s': %w", name, err)})
			}
		}

		if reg := p.Runtime.Registration; reg != nil {
			if other, taken := slots[reg.Index]; taken {
				logger.Warn("Two pallets declare the same registration index; spliced runtimes will conflict.",
					"index", reg.Index, "pallet", name, "other", other)
			} else {
				slots[reg.Index] = name
			}
		}
	}

	return errors.Join(errs...)
}
