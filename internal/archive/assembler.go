package archive

import (
	"context"

	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/synth"
)

// DefaultSkipExtension marks template sources in the skeleton; they are not
// shipped.
const DefaultSkipExtension = ".tmpl"

// Default destinations of the synthesized files inside the archive.
const (
	DefaultManifestPath = "runtime/Cargo.toml"
	DefaultRuntimePath  = "runtime/src/lib.rs"
)

// AssemblerOptions configures an Assembler. Zero values select the defaults.
type AssemblerOptions struct {
	SkeletonDir   string
	SkipExtension string
	ManifestPath  string
	RuntimePath   string
}

// Assembler combines the skeleton and a synthesis Output into one archive.
// It performs no per-pallet work.
type Assembler struct {
	archiver Archiver
	opts     AssemblerOptions
}

// NewAssembler creates an Assembler writing through archiver.
func NewAssembler(archiver Archiver, opts AssemblerOptions) *Assembler {
	if opts.SkipExtension == "" {
		opts.SkipExtension = DefaultSkipExtension
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = DefaultManifestPath
	}
	if opts.RuntimePath == "" {
		opts.RuntimePath = DefaultRuntimePath
	}
	return &Assembler{archiver: archiver, opts: opts}
}

// Assemble returns the archive bytes.
func (a *Assembler) Assemble(ctx context.Context, out *synth.Output) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)

	h, err := a.archiver.Open(ctx, a.opts.SkeletonDir, a.opts.SkipExtension)
	if err != nil {
		return nil, err
	}
	if h, err = a.archiver.AddContent(h, out.Manifest, a.opts.ManifestPath); err != nil {
		return nil, err
	}
	if h, err = a.archiver.AddContent(h, out.Runtime, a.opts.RuntimePath); err != nil {
		return nil, err
	}
	entries := h.Entries()

	data, err := a.archiver.Close(h)
	if err != nil {
		return nil, err
	}
	logger.Debug("Archive assembled.", "entries", entries, "bytes", len(data))
	return data, nil
}
