package synth

import (
	"context"
	"fmt"

	"github.com/specialistvlad/palletforge/internal/model"
)

// Output holds the synthesized manifest and runtime source.
type Output struct {
	Manifest []byte
	Runtime  []byte
	// Applied lists, in order, the pallets whose code this run added. Pallets
	// skipped under PolicyBestEffort or found already present are absent.
	Applied []string
}

// Strategy produces manifest and runtime text from resolved pallets.
type Strategy interface {
	Synthesize(ctx context.Context, pallets []*model.Pallet) (*Output, error)
}

// Policy decides what happens when a single pallet cannot be synthesized.
type Policy string

const (
	// PolicyAllOrNothing fails the whole batch on the first pallet failure.
	PolicyAllOrNothing Policy = "all-or-nothing"
	// PolicyBestEffort logs the failure, skips the pallet and continues.
	PolicyBestEffort Policy = "best-effort"
)

// ParsePolicy converts a configuration string into a Policy. The empty string
// selects PolicyAllOrNothing.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyAllOrNothing:
		return PolicyAllOrNothing, nil
	case PolicyBestEffort:
		return PolicyBestEffort, nil
	default:
		return "", fmt.Errorf("unknown synthesis policy %q (expected %q or %q)", s, PolicyAllOrNothing, PolicyBestEffort)
	}
}
