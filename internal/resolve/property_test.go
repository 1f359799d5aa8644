package resolve_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/specialistvlad/palletforge/internal/catalogue"
	"github.com/specialistvlad/palletforge/internal/model"
	"github.com/specialistvlad/palletforge/internal/resolve"
)

const (
	propertyCatalogueSize = 9
	propertyUnknownNames  = 3
)

// propertyCatalogue builds P0..P8 where Pi requires every Pj with j < i and
// j ≡ i (mod 3), i.e. each required list is already its full closure. P8 is
// essential everywhere, P4 only for "parachain".
func propertyCatalogue() *catalogue.Catalogue {
	cat := catalogue.New()
	for i := 0; i < propertyCatalogueSize; i++ {
		p := &model.Pallet{Name: fmt.Sprintf("P%d", i)}
		for j := i % 3; j < i; j += 3 {
			p.Dependencies.Required = append(p.Dependencies.Required, fmt.Sprintf("P%d", j))
		}
		switch i {
		case 8:
			p.Metadata.EssentialFor = []string{model.AnyTarget}
		case 4:
			p.Metadata.EssentialFor = []string{"parachain"}
		}
		if err := cat.Add(p); err != nil {
			panic(err)
		}
	}
	return cat
}

func namesFromIndexes(idx []int) []string {
	names := make([]string, len(idx))
	for i, n := range idx {
		if n < propertyCatalogueSize {
			names[i] = fmt.Sprintf("P%d", n)
		} else {
			names[i] = fmt.Sprintf("Unknown%d", n)
		}
	}
	return names
}

func TestResolveProperties(t *testing.T) {
	cat := propertyCatalogue()
	ctx := context.Background()
	targets := gen.OneConstOf("solochain", "parachain")
	requests := gen.SliceOf(gen.IntRange(0, propertyCatalogueSize+propertyUnknownNames-1))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unknown names fail with every absent name reported", prop.ForAll(
		func(idx []int, target string) bool {
			requested := namesFromIndexes(idx)
			_, err := resolve.Resolve(ctx, cat, requested, target)

			var absent []string
			for _, n := range requested {
				if _, ok := cat.Get(n); !ok {
					absent = append(absent, n)
				}
			}
			if len(absent) == 0 {
				return err == nil
			}

			var unknown *resolve.UnknownModuleError
			if !errors.As(err, &unknown) {
				return false
			}
			for _, n := range absent {
				if !unknown.Has(n) {
					return false
				}
			}
			return true
		},
		requests, targets,
	))

	properties.Property("result is a closed superset of the request within the catalogue", prop.ForAll(
		func(idx []int, target string) bool {
			known := idx[:0:0]
			for _, n := range idx {
				if n < propertyCatalogueSize {
					known = append(known, n)
				}
			}
			requested := namesFromIndexes(known)

			set, err := resolve.Resolve(ctx, cat, requested, target)
			if err != nil {
				return false
			}
			for _, n := range requested {
				if !set.Has(n) {
					return false
				}
			}
			for _, p := range set.Pallets() {
				if _, ok := cat.Get(p.Name); !ok {
					return false
				}
				for _, req := range p.Dependencies.Required {
					if !set.Has(req) {
						return false
					}
				}
			}
			for _, n := range cat.Essential(target) {
				if !set.Has(n) {
					return false
				}
			}
			return true
		},
		requests, targets,
	))

	properties.TestingRun(t)
}
