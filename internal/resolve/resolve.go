package resolve

import (
	"context"

	"github.com/specialistvlad/palletforge/internal/catalogue"
	"github.com/specialistvlad/palletforge/internal/ctxlog"
	"github.com/specialistvlad/palletforge/internal/model"
)

// Resolve expands requested into the full set of pallets to generate for
// target.
//
// Every requested name must exist in the catalogue; all absent names are
// reported together in an *UnknownModuleError. Required pallets are expanded
// in a single pass: catalogue authors list each pallet's full closure, so
// requirements of requirements are not followed. Pallets essential for target
// are always added together with their required pallets. The result contains
// clones, in catalogue order.
func Resolve(ctx context.Context, cat *catalogue.Catalogue, requested []string, target string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving pallet set.", "requested", requested, "target", target)

	var unknown []string
	seenUnknown := make(map[string]struct{})
	include := make(map[string]struct{})

	for _, name := range requested {
		p, ok := cat.Get(name)
		if !ok {
			if _, dup := seenUnknown[name]; !dup {
				seenUnknown[name] = struct{}{}
				unknown = append(unknown, name)
			}
			continue
		}
		if err := includeWithRequired(cat, include, p); err != nil {
			return nil, err
		}
	}
	if len(unknown) > 0 {
		return nil, &UnknownModuleError{Names: unknown}
	}

	for _, name := range cat.Essential(target) {
		p, _ := cat.Get(name)
		if err := includeWithRequired(cat, include, p); err != nil {
			return nil, err
		}
	}

	set := newSet()
	for _, name := range cat.Names() {
		if _, ok := include[name]; !ok {
			continue
		}
		p, _ := cat.Get(name)
		set.add(p.Clone())
	}

	logger.Debug("Pallet set resolved.", "pallets", set.Names())
	return set, nil
}

// includeWithRequired marks p and the pallets it requires.
func includeWithRequired(cat *catalogue.Catalogue, include map[string]struct{}, p *model.Pallet) error {
	include[p.Name] = struct{}{}
	for _, req := range p.Dependencies.Required {
		if _, ok := cat.Get(req); !ok {
			return &catalogue.NotFoundError{Pallet: p.Name, Required: req}
		}
		include[req] = struct{}{}
	}
	return nil
}
