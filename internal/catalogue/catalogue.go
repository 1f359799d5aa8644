package catalogue

import (
	"fmt"

	"github.com/specialistvlad/palletforge/internal/model"
)

// Catalogue is an ordered, name-keyed collection of pallet definitions.
type Catalogue struct {
	order   []string
	pallets map[string]*model.Pallet
}

// New creates an empty Catalogue.
func New() *Catalogue {
	return &Catalogue{
		pallets: make(map[string]*model.Pallet),
	}
}

// Add appends a pallet. Names must be unique.
func (c *Catalogue) Add(p *model.Pallet) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("pallet must have a name")
	}
	if existing, exists := c.pallets[p.Name]; exists {
		return fmt.Errorf("pallet '%s' already defined in %s", p.Name, sourceOf(existing))
	}
	c.pallets[p.Name] = p
	c.order = append(c.order, p.Name)
	return nil
}

// Get returns the pallet with the given name.
func (c *Catalogue) Get(name string) (*model.Pallet, bool) {
	p, ok := c.pallets[name]
	return p, ok
}

// Names returns every pallet name in catalogue order.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of pallets.
func (c *Catalogue) Len() int {
	return len(c.order)
}

// Essential returns, in catalogue order, the names of pallets that are always
// included when generating for target.
func (c *Catalogue) Essential(target string) []string {
	var names []string
	for _, name := range c.order {
		if c.pallets[name].Metadata.IsEssentialFor(target) {
			names = append(names, name)
		}
	}
	return names
}

func sourceOf(p *model.Pallet) string {
	if p.FSInformation == nil || p.FSInformation.FilePath == "" {
		return "<unknown>"
	}
	return p.FSInformation.FilePath
}
