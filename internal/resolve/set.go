package resolve

import "github.com/specialistvlad/palletforge/internal/model"

// Set is a request-scoped, ordered collection of resolved pallets. It owns its
// pallets: they are clones and may be mutated freely.
type Set struct {
	order   []string
	pallets map[string]*model.Pallet
}

func newSet() *Set {
	return &Set{pallets: make(map[string]*model.Pallet)}
}

func (s *Set) add(p *model.Pallet) {
	if _, exists := s.pallets[p.Name]; exists {
		return
	}
	s.pallets[p.Name] = p
	s.order = append(s.order, p.Name)
}

// NewSet builds a set from the given pallets, in order. Duplicate names keep
// the first occurrence. The pallets are used as-is, not cloned.
func NewSet(pallets ...*model.Pallet) *Set {
	s := newSet()
	for _, p := range pallets {
		s.add(p)
	}
	return s
}

// Names returns the pallet names in catalogue order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the pallet with the given name.
func (s *Set) Get(name string) (*model.Pallet, bool) {
	p, ok := s.pallets[name]
	return p, ok
}

// Has reports whether the set contains name.
func (s *Set) Has(name string) bool {
	_, ok := s.pallets[name]
	return ok
}

// Len returns the number of pallets in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Pallets returns the pallets in catalogue order.
func (s *Set) Pallets() []*model.Pallet {
	out := make([]*model.Pallet, len(s.order))
	for i, name := range s.order {
		out[i] = s.pallets[name]
	}
	return out
}
