package placement

import (
	"cargo-fleet-service/internal/domain"
	"fmt"
)

// Registry is the ordered set of cargo items placed in one vehicle.
type Registry struct {
	items []*domain.CargoItem
	index map[string]int
}

func NewRegistry(items ...*domain.CargoItem) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(items))}
	for _, it := range items {
		if err := r.Add(it); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add appends a copy of item to the registry.
func (r *Registry) Add(item *domain.CargoItem) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("registry add: item id is required: %w", domain.ErrInvalid)
	}
	if _, ok := r.index[item.ID]; ok {
		return fmt.Errorf("registry add: cargo %q already placed: %w", item.ID, domain.ErrConflict)
	}

	r.index[item.ID] = len(r.items)
	r.items = append(r.items, item.Clone())
	return nil
}

func (r *Registry) Remove(id string) error {
	i, ok := r.index[id]
	if !ok {
		return fmt.Errorf("registry remove: cargo %q: %w", id, domain.ErrNotFound)
	}

	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.items); j++ {
		r.index[r.items[j].ID] = j
	}
	return nil
}

// Replace swaps in a copy of item, keeping its place in the order.
func (r *Registry) Replace(item *domain.CargoItem) error {
	i, ok := r.index[item.ID]
	if !ok {
		return fmt.Errorf("registry replace: cargo %q: %w", item.ID, domain.ErrNotFound)
	}
	r.items[i] = item.Clone()
	return nil
}

// Get returns a copy of the item.
func (r *Registry) Get(id string) (*domain.CargoItem, error) {
	it, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return it.Clone(), nil
}

func (r *Registry) lookup(id string) (*domain.CargoItem, error) {
	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("registry: cargo %q: %w", id, domain.ErrNotFound)
	}
	return r.items[i], nil
}

// Items returns copies of all items in insertion order.
func (r *Registry) Items() []*domain.CargoItem {
	out := make([]*domain.CargoItem, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it.Clone())
	}
	return out
}

func (r *Registry) Len() int { return len(r.items) }

func (r *Registry) Reset() {
	r.items = nil
	r.index = make(map[string]int)
}

func (r *Registry) SetPosition(id string, p domain.Position) error {
	it, err := r.lookup(id)
	if err != nil {
		return err
	}
	it.Position = p
	return nil
}

func (r *Registry) SetRotation(id string, deg int) error {
	it, err := r.lookup(id)
	if err != nil {
		return err
	}
	it.Rotation = domain.NormalizeRotation(deg)
	return nil
}

// each iterates over the live items without copying.
func (r *Registry) each(fn func(*domain.CargoItem) bool) {
	for _, it := range r.items {
		if !fn(it) {
			return
		}
	}
}
