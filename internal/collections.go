package internal

import (
	"github.com/schemahub/console"
)

// refSet is an ordered collection of content records keyed by id. Insertion
// order is preserved so delta projections are deterministic; lookups, adds and
// removals are O(1).
type refSet struct {
	order []uint64
	items map[uint64]console.Content
}

func newRefSet() *refSet {
	return &refSet{items: make(map[uint64]console.Content)}
}

// Add inserts an item keyed by its id. Duplicate ids are a no-op.
func (s *refSet) Add(item console.Content) bool {
	id := item.ID()
	if id == 0 {
		return false
	}
	if _, exists := s.items[id]; exists {
		return false
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return true
}

// Remove deletes the item with the given id. Unknown ids are a no-op.
func (s *refSet) Remove(id uint64) bool {
	if _, exists := s.items[id]; !exists {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains checks whether an item with the given id exists.
func (s *refSet) Contains(id uint64) bool {
	_, exists := s.items[id]
	return exists
}

// Len returns the number of items.
func (s *refSet) Len() int {
	return len(s.items)
}

// Clear removes all items.
func (s *refSet) Clear() {
	s.order = s.order[:0]
	s.items = make(map[uint64]console.Content)
}

// ReplaceWith resets the set to hold only the given item.
func (s *refSet) ReplaceWith(item console.Content) {
	s.Clear()
	s.Add(item)
}

// Items returns the records in insertion order.
func (s *refSet) Items() []console.Content {
	out := make([]console.Content, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Refs returns the id references in insertion order.
func (s *refSet) Refs() []console.ContentRef {
	out := make([]console.ContentRef, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, console.ContentRef{ID: id})
	}
	return out
}

// First returns the first item in insertion order, or nil when empty.
func (s *refSet) First() console.Content {
	if len(s.order) == 0 {
		return nil
	}
	return s.items[s.order[0]]
}
