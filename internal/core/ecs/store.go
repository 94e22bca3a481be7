package ecs

// OrderedStore maps entity ids to components and remembers insertion order.
// Removal only happens at the front, so the order slice stays dense.
type OrderedStore[T any] struct {
	data  map[EntityID]*T
	order []EntityID
}

func NewOrderedStore[T any]() *OrderedStore[T] {
	return &OrderedStore[T]{
		data:  make(map[EntityID]*T, 16),
		order: make([]EntityID, 0, 16),
	}
}

// PushBack appends id at the tail. An id already present is replaced in place.
func (s *OrderedStore[T]) PushBack(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

// PopFront removes and returns the head entry.
func (s *OrderedStore[T]) PopFront() (EntityID, *T, bool) {
	if len(s.order) == 0 {
		return 0, nil, false
	}
	id := s.order[0]
	c := s.data[id]
	delete(s.data, id)
	s.order = s.order[1:]
	return id, c, true
}

func (s *OrderedStore[T]) Front() (EntityID, *T, bool) {
	if len(s.order) == 0 {
		return 0, nil, false
	}
	id := s.order[0]
	return id, s.data[id], true
}

func (s *OrderedStore[T]) Back() (EntityID, *T, bool) {
	if len(s.order) == 0 {
		return 0, nil, false
	}
	id := s.order[len(s.order)-1]
	return id, s.data[id], true
}

// At returns the i-th entry counted from the head.
func (s *OrderedStore[T]) At(i int) (EntityID, *T, bool) {
	if i < 0 || i >= len(s.order) {
		return 0, nil, false
	}
	id := s.order[i]
	return id, s.data[id], true
}

func (s *OrderedStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *OrderedStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *OrderedStore[T]) Len() int {
	return len(s.order)
}

// IDs returns a copy of the ids, head first.
func (s *OrderedStore[T]) IDs() []EntityID {
	out := make([]EntityID, len(s.order))
	copy(out, s.order)
	return out
}

// Each visits entries head first.
func (s *OrderedStore[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.order {
		fn(id, s.data[id])
	}
}
