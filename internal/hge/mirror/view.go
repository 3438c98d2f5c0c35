package mirror

import "iter"

// Table is a read-only view over keyed mirror content.
type Table[K comparable, V any] struct {
	m map[K]V
}

// NewTable wraps m. The caller must not mutate m afterwards.
func NewTable[K comparable, V any](m map[K]V) Table[K, V] {
	return Table[K, V]{m: m}
}

// Get returns the value stored under key.
func (t Table[K, V]) Get(key K) (V, bool) {
	v, ok := t.m[key]
	return v, ok
}

// Has reports whether key is present.
func (t Table[K, V]) Has(key K) bool {
	_, ok := t.m[key]
	return ok
}

// Len returns the number of entries.
func (t Table[K, V]) Len() int {
	return len(t.m)
}

// All iterates over every entry in unspecified order.
func (t Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, v := range t.m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// List is a read-only view over sequential mirror content.
type List[T any] struct {
	items []T
}

// NewList wraps items. The caller must not mutate items afterwards.
func NewList[T any](items []T) List[T] {
	return List[T]{items: items}
}

// At returns the i-th element.
func (l List[T]) At(i int) T {
	return l.items[i]
}

// Len returns the number of elements.
func (l List[T]) Len() int {
	return len(l.items)
}

// All iterates over the elements in order.
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
