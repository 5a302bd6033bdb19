// Copyright (c) 2020 Shivaram Lingamneni
// Copyright (c) 2026 The Minircd Contributors
// released under the MIT license

package utils

type empty struct{}

// HashSet is a set of comparable values; the server keeps its clients in one.
type HashSet[T comparable] map[T]empty

func (s HashSet[T]) Has(elem T) bool {
	_, ok := s[elem]
	return ok
}

func (s HashSet[T]) Add(elem T) {
	s[elem] = empty{}
}

func (s HashSet[T]) Remove(elem T) {
	delete(s, elem)
}
