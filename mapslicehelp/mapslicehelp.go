package mapslicehelp

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// LastElement returns a pointer to the last element, or nil for an empty slice.
func LastElement[T any](elements []T) *T {
	length := len(elements)
	if length > 0 {
		return &elements[length-1]
	}
	return nil
}

func AsKeys[T comparable](elements []T) map[T]struct{} {
	mapped := make(map[T]struct{}, len(elements))
	for _, element := range elements {
		mapped[element] = struct{}{}
	}
	return mapped
}

// OrderedMapKeys lists the keys oldest first.
func OrderedMapKeys[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []K {
	l := make([]K, m.Len())
	i := 0
	for p := m.Oldest(); p != nil; p = p.Next() {
		l[i] = p.Key
		i++
	}
	return l
}

// OrderedMapValues lists the values oldest first.
func OrderedMapValues[K comparable, V any](m *orderedmap.OrderedMap[K, V]) []V {
	l := make([]V, 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		l = append(l, p.Value)
	}
	return l
}
