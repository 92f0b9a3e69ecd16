package paging

import (
	"cmp"
	"slices"
	"time"
)

// Comparator orders two values; negative means a sorts before b.
type Comparator[T any] func(a, b T) int

// SortKeys maps a sort property path to its comparator. Keys stand in for
// reflective property lookup: a caller lists exactly the paths it can sort by.
type SortKeys[T any] map[string]Comparator[T]

// By compares the value returned by key. A nil pointer is a null and sorts before any value.
func By[T any, K cmp.Ordered](key func(T) *K) Comparator[T] {
	return func(a, b T) int {
		return compareNullable(key(a), key(b), cmp.Compare[K])
	}
}

// ByTime is By for timestamps.
func ByTime[T any](key func(T) *time.Time) Comparator[T] {
	return func(a, b T) int {
		return compareNullable(key(a), key(b), func(x, y time.Time) int { return x.Compare(y) })
	}
}

// ByString compares a string field that can never be null.
func ByString[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

func compareNullable[K any](a, b *K, compare func(K, K) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compare(*a, *b)
	}
}

// Comparator builds the combined comparator for orders. Descending orders reverse the key
// comparator, so nulls come first ascending and last descending.
func (k SortKeys[T]) Comparator(orders []Order) (Comparator[T], error) {
	cmps := make([]Comparator[T], 0, len(orders))
	for _, o := range orders {
		c, ok := k[o.Property]
		if !ok {
			return nil, NewUnknownSortingProperty(o.Property)
		}
		if o.Direction == Desc {
			asc := c
			c = func(a, b T) int { return -asc(a, b) }
		}
		cmps = append(cmps, c)
	}
	return func(a, b T) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}, nil
}

// Paged sorts a copy of items by req.Sort and returns the requested slice.
func Paged[T any](items []T, req Request, keys SortKeys[T]) (Page[T], error) {
	sorted := slices.Clone(items)
	if len(req.Sort) > 0 {
		c, err := keys.Comparator(req.Sort)
		if err != nil {
			return Page[T]{}, err
		}
		slices.SortStableFunc(sorted, c)
	}

	total := int64(len(sorted))
	start := req.Offset()
	if start > total {
		start = total
	}
	end := total
	if req.Size > 0 && start+int64(req.Size) < total {
		end = start + int64(req.Size)
	}
	return New(sorted[start:end], req, total), nil
}
