// Package waitlist provides an ordered list of waiting entries, kept sorted
// by a comparison rule supplied at construction.
//
// The list is deliberately a slice rather than a heap: callers need
// positional access (At, RemoveAt) and a deterministic insertion index,
// and the lists in this domain are small enough that linear insertion and
// removal are fine.
package waitlist

// CompareFunc orders two entries. A negative result means a ranks before b,
// zero means they tie, positive means a ranks after b.
type CompareFunc[T any] func(a, b T) int

// List is an ordered sequence of entries sorted by a CompareFunc.
// Entries that compare equal keep their insertion order.
//
// The zero value is not usable; construct with New.
type List[T comparable] struct {
	items []T
	cmp   CompareFunc[T]
}

// New returns an empty List ordered by cmp.
func New[T comparable](cmp CompareFunc[T]) *List[T] {
	return &List[T]{cmp: cmp}
}

// Insert places v at the position dictated by the comparison rule and
// returns the zero-based index it ended up at. The entry starts at the back
// and moves forward only past entries that rank strictly after it, so a new
// entry never jumps ahead of an existing equal-ranked one.
func (l *List[T]) Insert(v T) int {
	l.items = append(l.items, v)
	i := len(l.items) - 1
	for i > 0 && l.cmp(l.items[i-1], l.items[i]) > 0 {
		l.items[i-1], l.items[i] = l.items[i], l.items[i-1]
		i--
	}
	return i
}

// PeekFront returns the highest-ranked entry without removing it.
// The second return is false when the list is empty.
func (l *List[T]) PeekFront() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	return l.items[0], true
}

// PollFront removes and returns the highest-ranked entry.
// The second return is false when the list is empty.
func (l *List[T]) PollFront() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	v := l.items[0]
	copy(l.items, l.items[1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return v, true
}

// At returns the entry at index. The second return is false when index is
// outside the occupied range.
func (l *List[T]) At(index int) (T, bool) {
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[index], true
}

// RemoveAt removes and returns the entry at index, shifting later entries
// forward. The second return is false when index is out of range.
func (l *List[T]) RemoveAt(index int) (T, bool) {
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, false
	}
	v := l.items[index]
	copy(l.items[index:], l.items[index+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return v, true
}

// RemoveAll removes every entry equal (==) to v and returns how many were
// removed. Equality is identity, not rank: two distinct entries may compare
// equal under the ordering rule, and only the one actually asked for goes.
func (l *List[T]) RemoveAll(v T) int {
	removed := 0
	kept := l.items[:0]
	for _, item := range l.items {
		if item == v {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	var zero T
	for i := len(kept); i < len(l.items); i++ {
		l.items[i] = zero
	}
	l.items = kept
	return removed
}

// Len returns the number of entries currently in the list.
func (l *List[T]) Len() int {
	return len(l.items)
}
