package slotlist

import (
	"errors"
	"fmt"
	"math"
)

// ErrCorrupt is returned by Check when the list's links no longer form a
// single cycle through the header slot.
var ErrCorrupt = errors.New("slotlist: corrupt list")

// Handle identifies one occupied slot in a List.
// Handles are stable for as long as the value stays linked.
type Handle uint32

// header is the sentinel slot. An empty list is one whose header links
// point back at itself.
const header Handle = 0

// minSlots is the arena capacity a new or emptied list starts from.
const minSlots = 8

type slot[T any] struct {
	val        T
	prev, next Handle
	used       bool
}

// List is a circular doubly linked list whose nodes live in a growable
// slot arena and are linked by index rather than by pointer.
// List is not safe for concurrent use; callers provide their own locking.
type List[T any] struct {
	slots []slot[T] // slots[0] is the header
	free  Handle    // head of the free list threaded through next, 0 if none
	size  int       // number of linked values
}

// New creates an empty list.
func New[T any]() *List[T] {
	return &List[T]{
		slots: make([]slot[T], 1, minSlots),
	}
}

// Len returns the number of linked values.
func (l *List[T]) Len() int { return l.size }

// Cap returns the number of slots allocated in the arena, linked or free.
func (l *List[T]) Cap() int { return len(l.slots) - 1 }

// Empty reports whether the list holds no values.
func (l *List[T]) Empty() bool { return l.slots[header].next == header }

// PushHead links v directly after the header, making it the new head.
func (l *List[T]) PushHead(v T) Handle {
	h := l.alloc(v)
	l.link(h, header, l.slots[header].next)
	return h
}

// PushTail links v directly before the header, making it the new tail.
func (l *List[T]) PushTail(v T) Handle {
	h := l.alloc(v)
	l.link(h, l.slots[header].prev, header)
	return h
}

// Head returns the handle of the head value, or false if the list is empty.
func (l *List[T]) Head() (Handle, bool) {
	h := l.slots[header].next
	return h, h != header
}

// Tail returns the handle of the tail value, or false if the list is empty.
func (l *List[T]) Tail() (Handle, bool) {
	h := l.slots[header].prev
	return h, h != header
}

// PopHead unlinks and returns the head value.
func (l *List[T]) PopHead() (T, bool) {
	h, ok := l.Head()
	if !ok {
		var zero T
		return zero, false
	}
	return l.Remove(h)
}

// PopTail unlinks and returns the tail value.
func (l *List[T]) PopTail() (T, bool) {
	h, ok := l.Tail()
	if !ok {
		var zero T
		return zero, false
	}
	return l.Remove(h)
}

// Remove unlinks the value identified by h in O(1) and returns it.
// The slot is cleared and recycled, so h must not be used again.
// Removing the last value releases the arena back to its initial size.
// Returns false if h does not name a linked value.
func (l *List[T]) Remove(h Handle) (T, bool) {
	var zero T
	if h == header || int(h) >= len(l.slots) || !l.slots[h].used {
		return zero, false
	}

	s := &l.slots[h]
	l.slots[s.prev].next = s.next
	l.slots[s.next].prev = s.prev

	v := s.val
	s.val = zero
	s.used = false
	s.prev = h
	s.next = l.free
	l.free = h
	l.size--
	if l.size == 0 {
		l.reset()
	}
	return v, true
}

// reset returns an empty list to its freshly created state. An arena that
// grew past minSlots is replaced so its backing array can be collected.
func (l *List[T]) reset() {
	if cap(l.slots) > minSlots {
		l.slots = make([]slot[T], 1, minSlots)
	} else {
		clear(l.slots)
		l.slots = l.slots[:1]
	}
	l.free = header
}

// Values returns a copy of the linked values in head-to-tail order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for h := l.slots[header].next; h != header; h = l.slots[h].next {
		out = append(out, l.slots[h].val)
	}
	return out
}

// Check walks the list from head to tail, verifying each back link, and
// confirms the links form one closed cycle through the header covering
// exactly Len values.
func (l *List[T]) Check() error {
	n := 0
	prev := header
	for h := l.slots[header].next; h != header; h = l.slots[h].next {
		if int(h) >= len(l.slots) || !l.slots[h].used {
			return fmt.Errorf("%w: forward link to free slot %d", ErrCorrupt, h)
		}
		if l.slots[h].prev != prev {
			return fmt.Errorf("%w: slot %d has prev %d, want %d", ErrCorrupt, h, l.slots[h].prev, prev)
		}
		prev = h
		n++
		if n > l.size {
			return fmt.Errorf("%w: more than %d values linked", ErrCorrupt, l.size)
		}
	}
	if l.slots[header].prev != prev {
		return fmt.Errorf("%w: header prev is %d, want %d", ErrCorrupt, l.slots[header].prev, prev)
	}
	if n != l.size {
		return fmt.Errorf("%w: walked %d values, size is %d", ErrCorrupt, n, l.size)
	}
	return nil
}

// alloc takes a slot from the free list, growing the arena when none is left.
func (l *List[T]) alloc(v T) Handle {
	var h Handle
	if l.free != header {
		h = l.free
		l.free = l.slots[h].next
	} else {
		if uint64(len(l.slots)) > math.MaxUint32 {
			panic("slotlist: arena exhausted")
		}
		l.slots = append(l.slots, slot[T]{})
		h = Handle(len(l.slots) - 1)
	}
	l.slots[h].val = v
	l.slots[h].used = true
	l.size++
	return h
}

// link threads h between prev and next, which must be adjacent.
func (l *List[T]) link(h, prev, next Handle) {
	l.slots[h].prev = prev
	l.slots[h].next = next
	l.slots[prev].next = h
	l.slots[next].prev = h
}
