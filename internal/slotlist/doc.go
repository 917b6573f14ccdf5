// Package slotlist implements the list that backs one deque bucket: a
// circular doubly linked list with a sentinel header, whose nodes are slots
// in a growable arena addressed by index.
//
// # Layout
//
//	slots: [ header | s1 | s2 | s3 | ... ]
//	          │  ▲
//	          ▼  │
//	   header.next = head, header.prev = tail
//
// An empty list is the header pointing at itself. PushHead inserts after the
// header and PushTail inserts before it, so a non-empty list is always one
// closed cycle through the header. Popped slots go onto a free list threaded
// through their next field and are reused by later pushes; the arena never
// shrinks.
//
// Values are stored by value and cleared when popped so the arena does not
// pin garbage.
//
// The list does no locking. The bucket package wraps each list in a mutex.
package slotlist
