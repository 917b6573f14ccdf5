package bucket

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/dreamware/hdeq/internal/slotlist"
)

// Bucket is a single-lock deque: one mutex guarding one list.
// Every operation holds the mutex for its full duration, so no caller can
// observe a partially updated list. The tail is the left end of the
// sequence and the head is the right end.
type Bucket[T any] struct {
	_     cpu.CacheLinePad
	mu    sync.Mutex        // Guards list
	list  *slotlist.List[T] // Values linked into this bucket
	ID    int               // Position in the owning deque's bucket array
	Stats *OperationStats   // Operation counters, updated atomically
	_     cpu.CacheLinePad
}

// OperationStats tracks operation counts for one bucket.
type OperationStats struct {
	PushHeads uint64 // Values linked at the head
	PushTails uint64 // Values linked at the tail
	PopHeads  uint64 // Values unlinked from the head
	PopTails  uint64 // Values unlinked from the tail
	Empties   uint64 // Pops that found the bucket empty
}

// Stats is a point-in-time view of a bucket.
type Stats struct {
	ID  int            // Bucket index
	Len int            // Values currently linked
	Ops OperationStats // Cumulative operation counts
}

// New creates an empty bucket.
func New[T any](id int) *Bucket[T] {
	return &Bucket[T]{
		ID:    id,
		list:  slotlist.New[T](),
		Stats: &OperationStats{},
	}
}

// PushTail links v as the new tail (left end).
func (b *Bucket[T]) PushTail(v T) {
	b.mu.Lock()
	b.list.PushTail(v)
	b.mu.Unlock()
	atomic.AddUint64(&b.Stats.PushTails, 1)
}

// PushHead links v as the new head (right end).
func (b *Bucket[T]) PushHead(v T) {
	b.mu.Lock()
	b.list.PushHead(v)
	b.mu.Unlock()
	atomic.AddUint64(&b.Stats.PushHeads, 1)
}

// PopTail unlinks and returns the tail value.
// Returns false if the bucket is empty.
func (b *Bucket[T]) PopTail() (T, bool) {
	b.mu.Lock()
	v, ok := b.list.PopTail()
	b.mu.Unlock()
	b.count(ok, &b.Stats.PopTails)
	return v, ok
}

// PopHead unlinks and returns the head value.
// Returns false if the bucket is empty.
func (b *Bucket[T]) PopHead() (T, bool) {
	b.mu.Lock()
	v, ok := b.list.PopHead()
	b.mu.Unlock()
	b.count(ok, &b.Stats.PopHeads)
	return v, ok
}

func (b *Bucket[T]) count(ok bool, hit *uint64) {
	if ok {
		atomic.AddUint64(hit, 1)
		return
	}
	atomic.AddUint64(&b.Stats.Empties, 1)
}

// Len returns the number of linked values.
func (b *Bucket[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list.Len()
}

// Empty reports whether the bucket holds no values.
func (b *Bucket[T]) Empty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list.Empty()
}

// Values returns a head-to-tail copy of the bucket's values.
func (b *Bucket[T]) Values() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.list.Values()
}

// Check verifies the bucket's list invariants.
func (b *Bucket[T]) Check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.list.Check(); err != nil {
		return fmt.Errorf("bucket %d: %w", b.ID, err)
	}
	return nil
}

// GetStats returns current bucket statistics.
func (b *Bucket[T]) GetStats() Stats {
	return Stats{
		ID:  b.ID,
		Len: b.Len(),
		Ops: OperationStats{
			PushHeads: atomic.LoadUint64(&b.Stats.PushHeads),
			PushTails: atomic.LoadUint64(&b.Stats.PushTails),
			PopHeads:  atomic.LoadUint64(&b.Stats.PopHeads),
			PopTails:  atomic.LoadUint64(&b.Stats.PopTails),
			Empties:   atomic.LoadUint64(&b.Stats.Empties),
		},
	}
}
