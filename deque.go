package hdeq

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/dreamware/hdeq/internal/bucket"
)

// DefaultBuckets is the bucket count used by callers with no better idea.
const DefaultBuckets = 4

var (
	// ErrBucketCount is returned by New when the bucket count is not a
	// positive power of two.
	ErrBucketCount = errors.New("hdeq: bucket count must be a positive power of two")

	// ErrEmpty is returned by surfaces that need an error for a pop that
	// found its bucket empty. Deque itself reports this as a false result.
	ErrEmpty = errors.New("hdeq: empty")
)

// cursor is one end's rotating bucket index and the lock that guards it.
// The leading pad keeps the two cursors and the bucket slice header on
// separate cache lines.
type cursor struct {
	_   cpu.CacheLinePad
	mu  sync.Mutex
	idx int
}

// Deque is a concurrent double-ended queue sharded over a fixed,
// power-of-two number of buckets.
//
// Left and right operations take different cursor locks and usually land
// on different buckets, so they run in parallel. Operations on the same end
// are serialized by that end's cursor lock. A pop looks at exactly one
// bucket, the one its end's cursor predicts, and reports false if that
// bucket is empty even when other buckets hold values.
//
// A Deque must be created with New or MustNew.
type Deque[T any] struct {
	left    cursor
	right   cursor
	_       cpu.CacheLinePad
	mask    int
	buckets []*bucket.Bucket[T]
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// New creates an empty deque with n buckets. n must be a positive power of
// two; anything else returns an error wrapping ErrBucketCount.
//
// The left cursor starts at bucket 0 and the right cursor one bucket to its
// right, so light left and right traffic lands on different buckets.
func New[T any](n int) (*Deque[T], error) {
	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("new deque with %d buckets: %w", n, ErrBucketCount)
	}

	d := &Deque[T]{
		mask:    n - 1,
		buckets: make([]*bucket.Bucket[T], n),
	}
	for i := range d.buckets {
		d.buckets[i] = bucket.New[T](i)
	}
	d.resetCursors()
	return d, nil
}

// MustNew is like New but panics if n is not a positive power of two.
func MustNew[T any](n int) *Deque[T] {
	d, err := New[T](n)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Deque[T]) resetCursors() {
	d.left.idx = 0
	d.right.idx = 1 & d.mask
}

func (d *Deque[T]) moveLeft(idx int) int  { return (idx - 1) & d.mask }
func (d *Deque[T]) moveRight(idx int) int { return (idx + 1) & d.mask }

// PushLeft adds v at the left end. It pushes onto the tail of the left
// cursor's bucket and then moves the cursor one bucket left.
func (d *Deque[T]) PushLeft(v T) {
	d.left.mu.Lock()
	i := d.left.idx
	d.buckets[i].PushTail(v)
	d.left.idx = d.moveLeft(i)
	d.left.mu.Unlock()
}

// PopLeft removes and returns the leftmost value. It tries the bucket just
// right of the left cursor and moves the cursor there only on success.
// Returns false if that bucket is empty.
func (d *Deque[T]) PopLeft() (T, bool) {
	d.left.mu.Lock()
	i := d.moveRight(d.left.idx)
	v, ok := d.buckets[i].PopTail()
	if ok {
		d.left.idx = i
	}
	d.left.mu.Unlock()
	return v, ok
}

// PushRight adds v at the right end. It pushes onto the head of the right
// cursor's bucket and then moves the cursor one bucket right.
func (d *Deque[T]) PushRight(v T) {
	d.right.mu.Lock()
	i := d.right.idx
	d.buckets[i].PushHead(v)
	d.right.idx = d.moveRight(i)
	d.right.mu.Unlock()
}

// PopRight removes and returns the rightmost value. It tries the bucket
// just left of the right cursor and moves the cursor there only on
// success. Returns false if that bucket is empty.
func (d *Deque[T]) PopRight() (T, bool) {
	d.right.mu.Lock()
	i := d.moveLeft(d.right.idx)
	v, ok := d.buckets[i].PopHead()
	if ok {
		d.right.idx = i
	}
	d.right.mu.Unlock()
	return v, ok
}

// Buckets returns the number of buckets.
func (d *Deque[T]) Buckets() int { return len(d.buckets) }

// Len returns the number of values held across all buckets. Buckets are
// counted one at a time, so the result is exact only when the deque is
// quiescent.
func (d *Deque[T]) Len() int {
	n := 0
	for _, b := range d.buckets {
		n += b.Len()
	}
	return n
}

// Drain removes and returns every value, leftmost first, and puts both
// cursors back in their initial positions.
//
// Drain holds both cursor locks, taking the left one first, so it must not
// be called from code that already holds either. Values the cursors can no
// longer reach are swept from each bucket in index order after the regular
// left-end pops run dry.
func (d *Deque[T]) Drain() []T {
	d.left.mu.Lock()
	defer d.left.mu.Unlock()
	d.right.mu.Lock()
	defer d.right.mu.Unlock()

	var out []T
	for {
		i := d.moveRight(d.left.idx)
		v, ok := d.buckets[i].PopTail()
		if !ok {
			break
		}
		d.left.idx = i
		out = append(out, v)
	}
	for _, b := range d.buckets {
		if b.Empty() {
			continue
		}
		for {
			v, ok := b.PopTail()
			if !ok {
				break
			}
			out = append(out, v)
		}
	}

	d.resetCursors()
	return out
}

// Check verifies every bucket's list and both cursor ranges. It takes each
// lock in turn and never two cursor locks at once, so it is safe to call
// concurrently, but a clean result is only meaningful on a quiescent deque.
func (d *Deque[T]) Check() error {
	for _, b := range d.buckets {
		if err := b.Check(); err != nil {
			return err
		}
	}

	left, right := d.cursors()
	if left < 0 || left > d.mask {
		return fmt.Errorf("hdeq: left cursor %d outside [0, %d)", left, len(d.buckets))
	}
	if right < 0 || right > d.mask {
		return fmt.Errorf("hdeq: right cursor %d outside [0, %d)", right, len(d.buckets))
	}
	return nil
}

func (d *Deque[T]) cursors() (left, right int) {
	d.left.mu.Lock()
	left = d.left.idx
	d.left.mu.Unlock()

	d.right.mu.Lock()
	right = d.right.idx
	d.right.mu.Unlock()
	return left, right
}
