// Package hdeq provides a lock-based hashed double-ended queue: a deque
// whose values are spread over a fixed number of independently locked
// buckets so that pushes and pops at the two ends rarely contend.
//
// # Overview
//
// A Deque owns N buckets, N a power of two fixed at construction. Each
// bucket is itself a small deque protected by one mutex. Two cursors, one
// per end, record which bucket the next operation on that end should use.
// Every cursor has its own mutex.
//
// # Architecture
//
//	        left cursor                 right cursor
//	       (mutex, idx)                 (mutex, idx)
//	            │                            │
//	            ▼                            ▼
//	┌────────┬────────┬────────┬────────┐
//	│ bkt 0  │ bkt 1  │ bkt 2  │ bkt 3  │   N = 4
//	│ mutex  │ mutex  │ mutex  │ mutex  │
//	│ list   │ list   │ list   │ list   │
//	└────────┴────────┴────────┴────────┘
//
// Only the low-order bits of a cursor select a bucket (idx & (N-1)).
// Left-hand operations work on the tail of the selected bucket's list and
// right-hand operations on its head.
//
// # Operations
//
// PushLeft:
//   - lock the left cursor
//   - push onto the tail of bucket left.idx
//   - move left.idx one bucket left
//
// PopLeft:
//   - lock the left cursor
//   - pop the tail of bucket left.idx+1
//   - on success move left.idx to that bucket
//
// PushRight and PopRight mirror these with the right cursor, the head of
// the list and the opposite direction.
//
// Starting from an empty deque with N = 4, three PushLeft calls of a, b
// and c followed by one PopRight leave:
//
//	after PushLeft a, b, c          after PopRight (returns a)
//	┌───┬───┬───┬───┐                ┌───┬───┬───┬───┐
//	│ a │   │ c │ b │                │   │   │ c │ b │
//	└───┴───┴───┴───┘                └───┴───┴───┴───┘
//	left = 1, right = 1              left = 1, right = 0
//
// a, b and c went into buckets 0, 3 and 2. PopRight tried bucket
// (right-1) & 3 = 0, found a, and moved the right cursor there.
//
// # Concurrency Model
//
// Locks:
//   - left cursor mutex: guards left.idx, held for the whole PushLeft/PopLeft
//   - right cursor mutex: guards right.idx, held for the whole PushRight/PopRight
//   - bucket mutex: guards one list, taken inside a cursor mutex
//
// A goroutine running one of the four operations holds at most one cursor
// mutex and one bucket mutex, always in that order, so the operations
// cannot deadlock. Operations on the same end are totally ordered by the
// cursor mutex. A left and a right operation that land on the same bucket
// are serialized by the bucket mutex.
//
// Drain is the only method that takes both cursor mutexes. It always takes
// the left one first.
//
// # Empty Results
//
// A pop looks at exactly one bucket and never retries. A false result
// means that bucket was empty when it was examined; callers that need a
// stronger answer poll or fall back to Drain.
//
// # Bucket Count
//
// The bucket count must be a positive power of two. New rejects anything
// else with ErrBucketCount instead of guessing a fallback.
//
// # Usage Example
//
//	d, err := hdeq.New[string](hdeq.DefaultBuckets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d.PushLeft("a")
//	d.PushRight("b")
//	if v, ok := d.PopRight(); ok {
//	    fmt.Println(v) // b
//	}
//
// # See Also
//
//   - internal/bucket: the single-lock deque used for each bucket
//   - internal/slotlist: the handle-based list inside a bucket
//   - cmd/hdeqd: HTTP daemon serving one deque
package hdeq
