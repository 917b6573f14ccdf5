// Package bucket implements the single-lock deque used as one shard of the
// hashed deque.
//
// A Bucket is a slotlist.List guarded by one sync.Mutex. PushTail/PopTail
// work on the left end and PushHead/PopHead on the right end. All four are
// O(1) and hold the mutex for their whole duration.
//
// Buckets carry atomic operation counters: pushes and pops per end, plus
// pops that found the bucket empty. The counters are read without the
// mutex and may lag a concurrent operation.
//
// Each Bucket is padded with cpu.CacheLinePad on both sides so that the
// mutexes of neighbouring buckets do not share a cache line. The padding
// only affects performance.
package bucket
