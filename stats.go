package hdeq

// BucketStats describes one bucket.
type BucketStats struct {
	ID        int    `json:"id"`
	Len       int    `json:"len"`
	PushHeads uint64 `json:"push_heads"`
	PushTails uint64 `json:"push_tails"`
	PopHeads  uint64 `json:"pop_heads"`
	PopTails  uint64 `json:"pop_tails"`
	Empties   uint64 `json:"empties"`
}

// Stats is a snapshot of a deque's cursors and buckets. Each field is read
// under its own lock, so under concurrent traffic the fields may not all
// describe the same instant.
type Stats struct {
	Buckets     int           `json:"buckets"`
	LeftCursor  int           `json:"left_cursor"`
	RightCursor int           `json:"right_cursor"`
	Len         int           `json:"len"`
	PerBucket   []BucketStats `json:"per_bucket"`
}

// Stats returns current deque statistics.
func (d *Deque[T]) Stats() Stats {
	left, right := d.cursors()
	s := Stats{
		Buckets:     len(d.buckets),
		LeftCursor:  left,
		RightCursor: right,
		PerBucket:   make([]BucketStats, 0, len(d.buckets)),
	}
	for _, b := range d.buckets {
		bs := b.GetStats()
		s.Len += bs.Len
		s.PerBucket = append(s.PerBucket, BucketStats{
			ID:        bs.ID,
			Len:       bs.Len,
			PushHeads: bs.Ops.PushHeads,
			PushTails: bs.Ops.PushTails,
			PopHeads:  bs.Ops.PopHeads,
			PopTails:  bs.Ops.PopTails,
			Empties:   bs.Ops.Empties,
		})
	}
	return s
}
