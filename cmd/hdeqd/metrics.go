package main

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreamware/hdeq"
)

// dequeCollector exports deque statistics. It reads a fresh Stats snapshot
// on every scrape instead of keeping its own counters.
type dequeCollector struct {
	stats func() hdeq.Stats

	ops    *prometheus.Desc
	length *prometheus.Desc
	cursor *prometheus.Desc
}

func newDequeCollector(stats func() hdeq.Stats) *dequeCollector {
	return &dequeCollector{
		stats: stats,
		ops: prometheus.NewDesc(
			"hdeq_bucket_operations_total",
			"Operations per bucket. op is one of push_head, push_tail, pop_head, pop_tail, empty.",
			[]string{"bucket", "op"}, nil,
		),
		length: prometheus.NewDesc(
			"hdeq_bucket_length",
			"Values currently held by a bucket.",
			[]string{"bucket"}, nil,
		),
		cursor: prometheus.NewDesc(
			"hdeq_cursor_index",
			"Bucket index of the left or right cursor.",
			[]string{"end"}, nil,
		),
	}
}

func (c *dequeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ops
	ch <- c.length
	ch <- c.cursor
}

func (c *dequeCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()

	ch <- prometheus.MustNewConstMetric(c.cursor, prometheus.GaugeValue, float64(s.LeftCursor), "left")
	ch <- prometheus.MustNewConstMetric(c.cursor, prometheus.GaugeValue, float64(s.RightCursor), "right")

	for _, b := range s.PerBucket {
		id := strconv.Itoa(b.ID)
		ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(b.Len), id)
		for op, n := range map[string]uint64{
			"push_head": b.PushHeads,
			"push_tail": b.PushTails,
			"pop_head":  b.PopHeads,
			"pop_tail":  b.PopTails,
			"empty":     b.Empties,
		} {
			ch <- prometheus.MustNewConstMetric(c.ops, prometheus.CounterValue, float64(n), id, op)
		}
	}
}
