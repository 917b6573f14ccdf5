package hdeq

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var validBucketCounts = []int{1, 2, 4, 8, 16}

// TestNew tests construction and the power-of-two precondition.
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{name: "one bucket", n: 1},
		{name: "two buckets", n: 2},
		{name: "default buckets", n: DefaultBuckets},
		{name: "eight buckets", n: 8},
		{name: "zero buckets", n: 0, wantErr: true},
		{name: "negative buckets", n: -4, wantErr: true},
		{name: "three buckets", n: 3, wantErr: true},
		{name: "five buckets", n: 5, wantErr: true},
		{name: "six buckets", n: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New[int](tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBucketCount)
				assert.Nil(t, d)
				assert.Panics(t, func() { MustNew[int](tt.n) })
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.n, d.Buckets())
			assert.Equal(t, 0, d.Len())
			assert.NoError(t, d.Check())
			assert.NotPanics(t, func() { MustNew[int](tt.n) })
		})
	}
}

// TestInitialCursors verifies the left cursor starts at 0 and the right
// cursor one bucket to its right.
func TestInitialCursors(t *testing.T) {
	tests := []struct {
		n         int
		wantLeft  int
		wantRight int
	}{
		{n: 1, wantLeft: 0, wantRight: 0},
		{n: 2, wantLeft: 0, wantRight: 1},
		{n: 4, wantLeft: 0, wantRight: 1},
		{n: 8, wantLeft: 0, wantRight: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			d := MustNew[int](tt.n)
			left, right := d.cursors()
			assert.Equal(t, tt.wantLeft, left)
			assert.Equal(t, tt.wantRight, right)
		})
	}
}

// TestSingleEndIsLIFO checks that a run of operations on one end returns
// values in reverse push order.
func TestSingleEndIsLIFO(t *testing.T) {
	for _, n := range validBucketCounts {
		t.Run(fmt.Sprintf("left n=%d", n), func(t *testing.T) {
			d := MustNew[int](n)
			for i := 0; i < 3*n+1; i++ {
				d.PushLeft(i)
			}
			for i := 3 * n; i >= 0; i-- {
				v, ok := d.PopLeft()
				require.True(t, ok, "pop %d", i)
				assert.Equal(t, i, v)
			}
			_, ok := d.PopLeft()
			assert.False(t, ok)
		})

		t.Run(fmt.Sprintf("right n=%d", n), func(t *testing.T) {
			d := MustNew[int](n)
			for i := 0; i < 3*n+1; i++ {
				d.PushRight(i)
			}
			for i := 3 * n; i >= 0; i-- {
				v, ok := d.PopRight()
				require.True(t, ok, "pop %d", i)
				assert.Equal(t, i, v)
			}
			_, ok := d.PopRight()
			assert.False(t, ok)
		})
	}

	t.Run("a b c", func(t *testing.T) {
		d := MustNew[string](4)
		d.PushLeft("a")
		d.PushLeft("b")
		d.PushLeft("c")

		var got []string
		for {
			v, ok := d.PopLeft()
			if !ok {
				break
			}
			got = append(got, v)
		}
		assert.Equal(t, []string{"c", "b", "a"}, got)
	})
}

// TestOppositeEndsAreFIFO checks that values pushed on one end come out of
// the other end in push order.
func TestOppositeEndsAreFIFO(t *testing.T) {
	for _, n := range validBucketCounts {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			d := MustNew[int](n)
			for i := 0; i < 2*n+3; i++ {
				d.PushLeft(i)
			}
			for i := 0; i < 2*n+3; i++ {
				v, ok := d.PopRight()
				require.True(t, ok)
				assert.Equal(t, i, v)
			}
		})
	}
}

// TestBucketRotation walks through the documented four-bucket example and
// checks which bucket each push lands in.
func TestBucketRotation(t *testing.T) {
	d := MustNew[string](4)

	d.PushLeft("a")
	d.PushLeft("b")
	d.PushRight("c")

	assert.Equal(t, []string{"a"}, d.buckets[0].Values())
	assert.Equal(t, []string{"c"}, d.buckets[1].Values())
	assert.Empty(t, d.buckets[2].Values())
	assert.Equal(t, []string{"b"}, d.buckets[3].Values())

	left, right := d.cursors()
	assert.Equal(t, 2, left)
	assert.Equal(t, 2, right)

	steps := []struct {
		want   string
		wantOK bool
		right  int
	}{
		{want: "c", wantOK: true, right: 1}, // bucket 1
		{want: "a", wantOK: true, right: 0}, // bucket 0
		{want: "b", wantOK: true, right: 3}, // bucket 3
		{want: "", wantOK: false, right: 3}, // bucket 2 is empty
	}
	for i, step := range steps {
		v, ok := d.PopRight()
		assert.Equal(t, step.wantOK, ok, "step %d", i)
		assert.Equal(t, step.want, v, "step %d", i)
		_, right := d.cursors()
		assert.Equal(t, step.right, right, "step %d", i)
	}

	assert.Equal(t, 0, d.Len())
	assert.NoError(t, d.Check())
}

// TestSequentialMatchesModel drives random single-goroutine traffic on both
// ends and compares every result with a plain slice deque.
func TestSequentialMatchesModel(t *testing.T) {
	for _, n := range validBucketCounts {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(n)))
			d := MustNew[int](n)
			var model []int

			for i := 0; i < 10000; i++ {
				switch rng.Intn(4) {
				case 0:
					d.PushLeft(i)
					model = append([]int{i}, model...)
				case 1:
					d.PushRight(i)
					model = append(model, i)
				case 2:
					v, ok := d.PopLeft()
					if len(model) == 0 {
						require.False(t, ok, "op %d", i)
						continue
					}
					require.True(t, ok, "op %d", i)
					require.Equal(t, model[0], v, "op %d", i)
					model = model[1:]
				case 3:
					v, ok := d.PopRight()
					if len(model) == 0 {
						require.False(t, ok, "op %d", i)
						continue
					}
					require.True(t, ok, "op %d", i)
					require.Equal(t, model[len(model)-1], v, "op %d", i)
					model = model[:len(model)-1]
				}
			}

			assert.Equal(t, len(model), d.Len())
			require.NoError(t, d.Check())
		})
	}
}

// TestCrossEndIndependence runs a left-only and a right-only worker at the
// same time and checks the totals once both have finished.
func TestCrossEndIndependence(t *testing.T) {
	for _, n := range []int{2, 4, 8} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			const ops = 20000
			d := MustNew[int](n)

			type tally struct{ pushes, pops int }
			var left, right tally

			var g errgroup.Group
			g.Go(func() error {
				rng := rand.New(rand.NewSource(1))
				for i := 0; i < ops; i++ {
					if rng.Intn(3) == 0 {
						if _, ok := d.PopLeft(); ok {
							left.pops++
						}
						continue
					}
					d.PushLeft(i)
					left.pushes++
				}
				return nil
			})
			g.Go(func() error {
				rng := rand.New(rand.NewSource(2))
				for i := 0; i < ops; i++ {
					if rng.Intn(3) == 0 {
						if _, ok := d.PopRight(); ok {
							right.pops++
						}
						continue
					}
					d.PushRight(-i - 1)
					right.pushes++
				}
				return nil
			})
			require.NoError(t, g.Wait())

			require.NoError(t, d.Check())
			want := left.pushes + right.pushes - left.pops - right.pops
			assert.Equal(t, want, d.Len())
			assert.Equal(t, want, d.Stats().Len)
		})
	}
}

// TestNoDuplicationOrLoss pushes unique values from many goroutines on
// both ends, pops concurrently, and checks every value comes back exactly
// once across the pops and a final Drain.
func TestNoDuplicationOrLoss(t *testing.T) {
	for _, n := range validBucketCounts {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			const (
				workers = 8
				perW    = 2000
			)
			d := MustNew[int](n)

			var (
				mu     sync.Mutex
				popped []int
			)
			var g errgroup.Group
			for w := 0; w < workers; w++ {
				w := w
				g.Go(func() error {
					rng := rand.New(rand.NewSource(int64(w)))
					var local []int
					for i := 0; i < perW; i++ {
						v := w*perW + i
						if rng.Intn(2) == 0 {
							d.PushLeft(v)
						} else {
							d.PushRight(v)
						}

						var (
							got int
							ok  bool
						)
						switch rng.Intn(3) {
						case 0:
							got, ok = d.PopLeft()
						case 1:
							got, ok = d.PopRight()
						}
						if ok {
							local = append(local, got)
						}
					}
					mu.Lock()
					popped = append(popped, local...)
					mu.Unlock()
					return nil
				})
			}
			require.NoError(t, g.Wait())
			require.NoError(t, d.Check())

			rest := d.Drain()
			all := append(popped, rest...)
			slices.Sort(all)

			want := make([]int, workers*perW)
			for i := range want {
				want[i] = i
			}
			assert.Equal(t, want, all)
			assert.Equal(t, 0, d.Len())
		})
	}
}

// TestSpuriousEmptyTolerated pushes on the left while another goroutine
// pops on the right. A pop finding its bucket empty while values exist
// elsewhere is acceptable; losing a value is not.
func TestSpuriousEmptyTolerated(t *testing.T) {
	for round := 0; round < 200; round++ {
		d := MustNew[string](4)
		pushed := []string{"a", "b", "c", "d"}

		var (
			popped  []string
			empties int
		)
		var g errgroup.Group
		g.Go(func() error {
			for _, v := range pushed {
				d.PushLeft(v)
			}
			return nil
		})
		g.Go(func() error {
			for i := 0; i < len(pushed); i++ {
				if v, ok := d.PopRight(); ok {
					popped = append(popped, v)
				} else {
					empties++
				}
			}
			return nil
		})
		require.NoError(t, g.Wait())

		all := append(popped, d.Drain()...)
		slices.Sort(all)
		require.Equal(t, pushed, all, "round %d (%d empty pops)", round, empties)
		require.Equal(t, 0, d.Len())
	}
}

// TestDrain tests that Drain empties every bucket and resets the cursors.
func TestDrain(t *testing.T) {
	t.Run("empty deque", func(t *testing.T) {
		d := MustNew[int](4)
		assert.Empty(t, d.Drain())
	})

	t.Run("values come back leftmost first", func(t *testing.T) {
		d := MustNew[int](4)
		for i := 3; i >= 1; i-- {
			d.PushLeft(i)
		}
		for i := 4; i <= 6; i++ {
			d.PushRight(i)
		}

		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, d.Drain())
		assert.Equal(t, 0, d.Len())

		left, right := d.cursors()
		assert.Equal(t, 0, left)
		assert.Equal(t, 1, right)
	})

	t.Run("stranded values are swept", func(t *testing.T) {
		d := MustNew[int](4)
		// Put values where neither cursor looks for them.
		d.buckets[2].PushTail(7)
		d.buckets[3].PushHead(8)

		_, ok := d.PopLeft()
		assert.False(t, ok)
		_, ok = d.PopRight()
		assert.False(t, ok)

		assert.Equal(t, []int{7, 8}, d.Drain())
		assert.Equal(t, 0, d.Len())
	})

	t.Run("deque is usable after drain", func(t *testing.T) {
		d := MustNew[int](4)
		d.PushLeft(1)
		d.PushLeft(2)
		d.PopRight()
		d.Drain()

		d.PushLeft(10)
		v, ok := d.PopRight()
		require.True(t, ok)
		assert.Equal(t, 10, v)
	})
}

// TestStats tests the statistics snapshot.
func TestStats(t *testing.T) {
	d := MustNew[int](4)
	d.PushLeft(1)  // bucket 0 tail
	d.PushLeft(2)  // bucket 3 tail
	d.PushRight(3) // bucket 1 head
	d.PopLeft()    // bucket 3 tail
	d.PopLeft()    // bucket 0 tail
	d.PopLeft()    // bucket 1 tail
	d.PopLeft()    // bucket 2 empty

	s := d.Stats()
	assert.Equal(t, 4, s.Buckets)
	assert.Equal(t, 0, s.Len)
	assert.Equal(t, 1, s.LeftCursor)
	assert.Equal(t, 2, s.RightCursor)
	require.Len(t, s.PerBucket, 4)

	assert.Equal(t, BucketStats{ID: 0, PushTails: 1, PopTails: 1}, s.PerBucket[0])
	assert.Equal(t, BucketStats{ID: 1, PushHeads: 1, PopTails: 1}, s.PerBucket[1])
	assert.Equal(t, BucketStats{ID: 2, Empties: 1}, s.PerBucket[2])
	assert.Equal(t, BucketStats{ID: 3, PushTails: 1, PopTails: 1}, s.PerBucket[3])
}

// TestCheckReportsCursorRange corrupts a cursor and expects Check to notice.
func TestCheckReportsCursorRange(t *testing.T) {
	d := MustNew[int](4)
	d.right.idx = 4
	assert.Error(t, d.Check())

	d.right.idx = 3
	d.left.idx = -1
	assert.Error(t, d.Check())
}
