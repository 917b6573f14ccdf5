package hdeq_test

import (
	"fmt"

	"github.com/dreamware/hdeq"
)

func Example() {
	d := hdeq.MustNew[string](hdeq.DefaultBuckets)

	d.PushLeft("a")
	d.PushLeft("b")
	d.PushRight("c")

	for {
		v, ok := d.PopRight()
		if !ok {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// c
	// a
	// b
}

func ExampleNew() {
	_, err := hdeq.New[int](3)
	fmt.Println(err)
	// Output:
	// new deque with 3 buckets: hdeq: bucket count must be a positive power of two
}
