package queue

import (
	"fmt"
	"testing"

	"github.com/ava12/pegen/internal/test"
)

func expectItems(t *testing.T, expected []int, q *Queue[int]) {
	t.Helper()
	test.ExpectString(t, fmt.Sprint(expected), fmt.Sprint(q.Items()))
	test.ExpectInt(t, len(expected), q.Len())
	test.ExpectBool(t, len(expected) == 0, q.IsEmpty())
}

func TestEmpty(t *testing.T) {
	q := New[int]()
	expectItems(t, []int{}, q)
	test.ExpectInt(t, minSize, len(q.items))
	_, ok := q.First()
	test.ExpectBool(t, false, ok)
}

func TestPrefilled(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	q := New(items...)
	expectItems(t, items, q)
	test.ExpectInt(t, minSize<<1, len(q.items))

	items[0] = 10
	test.ExpectInt(t, 1, q.items[0])
}

func TestFIFO(t *testing.T) {
	q := New(1, 2)
	q.Append(3).Append(4)
	for i := 1; i <= 4; i++ {
		item, ok := q.First()
		test.Assert(t, ok, "unexpected empty queue at item %d", i)
		test.ExpectInt(t, i, item)
	}
	_, ok := q.First()
	test.ExpectBool(t, false, ok)
	expectItems(t, []int{}, q)
}

func TestWrapAndGrow(t *testing.T) {
	q := New(0, 1, 2)
	q.First()
	q.First()
	q.Append(3).Append(4).Append(5)
	test.ExpectInt(t, minSize, len(q.items))
	expectItems(t, []int{2, 3, 4, 5}, q)

	q.Append(6)
	test.ExpectInt(t, minSize<<1, len(q.items))
	expectItems(t, []int{2, 3, 4, 5, 6}, q)

	for i := 7; i < 40; i++ {
		q.Append(i)
		if i%3 == 0 {
			q.First()
		}
	}
	items := q.Items()
	for i := 1; i < len(items); i++ {
		test.ExpectInt(t, items[i-1]+1, items[i])
	}
	test.ExpectInt(t, 39, items[len(items)-1])
}
