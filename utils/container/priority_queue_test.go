package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/container"
)

func TestPriorityQueuePushHeapify(t *testing.T) {
	q := container.NewPriorityQueue[string]()
	assert.Equal(t, 0, q.Len())

	q.Push("b", 2)
	q.Push("a", 1)
	q.Push("c", 3)
	q.Heapify()
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, "a", q.First())

	v, p := q.HeapPop()
	assert.Equal(t, "a", v)
	assert.Equal(t, 1., p)
	v, _ = q.HeapPop()
	assert.Equal(t, "b", v)
	v, _ = q.HeapPop()
	assert.Equal(t, "c", v)
	assert.Equal(t, 0, q.Len())
}

func TestPriorityQueueHeapPush(t *testing.T) {
	q := container.NewPriorityQueue[int]()
	for _, p := range []float64{5, 1, 4, 2, 3} {
		q.HeapPush(int(p), p)
	}
	for want := 1; want <= 5; want++ {
		v, _ := q.HeapPop()
		assert.Equal(t, want, v)
	}
}

func TestPriorityQueueEqualPriorities(t *testing.T) {
	// 相同优先级时保持Push顺序，弹出结果确定
	q := container.NewPriorityQueue[string]()
	q.Push("first", -1)
	q.Push("second", -1)
	q.Heapify()
	v, _ := q.HeapPop()
	assert.Equal(t, "first", v)
}
