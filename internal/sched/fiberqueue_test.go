package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/vm"
)

func TestFiberQueueOverflowsAtCapacity(t *testing.T) {
	q := NewFiberQueue(2)
	assert.True(t, q.Enqueue(vm.NewFiber(1)))
	assert.True(t, q.Enqueue(vm.NewFiber(2)))
	assert.False(t, q.Enqueue(vm.NewFiber(3)))
	assert.Equal(t, 2, q.Len())
}

func TestFiberQueueFIFO(t *testing.T) {
	q := NewFiberQueue(4)
	a, b := vm.NewFiber(1), vm.NewFiber(2)
	q.Enqueue(a)
	q.Enqueue(b)

	assert.Equal(t, a, q.Dequeue())
	assert.Equal(t, b, q.Dequeue())
	assert.True(t, q.IsEmpty())
	assert.Nil(t, q.Dequeue())
}

func TestFiberQueueStealDequeueTakesFromTail(t *testing.T) {
	q := NewFiberQueue(8)
	fibers := []*vm.Fiber{vm.NewFiber(1), vm.NewFiber(2), vm.NewFiber(3)}
	for _, f := range fibers {
		q.Enqueue(f)
	}

	stolen := q.StealDequeue(2)
	assert.Len(t, stolen, 2)
	assert.Equal(t, fibers[1], stolen[0])
	assert.Equal(t, fibers[2], stolen[1])
	assert.Equal(t, 1, q.Len())
}

func TestVCoreEnqueueFallsBackToGlobal(t *testing.T) {
	vc := NewVCore(0, 1)
	global := NewGlobalFiberQueue()

	vc.Enqueue(vm.NewFiber(1), global)
	assert.True(t, global.IsEmpty())

	vc.Enqueue(vm.NewFiber(2), global) // local queue now full
	assert.False(t, global.IsEmpty())
}

func TestGlobalFiberQueueFIFO(t *testing.T) {
	q := NewGlobalFiberQueue()
	a, b := vm.NewFiber(1), vm.NewFiber(2)
	q.Enqueue(a)
	q.Enqueue(b)

	assert.Equal(t, a, q.Dequeue())
	assert.Equal(t, b, q.Dequeue())
	assert.True(t, q.IsEmpty())
}
