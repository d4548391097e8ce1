package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/objectabi"
	"github.com/argonlang/argon/internal/vm"
)

func TestFutureResolveThenWait(t *testing.T) {
	f := newFuture(vm.NewFiber(1))
	f.resolve(objectabi.Int(7), nil)

	result, err := f.Wait()
	assert.Nil(t, err)
	assert.Equal(t, objectabi.Int(7), result)
}

func TestFutureResolveIsIdempotent(t *testing.T) {
	f := newFuture(vm.NewFiber(1))
	f.resolve(objectabi.Int(1), nil)
	f.resolve(objectabi.Int(2), nil) // second resolve must not panic on a closed channel

	result, _ := f.Wait()
	assert.Equal(t, objectabi.Int(1), result)
}

func TestFutureWaitBlocksUntilResolved(t *testing.T) {
	f := newFuture(vm.NewFiber(1))
	resultCh := make(chan objectabi.Object, 1)

	go func() {
		v, _ := f.Wait()
		resultCh <- v
	}()

	select {
	case <-resultCh:
		t.Fatal("Wait returned before resolve")
	case <-time.After(20 * time.Millisecond):
	}

	f.resolve(objectabi.Str("done"), nil)

	select {
	case v := <-resultCh:
		assert.Equal(t, objectabi.Str("done"), v)
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after resolve")
	}
}
