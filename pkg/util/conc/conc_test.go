package conc

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/struct-archiver-go/pkg/util/merr"
)

func TestPoolSubmit(t *testing.T) {
	pool := NewPool[int](2)
	defer pool.Release()

	futures := make([]*Future[int], 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			return i * i, nil
		}))
	}
	require.NoError(t, AwaitAll(futures...))
	for i, future := range futures {
		assert.True(t, future.Done())
		assert.Equal(t, i*i, future.Value())
	}
	assert.Equal(t, 2, pool.Cap())
}

func TestPoolSubmitError(t *testing.T) {
	pool := NewPool[int](1)
	defer pool.Release()

	boom := errors.New("boom")
	ok := pool.Submit(func() (int, error) { return 1, nil })
	bad := pool.Submit(func() (int, error) { return 0, boom })

	assert.ErrorIs(t, AwaitAll(ok, bad), boom)
	assert.ErrorIs(t, BlockOnAll(ok, bad), boom)
	assert.False(t, bad.OK())
}

func TestPoolConcealPanic(t *testing.T) {
	pool := NewPool[int](1, WithConcealPanic(true))
	defer pool.Release()

	future := pool.Submit(func() (int, error) { panic("kaboom") })
	_, err := future.Await()
	assert.ErrorContains(t, err, "kaboom")
}

func TestPoolResize(t *testing.T) {
	pool := NewPool[int](1)
	defer pool.Release()

	require.NoError(t, pool.Resize(4))
	assert.Equal(t, 4, pool.Cap())
	assert.Error(t, pool.Resize(0))
}

func TestAwaitContext(t *testing.T) {
	block := make(chan struct{})
	future := Go(func() (int, error) {
		<-block
		return 7, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := AwaitContext(ctx, future)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(block)
	value, err := AwaitContext(context.Background(), future)
	require.NoError(t, err)
	assert.Equal(t, 7, value)
}

func TestDefaultPoolConcealPanic(t *testing.T) {
	pool := NewDefaultPool[int](WithConcealPanic(true))
	defer pool.Release()

	future := pool.Submit(func() (int, error) { panic("kaboom") })
	_, err := future.Await()
	assert.ErrorContains(t, err, "conc pool task panicked: kaboom")

	value, err := pool.Submit(func() (int, error) { return 3, nil }).Await()
	require.NoError(t, err)
	assert.Equal(t, 3, value)
}

func TestPoolNonBlocking(t *testing.T) {
	pool := NewPool[int](1, WithNonBlocking(true), WithExpiryDuration(time.Second))
	defer pool.Release()

	block := make(chan struct{})
	busy := pool.Submit(func() (int, error) {
		<-block
		return 1, nil
	})
	assert.Eventually(t, func() bool { return pool.Running() == 1 }, time.Second, time.Millisecond)

	_, err := pool.Submit(func() (int, error) { return 2, nil }).Await()
	assert.ErrorIs(t, err, merr.ErrPoolOverloaded)
	assert.True(t, merr.IsRetryableErr(err))

	close(block)
	value, err := busy.Await()
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}
