package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientProvider_SingleFlight(t *testing.T) {
	var builds atomic.Int32
	release := make(chan struct{})
	p := NewClientProvider(func(context.Context) (*Clients, error) {
		builds.Add(1)
		<-release
		return &Clients{Address: "0xabc"}, nil
	})

	const callers = 10
	var wg sync.WaitGroup
	got := make([]*Clients, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := p.Get(context.Background())
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, builds.Load())
	for _, c := range got {
		assert.Same(t, got[0], c)
	}

	c, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, got[0], c)
	assert.EqualValues(t, 1, builds.Load())
}

func TestClientProvider_ErrorNotMemoized(t *testing.T) {
	var builds atomic.Int32
	p := NewClientProvider(func(context.Context) (*Clients, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("meta unavailable")
		}
		return &Clients{Address: "0xabc"}, nil
	})

	_, err := p.Get(context.Background())
	require.Error(t, err)

	c, err := p.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xabc", c.Address)
	assert.EqualValues(t, 2, builds.Load())
}

func TestClientProvider_CallerCancelDoesNotAbortBuild(t *testing.T) {
	p := NewClientProvider(func(ctx context.Context) (*Clients, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &Clients{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Get(ctx)
	require.NoError(t, err)
}
