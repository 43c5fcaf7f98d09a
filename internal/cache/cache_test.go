package cache

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_CachesValue(t *testing.T) {
	c := New(time.Minute)
	calls := 0

	compute := func() (interface{}, error) {
		calls++
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		value, err := c.Do("site-1:health", compute)
		require.NoError(t, err)
		assert.Equal(t, "result", value)
	}
	assert.Equal(t, 1, calls)
}

func TestDo_ExpiresAfterTTL(t *testing.T) {
	c := New(time.Minute)
	current := time.Now()
	c.now = func() time.Time { return current }

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.Do("k", compute)
	require.NoError(t, err)

	// Just inside the TTL
	current = current.Add(59 * time.Second)
	value, err := c.Do("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// Past the TTL
	current = current.Add(2 * time.Minute)
	value, err = c.Do("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, value)
}

func TestDo_ErrorsAreNotCached(t *testing.T) {
	c := New(time.Minute)
	calls := 0

	_, err := c.Do("k", func() (interface{}, error) {
		calls++
		return nil, fmt.Errorf("boom")
	})
	assert.Error(t, err)

	value, err := c.Do("k", func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}

func TestForget(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.Do(Key("site-1", KindHealth), compute)
	require.NoError(t, err)
	_, err = c.Do(Key("site-1", KindDrift), compute)
	require.NoError(t, err)

	c.ForgetSite("site-1")

	value, err := c.Do(Key("site-1", KindHealth), compute)
	require.NoError(t, err)
	assert.Equal(t, 3, value)

	// Forgetting an unknown key is a no-op
	c.Forget("site-2:health")
}

func TestDo_SingleFlight(t *testing.T) {
	c := New(time.Minute)
	var calls int64
	release := make(chan struct{})

	compute := func() (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := c.Do("k", compute)
			assert.NoError(t, err)
			assert.Equal(t, "shared", value)
		}()
	}

	// Give the goroutines time to pile onto the flight group, then
	// let the single computation finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "site-1:health", Key("site-1", KindHealth))
	assert.Equal(t, "site-1:drift", Key("site-1", KindDrift))
}
