package pagesize

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls atomic.Int32
	size  uint64
	err   error
}

func (c *countingProvider) PageSizeBytes() (uint64, error) {
	c.calls.Add(1)
	return c.size, c.err
}

func TestFixed(t *testing.T) {
	n, err := Fixed(4096).PageSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(4096), n)

	_, err = Fixed(0).PageSizeBytes()
	assert.ErrorIs(t, err, ErrCapability)
}

func TestEnv_Override(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "16384")
	n, err := Env{Key: "TEST_PAGE_SIZE", Fallback: Fixed(4096)}.PageSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(16384), n)
}

func TestEnv_FallbackWhenUnset(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "")
	n, err := Env{Key: "TEST_PAGE_SIZE", Fallback: Fixed(65536)}.PageSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(65536), n)
}

func TestEnv_InvalidValueFails(t *testing.T) {
	for _, v := range []string{"0", "-4096", "4k", "abc"} {
		t.Setenv("TEST_PAGE_SIZE", v)
		_, err := Env{Key: "TEST_PAGE_SIZE", Fallback: Fixed(4096)}.PageSizeBytes()
		assert.ErrorIs(t, err, ErrCapability, "value %q", v)
	}
}

func TestEnv_NoFallback(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "")
	_, err := Env{Key: "TEST_PAGE_SIZE"}.PageSizeBytes()
	assert.ErrorIs(t, err, ErrCapability)
}

func TestOnce_ResolvesOnceUnderConcurrency(t *testing.T) {
	p := &countingProvider{size: 4096}
	o := NewOnce(p)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := o.PageSizeBytes()
			assert.NoError(t, err)
			assert.Equal(t, uint64(4096), n)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestOnce_CachesFailure(t *testing.T) {
	boom := errors.New("boom")
	p := &countingProvider{err: boom}
	o := NewOnce(p)

	_, err := o.PageSizeBytes()
	require.ErrorIs(t, err, boom)
	_, err = o.PageSizeBytes()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestOnce_NilProvider(t *testing.T) {
	_, err := NewOnce(nil).PageSizeBytes()
	assert.ErrorIs(t, err, ErrCapability)
}
