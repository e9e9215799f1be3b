package r2ctl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sagarc03/r2ctl"
	"github.com/sagarc03/r2ctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFactory struct {
	calls atomic.Int32
	mu    sync.Mutex
	keys  []r2ctl.ConnectionKey
	err   error
}

func (f *countingFactory) build(_ context.Context, key r2ctl.ConnectionKey) (r2ctl.S3API, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &testutil.MockS3Client{}, nil
}

func newCache(f *countingFactory) *r2ctl.ClientCache {
	return r2ctl.NewClientCache(f.build, r2ctl.WithCacheLogger(testutil.DiscardLogger()))
}

func TestClientCache_SameKeyReturnsSameClient(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()
	key := r2ctl.NewConnectionKey("https://acc.r2.example.com", "ak", "sk", r2ctl.RegionWEUR)

	first, err := cache.Get(ctx, key)
	require.NoError(t, err)
	second, err := cache.Get(ctx, key)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestClientCache_DifferentKeysReturnDifferentClients(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()

	keys := []r2ctl.ConnectionKey{
		r2ctl.NewConnectionKey("https://a.example.com", "ak", "sk", r2ctl.RegionAuto),
		r2ctl.NewConnectionKey("https://b.example.com", "ak", "sk", r2ctl.RegionAuto),
		r2ctl.NewConnectionKey("https://a.example.com", "ak2", "sk", r2ctl.RegionAuto),
		r2ctl.NewConnectionKey("https://a.example.com", "ak", "sk2", r2ctl.RegionAuto),
		r2ctl.NewConnectionKey("https://a.example.com", "ak", "sk", r2ctl.RegionAPAC),
	}

	clients := make([]r2ctl.S3API, 0, len(keys))
	for _, k := range keys {
		c, err := cache.Get(ctx, k)
		require.NoError(t, err)
		for _, prev := range clients {
			assert.NotSame(t, prev, c, "key %s", k)
		}
		clients = append(clients, c)
	}

	assert.Equal(t, int32(len(keys)), f.calls.Load())
	assert.Equal(t, len(keys), cache.Len())
}

func TestClientCache_AutoRegionNormalized(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()

	auto := r2ctl.ConnectionKey{Endpoint: "https://e", AccessKey: "ak", SecretKey: "sk", Region: "auto"}
	empty := r2ctl.ConnectionKey{Endpoint: "https://e", AccessKey: "ak", SecretKey: "sk", Region: ""}

	first, err := cache.Get(ctx, auto)
	require.NoError(t, err)
	second, err := cache.Get(ctx, empty)
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, f.keys, 1)
	assert.Equal(t, "", f.keys[0].Region, "factory must never see auto")
}

func TestNewConnectionKey(t *testing.T) {
	key := r2ctl.NewConnectionKey("https://acc.r2.example.com/", "ak", "sk", r2ctl.RegionAuto)

	assert.Equal(t, "https://acc.r2.example.com", key.Endpoint)
	assert.Equal(t, "", key.Region)
	assert.Equal(t, r2ctl.NewConnectionKey("https://acc.r2.example.com", "ak", "sk", ""), key)
}

func TestConnectionKey_StringMasksSecrets(t *testing.T) {
	key := r2ctl.NewConnectionKey("https://e", "AKIA0123456789ABCDEF", "supersecretvalue1234", r2ctl.RegionAuto)

	s := key.String()
	assert.NotContains(t, s, "AKIA0123456789ABCDEF")
	assert.NotContains(t, s, "supersecretvalue1234")
	assert.Contains(t, s, "auto")

	logger, buf := testutil.BufferLogger()
	logger.Info("key", "key", key)
	assert.NotContains(t, buf.String(), "supersecretvalue1234")
	assert.Contains(t, buf.String(), "supe...1234")
}

func TestClientCache_FactoryErrorNotCached(t *testing.T) {
	boom := errors.New("bad endpoint")
	f := &countingFactory{err: boom}
	cache := newCache(f)
	key := r2ctl.NewConnectionKey("https://e", "ak", "sk", r2ctl.RegionAuto)

	client, err := cache.Get(context.Background(), key)
	assert.Nil(t, client)
	assert.Same(t, boom, err)
	assert.Equal(t, 0, cache.Len())

	f.err = nil
	client, err = cache.Get(context.Background(), key)
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestClientCache_ConcurrentMissBuildsOnce(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()
	key := r2ctl.NewConnectionKey("https://e", "ak", "sk", r2ctl.RegionENAM)

	const workers = 32
	results := make([]r2ctl.S3API, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := cache.Get(ctx, key)
			assert.NoError(t, err)
			results[i] = c
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestClientCache_ConcurrentDistinctKeys(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := r2ctl.NewConnectionKey(fmt.Sprintf("https://e%d", i%4), "ak", "sk", r2ctl.RegionAuto)
			_, err := cache.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, cache.Len())
	assert.Equal(t, int32(4), f.calls.Load())
}

func TestClientCache_Reset(t *testing.T) {
	f := &countingFactory{}
	cache := newCache(f)
	ctx := context.Background()
	key := r2ctl.NewConnectionKey("https://e", "ak", "sk", r2ctl.RegionAuto)

	first, err := cache.Get(ctx, key)
	require.NoError(t, err)

	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	second, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestClientCache_LogsRegionChoice(t *testing.T) {
	logger, buf := testutil.BufferLogger()
	cache := r2ctl.NewClientCache((&countingFactory{}).build, r2ctl.WithCacheLogger(logger))

	_, err := cache.Get(context.Background(), r2ctl.NewConnectionKey("https://e", "ak", "sk", r2ctl.RegionAuto))
	require.NoError(t, err)
	_, err = cache.Get(context.Background(), r2ctl.NewConnectionKey("https://e", "ak", "sk", r2ctl.RegionAuto))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "created storage client")
	assert.Contains(t, out, "reusing storage client")
}
