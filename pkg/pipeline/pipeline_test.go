package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hanoi/pkg/cache"
	"github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
)

// memCache is an in-memory cache.Cache that counts calls.
type memCache struct {
	data   map[string][]byte
	gets   int
	sets   int
	getErr error
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.gets++
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.sets++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{})
}

func TestExecuteSolves(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Disks: 3})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Disks)
	assert.False(t, res.CacheHit)
	assert.Equal(t, 7, res.Stats.Moves)
	assert.Equal(t, []int{6, 5, 3, 3, 0, 1, 1, 0}, res.Trace.Peg(0))
	assert.Equal(t, []int{0, 1, 1, 0, 3, 3, 5, 6}, res.Trace.Peg(2))
	assert.True(t, res.Final.Solved(3))
	assert.Nil(t, res.Snapshots)
}

func TestExecuteInvalidDisks(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	for _, opts := range []Options{
		{Disks: 0},
		{Disks: -2},
		{Disks: 6, MaxDisks: 5},
		{Disks: hanoi.MaxDisks + 1},
	} {
		_, err := r.Execute(context.Background(), opts)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument), "opts %+v: err = %v", opts, err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, quietLogger()).Execute(ctx, Options{Disks: 2})
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestExecuteCaches(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Disks: 4})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.Equal(t, 1, mc.sets)

	second, err := r.Execute(ctx, Options{Disks: 4})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, first.Final.Pegs(), second.Final.Pegs())
	assert.Equal(t, 15, second.Stats.Moves)
	assert.Equal(t, 1, mc.sets, "cache hit should not write")
}

func TestExecuteMoveOptionsBypassCacheRead(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, quietLogger())
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Disks: 2})
	require.NoError(t, err)
	gets := mc.gets

	for _, opts := range []Options{
		{Disks: 2, Snapshots: true},
		{Disks: 2, Verify: true},
		{Disks: 2, Debug: true},
		{Disks: 2, Refresh: true},
	} {
		res, err := r.Execute(ctx, opts)
		require.NoError(t, err)
		assert.False(t, res.CacheHit, "opts %+v", opts)
	}
	assert.Equal(t, gets, mc.gets)
}

func TestExecuteCorruptCacheEntryIsMiss(t *testing.T) {
	mc := newMemCache()
	mc.data[cache.NewDefaultKeyer().TraceKey(2)] = []byte("not json")
	r := NewRunner(mc, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Disks: 2})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Equal(t, []int{0, 0, 2, 3}, res.Trace.Peg(1))
}

func TestExecuteCacheReadErrorIsMiss(t *testing.T) {
	mc := newMemCache()
	mc.getErr = stderrors.New("boom")
	var logs bytes.Buffer
	r := NewRunner(mc, nil, log.New(&logs))

	res, err := r.Execute(context.Background(), Options{Disks: 1})
	require.NoError(t, err)
	assert.False(t, res.CacheHit)
	assert.Contains(t, logs.String(), "cache read failed")
}

func TestExecuteSnapshots(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	res, err := r.Execute(context.Background(), Options{Disks: 3, Snapshots: true, Verify: true})
	require.NoError(t, err)

	require.Len(t, res.Snapshots, 8)
	require.Len(t, res.Moves, 7)
	assert.True(t, res.Stats.Verified)
	assert.Equal(t, [3]int{6, 0, 0}, res.Snapshots[0].Loads())
	assert.Equal(t, res.Final.Pegs(), res.Snapshots[7].Pegs())
	for i, m := range res.Moves {
		assert.Equal(t, i+1, m.Step)
		assert.Equal(t, res.Trace.At(i+1), res.Snapshots[i+1].Loads())
	}
}

func TestExecuteDebugLogsMoves(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})
	r := NewRunner(nil, nil, quietLogger())

	_, err := r.Execute(context.Background(), Options{Disks: 2, Debug: true, Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(logs.String(), "move step="))
	assert.Contains(t, logs.String(), "solved")
}

func TestExecuteWithFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "test"), quietLogger())
	defer r.Close()

	_, err = r.Execute(context.Background(), Options{Disks: 5})
	require.NoError(t, err)

	res, err := r.Execute(context.Background(), Options{Disks: 5})
	require.NoError(t, err)
	assert.True(t, res.CacheHit)
	assert.Equal(t, 32, res.Trace.Len())
}

func TestResultDocument(t *testing.T) {
	res, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), Options{Disks: 1})
	require.NoError(t, err)

	doc := res.Document()
	assert.Equal(t, res.RunID, doc.RunID)
	assert.Equal(t, 1, doc.Moves)
	assert.Equal(t, [][]int{{1, 0}, {0, 0}, {0, 1}}, doc.Loads)
	assert.Equal(t, [][]int{{}, {}, {1}}, doc.Final)
}

func TestOptionsLimit(t *testing.T) {
	assert.Equal(t, hanoi.MaxDisks, Options{}.limit())
	assert.Equal(t, 8, Options{MaxDisks: 8}.limit())
	assert.Equal(t, hanoi.MaxDisks, Options{MaxDisks: 99}.limit())
	assert.Equal(t, DefaultTTL, Options{}.ttl())
	assert.Equal(t, time.Minute, Options{TTL: time.Minute}.ttl())
}
