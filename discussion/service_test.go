package discussion

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letmevibethatforyou/discussx"
	"github.com/letmevibethatforyou/discussx/cache"
)

// fakeStore is a single-map Store whose entries can be expired on demand.
type fakeStore struct {
	mu      sync.Mutex
	entries map[string][]discussx.Record
	sets    int
	getErr  error
	setErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string][]discussx.Record{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]discussx.Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	r, ok := f.entries[key]
	return r, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key string, records []discussx.Record, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = records
	return nil
}

func (f *fakeStore) expire(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
}

type countingRunner struct {
	runs    atomic.Int32
	records []discussx.Record
	err     error
}

func (c *countingRunner) Run(context.Context) ([]discussx.Record, error) {
	c.runs.Add(1)
	return c.records, c.err
}

type recordingArchiver struct {
	calls int
	err   error
}

func (r *recordingArchiver) Archive(_ context.Context, records []discussx.Record) error {
	r.calls++
	return r.err
}

var sampleRecords = []discussx.Record{
	{ID: "a", Title: "Vercel vs Netlify", Author: "x", Created: 1000, URL: "https://www.reddit.com/a", Community: "r/webdev", Score: 5, NumComments: 3, Snippet: "Vercel vs Netlify"},
}

func TestService_CacheIdempotence(t *testing.T) {
	expr := discussx.Phrase("vercel vs netlify")
	s := &scriptedSearcher{responses: map[string][]discussx.Post{
		expr.String(): {{ID: "a", Title: "Vercel vs Netlify", Author: "x", Score: 5, NumComments: 3, CreatedUTC: 1000}},
	}}
	cfg := singleQueryConfig(expr)
	p, err := NewPipeline(s, cfg)
	require.NoError(t, err)

	svc := NewService(p, cache.NewMemory(), cfg)
	first := svc.Discussions(context.Background())
	callsAfterFirst := s.calls.Load()
	second := svc.Discussions(context.Background())

	assert.Equal(t, callsAfterFirst, s.calls.Load(), "second trigger issues no queries")

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
	assert.Len(t, first, 1)
}

func TestService_RerunsAfterExpiry(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{records: sampleRecords}
	svc := NewService(runner, store, DefaultConfig())

	svc.Discussions(context.Background())
	store.expire(DefaultCacheKey)
	svc.Discussions(context.Background())

	assert.Equal(t, int32(2), runner.runs.Load())
}

func TestService_FailedRunKeepsPreviousValue(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{err: discussx.ErrBackendUnavailable}
	svc := NewService(runner, store, DefaultConfig())

	got := svc.Discussions(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, store.sets, "failed run must not write the cache")

	svc.Discussions(context.Background())
	assert.Equal(t, int32(2), runner.runs.Load(), "uncached failure is retried on the next trigger")
}

func TestService_CacheFailedRuns(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{err: discussx.ErrMissingCredentials}
	cfg := DefaultConfig()
	cfg.CacheFailedRuns = true
	svc := NewService(runner, store, cfg)

	assert.Empty(t, svc.Discussions(context.Background()))
	assert.Empty(t, svc.Discussions(context.Background()))
	assert.Equal(t, int32(1), runner.runs.Load(), "empty failure result is served until the TTL lapses")
	assert.Equal(t, 1, store.sets)
}

func TestService_EmptySuccessIsCached(t *testing.T) {
	store := newFakeStore()
	runner := &countingRunner{}
	svc := NewService(runner, store, DefaultConfig())

	got := svc.Discussions(context.Background())
	assert.NotNil(t, got)
	svc.Discussions(context.Background())
	assert.Equal(t, int32(1), runner.runs.Load())
}

func TestService_CacheErrorsDegrade(t *testing.T) {
	store := newFakeStore()
	store.getErr = discussx.ErrCacheUnavailable
	store.setErr = discussx.ErrCacheUnavailable
	runner := &countingRunner{records: sampleRecords}
	svc := NewService(runner, store, DefaultConfig())

	assert.Equal(t, sampleRecords, svc.Discussions(context.Background()))
	assert.Equal(t, sampleRecords, svc.Discussions(context.Background()))
	assert.Equal(t, int32(2), runner.runs.Load())
}

func TestService_RecoversPanics(t *testing.T) {
	runner := RunnerFunc(func(context.Context) ([]discussx.Record, error) {
		panic("boom")
	})
	svc := NewService(runner, newFakeStore(), DefaultConfig())

	got := svc.Discussions(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_ArchivesFreshResultsOnly(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("index offline")}
	runner := &countingRunner{records: sampleRecords}
	svc := NewService(runner, newFakeStore(), DefaultConfig(), WithArchiver(archiver))

	assert.Equal(t, sampleRecords, svc.Discussions(context.Background()), "archive failure does not affect the response")
	svc.Discussions(context.Background())
	assert.Equal(t, 1, archiver.calls)

	empty := &recordingArchiver{}
	svc = NewService(&countingRunner{}, newFakeStore(), DefaultConfig(), WithArchiver(empty))
	svc.Discussions(context.Background())
	assert.Zero(t, empty.calls)
}

func TestService_CoalescesConcurrentMisses(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32
	runner := RunnerFunc(func(context.Context) ([]discussx.Record, error) {
		if runs.Add(1) == 1 {
			close(started)
		}
		<-release
		return sampleRecords, nil
	})

	cfg := DefaultConfig()
	cfg.Coalesce = true
	svc := NewService(runner, cache.NewMemory(), cfg)

	const callers = 8
	results := make([][]discussx.Record, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = svc.Discussions(context.Background())
		}()
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	for _, r := range results {
		assert.Equal(t, sampleRecords, r)
	}
}

func TestService_CoalescedRunSurvivesLeaderCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs atomic.Int32
	runner := RunnerFunc(func(ctx context.Context) ([]discussx.Record, error) {
		if runs.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
			return sampleRecords, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	cfg := DefaultConfig()
	cfg.Coalesce = true
	cfg.CacheFailedRuns = true
	store := newFakeStore()
	svc := NewService(runner, store, cfg)

	leaderCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Discussions(leaderCtx)
	}()
	<-started

	var follower []discussx.Record
	go func() {
		defer wg.Done()
		follower = svc.Discussions(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, sampleRecords, follower)
	assert.Equal(t, sampleRecords, store.entries[cfg.CacheKey])
}

func TestService_CallerCancelIsNotCached(t *testing.T) {
	runner := RunnerFunc(func(ctx context.Context) ([]discussx.Record, error) {
		return nil, ctx.Err()
	})

	cfg := DefaultConfig()
	cfg.CacheFailedRuns = true
	store := newFakeStore()
	svc := NewService(runner, store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := svc.Discussions(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, store.sets, "a run abandoned by its caller must not be cached")
}
