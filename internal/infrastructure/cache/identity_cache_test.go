package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/credstore"
)

// countingFetcher implements domain.IdentityFetcher and counts round trips.
type countingFetcher struct {
	mu       sync.Mutex
	calls    atomic.Int32
	identity *domain.Identity
	err      error
	onFetch  func()
}

func (f *countingFetcher) FetchIdentity(_ context.Context) (*domain.Identity, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.identity.Clone(), nil
}

func (f *countingFetcher) setIdentity(i *domain.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = i
}

func clientIdentity() *domain.Identity {
	return &domain.Identity{
		UserID:     "user-1",
		Username:   "rivera",
		TenantID:   "tenant-a",
		TenantName: "Acme",
		Roles:      []string{"CLIENT"},
	}
}

func TestRead_FetchesOnceWhileFresh(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetcher := &countingFetcher{identity: clientIdentity()}
	c := NewIdentityCache(store, fetcher)

	first, err := c.Read(context.Background())
	require.NoError(t, err)
	second, err := c.Read(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "user-1", first.UserID)
	assert.Equal(t, first.UserID, second.UserID)
	assert.EqualValues(t, 1, fetcher.calls.Load(), "fresh slot must not refetch")
}

func TestRead_RefetchesWhenStale(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetcher := &countingFetcher{identity: clientIdentity()}

	now := time.Now()
	clock := func() time.Time { return now }
	c := NewIdentityCache(store, fetcher, WithClock(func() time.Time { return clock() }))

	_, err := c.Read(context.Background())
	require.NoError(t, err)

	now = now.Add(DefaultStaleAfter + time.Second)
	_, err = c.Read(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestRead_NoCredentialNoFetch(t *testing.T) {
	store := credstore.NewMemoryStore()
	fetcher := &countingFetcher{identity: clientIdentity()}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.EqualValues(t, 0, fetcher.calls.Load())
}

func TestRead_ConcurrentReadsShareOneFetch(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	fetcher := &countingFetcher{identity: clientIdentity()}
	fetcher.onFetch = func() {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}
	c := NewIdentityCache(store, fetcher)

	const readers = 8
	var wg sync.WaitGroup
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Read(context.Background())
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, fetcher.calls.Load(), "concurrent reads must share the in-flight fetch")
}

func TestRead_DiscardsResultWhenCredentialRevokedMidFlight(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))

	fetcher := &countingFetcher{identity: clientIdentity()}
	fetcher.onFetch = func() {
		// Simulate a 401 on another request tearing the credential down
		// while this fetch is in flight.
		_ = store.Clear()
	}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, populated := c.Peek()
	assert.False(t, populated, "slot must not be populated without a credential")
}

func TestForceReplace_RespectsCredentialInvariant(t *testing.T) {
	store := credstore.NewMemoryStore()
	fetcher := &countingFetcher{}
	c := NewIdentityCache(store, fetcher)

	c.ForceReplace(clientIdentity())
	_, populated := c.Peek()
	assert.False(t, populated, "replace without credential must be ignored")

	require.NoError(t, store.Set("token"))
	c.ForceReplace(clientIdentity())
	got, populated := c.Peek()
	require.True(t, populated)
	assert.Equal(t, "user-1", got.UserID)
	assert.EqualValues(t, 0, fetcher.calls.Load())
}

func TestInvalidate_ForcesRefetchOnNextRead(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetcher := &countingFetcher{identity: clientIdentity()}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	_, err = c.Read(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestForceRefresh_AwaitsFreshValue(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetcher := &countingFetcher{identity: clientIdentity()}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())
	require.NoError(t, err)

	admin := clientIdentity()
	admin.TenantID = "tenant-b"
	admin.TenantName = "Globex"
	admin.Roles = []string{"ADMIN"}
	fetcher.setIdentity(admin)

	got, err := c.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tenant-b", got.TenantID)
	assert.Equal(t, []string{"ADMIN"}, got.Roles)
	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestRead_PropagatesFetchError(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetchErr := errors.New("backend exploded")
	fetcher := &countingFetcher{err: fetchErr}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())
	assert.ErrorIs(t, err, fetchErr)

	_, populated := c.Peek()
	assert.False(t, populated)
}

func TestClear_EvictsSlot(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	fetcher := &countingFetcher{identity: clientIdentity()}
	c := NewIdentityCache(store, fetcher)

	_, err := c.Read(context.Background())
	require.NoError(t, err)

	c.Clear()

	_, populated := c.Peek()
	assert.False(t, populated)
}
