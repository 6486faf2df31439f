package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/credstore"
)

func TestLogout_ClearsAllSessionState(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("token"))
	cache := &spyCache{identity: &domain.Identity{UserID: "u-1"}}
	scheduler := NewRefreshScheduler(refresherFunc(func(context.Context) (string, error) {
		return "token", nil
	}), store, cache, nil)
	scheduler.Arm()
	require.True(t, scheduler.Armed())
	uc := NewLogout(store, cache, scheduler, nil)

	require.NoError(t, uc.Execute(context.Background()))

	_, ok := store.Get()
	assert.False(t, ok)
	_, cached := cache.Peek()
	assert.False(t, cached)
	assert.False(t, scheduler.Armed())
}

func TestLogout_IsIdempotent(t *testing.T) {
	store := credstore.NewMemoryStore()
	uc := NewLogout(store, &spyCache{}, nil, nil)

	require.NoError(t, uc.Execute(context.Background()))
	require.NoError(t, uc.Execute(context.Background()))
}
