package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/internal/domain"
	"authgate/internal/infrastructure/cache"
	"authgate/internal/infrastructure/credstore"
	"authgate/internal/infrastructure/events"
	"authgate/internal/navigation"
)

// identityByToken resolves identities the way the backend does: from the
// credential currently installed in the store.
func identityByToken(store domain.CredentialStore, byToken map[string]*domain.Identity) fetcherFunc {
	return func(context.Context) (*domain.Identity, error) {
		cred, ok := store.Get()
		if !ok {
			return nil, domain.ErrNoIdentity
		}
		identity, ok := byToken[cred]
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		return identity, nil
	}
}

func TestSwitchTenant_EndToEnd(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("tenant-a-token"))
	identities := map[string]*domain.Identity{
		"tenant-a-token": {
			UserID: "u-1", TenantID: "t-a", TenantName: "Acme",
			Roles: []string{navigation.RoleClient},
		},
		"tenant-b-token": {
			UserID: "u-1", TenantID: "t-b", TenantName: "Globex",
			Roles: []string{navigation.RoleAdmin},
		},
	}
	identityCache := cache.NewIdentityCache(store, identityByToken(store, identities))

	// Prime the cache with the tenant A identity.
	before, err := identityCache.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "t-a", before.TenantID)

	switcher := &stubSwitcher{
		tenants: []domain.TenantRef{{ID: "t-a", Name: "Acme"}, {ID: "t-b", Name: "Globex"}},
		switchFn: func(_ context.Context, tenantID string) (string, error) {
			require.Equal(t, "t-b", tenantID)
			return "tenant-b-token", nil
		},
	}
	notifier := &captureNotifier{}
	bus := events.NewBus()
	rotations, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	uc := NewSwitchTenant(switcher, store, identityCache, notifier, bus, nil)

	result, err := uc.Execute(context.Background(), "t-b")

	require.NoError(t, err)
	assert.Equal(t, "t-b", result.Identity.TenantID)
	assert.Equal(t, "Globex", result.Identity.TenantName)
	assert.Equal(t, "/admin/dashboard", result.Route)

	cred, _ := store.Get()
	assert.Equal(t, "tenant-b-token", cred)
	cached, ok := identityCache.Peek()
	require.True(t, ok)
	assert.Equal(t, "t-b", cached.TenantID, "cache must never expose old-tenant roles after the switch")
	assert.Empty(t, notifier.all())

	select {
	case ev := <-rotations:
		assert.Equal(t, events.CredentialRotated, ev.Type)
	default:
		t.Fatal("expected a credential rotation event")
	}
}

func TestSwitchTenant_FailureLeavesSessionUntouched(t *testing.T) {
	store := credstore.NewMemoryStore()
	require.NoError(t, store.Set("tenant-a-token"))
	identities := map[string]*domain.Identity{
		"tenant-a-token": {
			UserID: "u-1", TenantID: "t-a",
			Roles: []string{navigation.RoleClient},
		},
	}
	identityCache := cache.NewIdentityCache(store, identityByToken(store, identities))
	_, err := identityCache.Read(context.Background())
	require.NoError(t, err)

	switcher := &stubSwitcher{
		tenants: []domain.TenantRef{{ID: "t-a", Name: "Acme"}, {ID: "t-b", Name: "Globex"}},
		switchFn: func(context.Context, string) (string, error) {
			return "", errors.New("membership revoked")
		},
	}
	notifier := &captureNotifier{}
	bus := events.NewBus()
	rotations, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	uc := NewSwitchTenant(switcher, store, identityCache, notifier, bus, nil)

	_, err = uc.Execute(context.Background(), "t-b")

	require.Error(t, err)
	cred, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "tenant-a-token", cred)
	cached, ok := identityCache.Peek()
	require.True(t, ok)
	assert.Equal(t, "t-a", cached.TenantID)

	notes := notifier.all()
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifyTenantSwitch, notes[0].Category)
	assert.Equal(t, "Failed to switch organization", notes[0].Message)

	select {
	case <-rotations:
		t.Fatal("a failed switch must not announce a rotation")
	default:
	}
}

func TestSwitchTenant_SingleTenantRejected(t *testing.T) {
	switcher := &stubSwitcher{
		tenants: []domain.TenantRef{{ID: "t-a", Name: "Acme"}},
		switchFn: func(context.Context, string) (string, error) {
			t.Fatal("switch must not be attempted for a single-tenant user")
			return "", nil
		},
	}
	uc := NewSwitchTenant(switcher, credstore.NewMemoryStore(), &spyCache{}, &captureNotifier{}, nil, nil)

	_, err := uc.Execute(context.Background(), "t-a")

	require.ErrorIs(t, err, domain.ErrSingleTenant)
}

func TestSwitchTenant_EmptyTenantIDRejected(t *testing.T) {
	uc := NewSwitchTenant(&stubSwitcher{}, credstore.NewMemoryStore(), &spyCache{}, &captureNotifier{}, nil, nil)

	_, err := uc.Execute(context.Background(), "")

	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSwitchTenant_ListsTenants(t *testing.T) {
	switcher := &stubSwitcher{tenants: []domain.TenantRef{
		{ID: "t-a", Name: "Acme"},
		{ID: "t-b", Name: "Globex"},
	}}
	uc := NewSwitchTenant(switcher, credstore.NewMemoryStore(), &spyCache{}, &captureNotifier{}, nil, nil)

	tenants, err := uc.Tenants(context.Background())

	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "Globex", tenants[1].Name)
}
