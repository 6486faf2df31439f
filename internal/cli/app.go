package cli

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"authgate/internal/adapter/gateway"
	"authgate/internal/infrastructure/cache"
	"authgate/internal/infrastructure/credstore"
	"authgate/internal/infrastructure/events"
	"authgate/internal/infrastructure/notify"
	"authgate/internal/output"
	"authgate/internal/usecase"
)

// app wires the session components for one command invocation.
type app struct {
	printer   *output.Printer
	store     *credstore.FileStore
	bus       *events.Bus
	client    *gateway.Client
	cache     *cache.IdentityCache
	scheduler *usecase.RefreshScheduler
	guard     *usecase.Guard
	login     *usecase.Login
	logout    *usecase.Logout
	switcher  *usecase.SwitchTenant
}

// newApp builds the whole dependency graph from cfg. Notifications surface
// as terminal warnings, flood-limited per category so a burst of failing
// requests prints one line, not fifty.
func newApp() (*app, error) {
	printer := output.NewPrinter()

	store, err := credstore.NewFileStore(cfg.CredentialPath)
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	bus := events.NewBus()
	terminalNotifier := notify.NewRateLimited(printerNotifier(printer),
		rate.Every(time.Minute/time.Duration(cfg.NotifyPerMinute)), 1)

	client := gateway.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, store, bus, terminalNotifier, logger)
	identityCache := cache.NewIdentityCache(store, client, cache.WithStaleAfter(cfg.IdentityTTL))
	scheduler := usecase.NewRefreshScheduler(client, store, identityCache, logger,
		usecase.WithRefreshInterval(cfg.RefreshInterval),
		usecase.WithEventBus(bus))

	return &app{
		printer:   printer,
		store:     store,
		bus:       bus,
		client:    client,
		cache:     identityCache,
		scheduler: scheduler,
		guard:     usecase.NewGuard(store, identityCache, logger),
		login:     usecase.NewLogin(client, store, identityCache, scheduler, logger),
		logout:    usecase.NewLogout(store, identityCache, scheduler, logger),
		switcher:  usecase.NewSwitchTenant(client, store, identityCache, terminalNotifier, bus, logger),
	}, nil
}
