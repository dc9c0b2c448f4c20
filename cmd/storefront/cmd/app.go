package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/server"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
)

const logoutWait = 30 * time.Second

// App wires the session, gateways, cache and views for one process.
type App struct {
	config         config.Config
	nonInteractive bool

	provider      *lazyProvider
	navigator     *terminalNavigator
	session       *session.Client
	notifications *views.Notifications
	runtime       *gateway.RuntimeConfig

	catalog   *gateway.CatalogClient
	orders    *gateway.OrderClient
	inventory *gateway.InventoryClient

	cartView              *views.CartView
	catalogView           *views.CatalogView
	ordersView            *views.OrdersView
	inventoryAuthView     *views.InventoryAuthView
	categoriesView        *views.CategoriesView
	inventoryProductsView *views.InventoryProductsView
}

func NewApp(ctx context.Context, cfg config.Config, nonInteractive bool) (*App, error) {
	store, err := session.NewFileStore(cfg.GetDataFolder())
	if err != nil {
		return nil, err
	}

	loggedOutURL := "http://" + cfg.GetCallbackAddr() + server.RouteLoggedOut
	a := &App{
		config:         cfg,
		nonInteractive: nonInteractive,
		provider:       newLazyProvider(cfg),
		navigator:      newTerminalNavigator(loggedOutURL),
		notifications:  views.NewNotifications(views.WithListener(printNotification)),
	}
	a.session = session.New(a.provider,
		session.WithStore(store),
		session.WithNavigator(a.navigator),
		session.WithClientID(cfg.GetClientID()),
		session.WithAdminRole(cfg.GetAdminRole()),
		session.WithLeeway(cfg.GetRefreshLeeway()),
		session.WithFlowTimeout(cfg.GetAuthCodeTimeout()),
		session.WithRoutes(views.RouteLogin, loggedOutURL),
	)
	a.session.Initialize(ctx)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	productURL := gateway.NewBaseURL(cfg.GetProductAPIURL())
	orderURL := gateway.NewBaseURL(cfg.GetOrderAPIURL())
	inventoryURL := gateway.NewBaseURL(cfg.GetInventoryAPIURL())
	a.runtime = gateway.LoadRuntimeConfig(ctx, httpClient, cfg.GetRuntimeConfigURL(), map[string]*gateway.BaseURL{
		gateway.ProductAPIKey:   productURL,
		gateway.OrderAPIKey:     orderURL,
		gateway.InventoryAPIKey: inventoryURL,
	})

	clientOptions := []gateway.Option{
		gateway.WithHTTPClient(httpClient),
		gateway.WithTokenSource(a.session),
	}
	a.catalog = gateway.NewCatalogClient(productURL, clientOptions...)
	a.orders = gateway.NewOrderClient(orderURL, clientOptions...)
	a.inventory = gateway.NewInventoryClient(inventoryURL, a.session, clientOptions...)

	queryCache, err := cache.New(cache.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	deps := views.Deps{
		Session:   interactiveSession{Client: a.session, app: a},
		Catalog:   a.catalog,
		Orders:    a.orders,
		Inventory: a.inventory,
		Cache:     queryCache,
		Navigator: a.navigator,
		Notifier:  a.notifications,
	}
	a.cartView = views.NewCartView(deps)
	a.catalogView = views.NewCatalogView(deps)
	a.ordersView = views.NewOrdersView(deps)
	a.inventoryAuthView = views.NewInventoryAuthView(deps)
	a.categoriesView = views.NewCategoriesView(deps)
	a.inventoryProductsView = views.NewInventoryProductsView(deps)
	return a, nil
}

// Login runs the whole authorization-code flow: it listens on the redirect
// address, opens the browser and waits for the callback.
func (a *App) Login(ctx context.Context, returnURL string) error {
	if a.nonInteractive {
		pterm.Info.Println("Run `storefront login` to sign in.")
		return errors.ErrNotAuthenticated
	}
	if _, err := a.provider.get(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.GetAuthCodeTimeout())
	defer cancel()

	srv := server.New(a.config.GetEnv(), a.session)
	stop, err := a.serve(ctx, srv)
	if err != nil {
		return err
	}
	defer stop()

	if err := a.session.Login(ctx, returnURL); err != nil {
		return err
	}
	pterm.Info.Println("Waiting for the browser login to complete...")
	if _, err := srv.WaitForCallback(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}

// Logout ends the session. When the provider has an end-session page the
// browser is sent there and redirected back to the loopback listener.
func (a *App) Logout(ctx context.Context) error {
	s := a.session.Snapshot()
	if s == nil || s.IDToken == "" {
		return a.session.Logout(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, logoutWait)
	defer cancel()

	srv := server.New(a.config.GetEnv(), a.session)
	stop, err := a.serve(ctx, srv)
	if err != nil {
		log.Warn().Err(err).Msg("Logout redirect listener unavailable")
		return a.session.Logout(ctx)
	}
	defer stop()

	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	select {
	case <-srv.LoggedOut():
	case <-ctx.Done():
		log.Debug().Msg("No logout redirect received")
	}
	return nil
}

func (a *App) serve(ctx context.Context, srv *server.Server) (stop func(), err error) {
	ln, err := net.Listen("tcp", a.config.GetCallbackAddr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", a.config.GetCallbackAddr(), err)
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			log.Err(err).Msg("Callback server stopped")
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// interactiveSession sends the views' login requests through the full
// browser flow instead of a bare redirect.
type interactiveSession struct {
	*session.Client
	app *App
}

var _ views.Session = interactiveSession{}

func (s interactiveSession) Login(ctx context.Context, returnURL string) error {
	if err := s.app.Login(ctx, returnURL); err != nil {
		return err
	}
	pterm.Success.Println("Logged in, run the command again.")
	return nil
}
