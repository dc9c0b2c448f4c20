package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	defaultLeeway      = 30 * time.Second
	defaultFlowTimeout = 15 * time.Minute
	defaultAdminRole   = "admin"

	// refreshTimeout bounds a refresh that no caller is waiting on any more.
	refreshTimeout = 30 * time.Second
	// minRefreshInterval spaces out watcher refreshes when the provider
	// issues tokens that live no longer than the leeway.
	minRefreshInterval = time.Second
)

// Client owns the process-wide Session. Every read and write of the session
// goes through its methods.
type Client struct {
	provider     IdentityProvider
	store        Store
	flows        *FlowStore
	navigator    Navigator
	clientID     string
	adminRole    string
	leeway       time.Duration
	loggedOutURL string
	loginURL     string
	nowFunc      func() time.Time

	initMu      sync.Mutex
	initialized bool

	mu      sync.RWMutex
	current *Session
	changed chan struct{}

	refreshGroup singleflight.Group
}

type Option func(*Client)

func WithStore(store Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

func WithNavigator(navigator Navigator) Option {
	return func(c *Client) {
		c.navigator = navigator
	}
}

// WithLeeway sets how long before expiry a token is considered due for refresh.
func WithLeeway(leeway time.Duration) Option {
	return func(c *Client) {
		c.leeway = leeway
	}
}

func WithAdminRole(role string) Option {
	return func(c *Client) {
		c.adminRole = role
	}
}

// WithClientID is used to find client-scoped roles in access tokens.
func WithClientID(clientID string) Option {
	return func(c *Client) {
		c.clientID = clientID
	}
}

func WithFlowTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.flows = NewFlowStore(timeout, c.now)
	}
}

// WithRoutes sets where Logout and an invalidated session navigate to.
func WithRoutes(loginURL, loggedOutURL string) Option {
	return func(c *Client) {
		c.loginURL = loginURL
		c.loggedOutURL = loggedOutURL
	}
}

func WithNowFunc(now func() time.Time) Option {
	return func(c *Client) {
		c.nowFunc = now
	}
}

// New creates a session client. provider may be nil when only password
// sign-in (SignIn) is used.
func New(provider IdentityProvider, options ...Option) *Client {
	c := &Client{
		provider:  provider,
		adminRole: defaultAdminRole,
		leeway:    defaultLeeway,
		loginURL:  "/login",
		changed:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(c)
	}

	if c.store == nil {
		c.store = NewMemoryStore()
	}
	if c.navigator == nil {
		c.navigator = NavigatorFunc(func(context.Context, string) error { return nil })
	}
	if c.flows == nil {
		c.flows = NewFlowStore(defaultFlowTimeout, c.now)
	}
	return c
}

func (c *Client) now() time.Time {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return NowTimeFunc()
}

// Initialize performs the silent session check. A stored session is adopted
// when still valid, refreshed when it is about to expire, and dropped
// otherwise. Failures leave the client unauthenticated and are only logged.
// Calls after a successful initialization are no-ops.
func (c *Client) Initialize(ctx context.Context) {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.initialized {
		return
	}

	stored, err := c.store.Load()
	if errors.Is(err, errors.ErrCorruptSession) {
		log.Warn().Err(err).Msg("Discarding unreadable stored session")
		if err := c.store.Delete(); err != nil {
			log.Err(err).Msg("Failed to delete unreadable session")
			return
		}
		c.initialized = true
		return
	}
	if err != nil {
		if !errors.Is(err, errors.ErrNoSession) {
			log.Err(err).Msg("Session init failed")
			return
		}
		c.initialized = true
		return
	}

	if stored.ExpiresWithin(c.now(), c.leeway) {
		if stored.RefreshToken == "" || c.provider == nil {
			log.Info().Msg("Stored session expired")
			if err := c.store.Delete(); err != nil {
				log.Err(err).Msg("Failed to delete expired session")
			}
			c.initialized = true
			return
		}

		tokens, err := c.provider.Refresh(ctx, stored.RefreshToken)
		if err != nil {
			log.Err(err).Msg("Session init failed")
			return
		}
		stored = stored.withTokens(tokens)
		c.persist(stored)
	}

	c.setSession(stored)
	c.initialized = true
	log.Debug().Str("sub", stored.Subject).Msg("Session restored")
}

// Login starts the authorization-code flow by navigating to the identity
// provider. returnURL is handed back by HandleCallback once the flow completes.
func (c *Client) Login(ctx context.Context, returnURL string) error {
	if c.provider == nil {
		return errors.ErrProviderMissing
	}

	state := uuid.NewString()
	flow := Flow{
		CodeVerifier: oauth2.GenerateVerifier(),
		Nonce:        uuid.NewString(),
		ReturnURL:    returnURL,
		CreatedAt:    c.now(),
	}
	if err := c.flows.Put(state, flow); err != nil {
		return errors.Wrapf(err, "Login")
	}

	return c.navigator.Navigate(ctx, c.provider.AuthCodeURL(state, flow.Nonce, flow.CodeVerifier))
}

// HandleCallback completes a flow started by Login and populates the session.
func (c *Client) HandleCallback(ctx context.Context, state, code string) (string, error) {
	if c.provider == nil {
		return "", errors.ErrProviderMissing
	}

	flow, err := c.flows.Take(state)
	if err != nil {
		return "", err
	}

	tokens, err := c.provider.Exchange(ctx, code, flow.CodeVerifier, flow.Nonce)
	if err != nil {
		return "", errors.Wrapf(err, "HandleCallback")
	}

	s := sessionFromTokens(tokens)
	c.persist(s)
	c.setSession(s)
	c.markInitialized()

	log.Info().Str("sub", s.Subject).Msg("Logged in")
	return flow.ReturnURL, nil
}

// SignIn establishes a session from a bearer token issued by a password
// login endpoint. There is no refresh token in this mode.
func (c *Client) SignIn(ctx context.Context, accessToken string) error {
	claims, err := ReadClaims(accessToken, c.clientID)
	if err != nil {
		return err
	}

	s := &Session{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt,
		Subject:     claims.Subject,
		Email:       claims.Email,
		Roles:       claims.Roles,
	}
	c.persist(s)
	c.setSession(s)
	c.markInitialized()

	log.Info().Str("sub", s.Subject).Msg("Signed in")
	return nil
}

// Logout clears the session and navigates to the provider's end-session
// page, or the logged-out route when there is none.
func (c *Client) Logout(ctx context.Context) error {
	var idTokenHint string
	if s := c.Snapshot(); s != nil {
		idTokenHint = s.IDToken
	}
	c.clear()

	target := c.loggedOutURL
	if c.provider != nil {
		if u := c.provider.EndSessionURL(idTokenHint, c.loggedOutURL); u != "" {
			target = u
		}
	}
	if target == "" {
		return nil
	}
	return c.navigator.Navigate(ctx, target)
}

// Expire drops a session the backend has rejected and sends the user to the login route.
func (c *Client) Expire(ctx context.Context) {
	log.Warn().Msg("Session rejected by backend, clearing")
	c.clear()

	if c.loginURL == "" {
		return
	}
	if err := c.navigator.Navigate(ctx, c.loginURL); err != nil {
		log.Err(err).Msg("Failed to navigate to login")
	}
}

func (c *Client) IsAuthenticated() bool {
	return c.authenticated(c.Snapshot())
}

func (c *Client) IsAdmin() bool {
	s := c.Snapshot()
	return c.authenticated(s) && s.HasRole(c.adminRole)
}

func (c *Client) authenticated(s *Session) bool {
	return s != nil && s.AccessToken != "" && !s.IsExpired(c.now())
}

// Subject returns the authenticated user's id, or "" when unauthenticated.
func (c *Client) Subject() string {
	if s := c.Snapshot(); s != nil {
		return s.Subject
	}
	return ""
}

// Snapshot returns a copy of the current session, or nil.
func (c *Client) Snapshot() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	return c.current.clone()
}

// AccessToken returns the token to attach to an outgoing request, refreshing
// it first when it expires within the leeway. If the refresh fails the stale
// token is returned and the backend gets to reject it. "" means no session.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	s := c.Snapshot()
	if s == nil {
		return "", nil
	}
	if !s.ExpiresWithin(c.now(), c.leeway) || s.RefreshToken == "" || c.provider == nil {
		return s.AccessToken, nil
	}

	refreshed, err := c.Refresh(ctx)
	if err != nil {
		log.Err(err).Msg("Failed to refresh token")
		return s.AccessToken, nil
	}
	return refreshed.AccessToken, nil
}

// Refresh exchanges the refresh token for a new access token. Concurrent
// callers share one request, which outlives a caller that gives up.
func (c *Client) Refresh(ctx context.Context) (*Session, error) {
	ch := c.refreshGroup.DoChan("refresh", func() (any, error) {
		s := c.Snapshot()
		if s == nil {
			return nil, errors.ErrNoSession
		}
		if !s.ExpiresWithin(c.now(), c.leeway) {
			return s, nil // refreshed by an earlier flight
		}
		if s.RefreshToken == "" {
			return nil, errors.ErrNoRefreshToken
		}
		if c.provider == nil {
			return nil, errors.ErrProviderMissing
		}

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		tokens, err := c.provider.Refresh(flightCtx, s.RefreshToken)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrRefreshFailed, "%v", err)
		}

		updated := s.withTokens(tokens)
		c.mu.Lock()
		if c.current == nil || c.current.RefreshToken != s.RefreshToken {
			// logged out or replaced while the refresh was in flight
			c.mu.Unlock()
			return nil, errors.ErrNoSession
		}
		c.current = updated
		c.signalLocked()
		c.mu.Unlock()

		c.persist(updated)
		log.Debug().Time("expires_at", updated.ExpiresAt).Msg("Token refreshed")
		return updated.clone(), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Session), nil
	}
}

// WatchExpiry refreshes the token shortly before it expires, until ctx is
// done. A failed refresh is logged and not retried for the same token. A
// freshly refreshed token that is already inside the leeway is refreshed again
// halfway through its remaining lifetime, and never sooner than
// minRefreshInterval.
func (c *Client) WatchExpiry(ctx context.Context) {
	var failedToken, refreshedToken string
	for {
		c.mu.RLock()
		s, changed := c.current, c.changed
		c.mu.RUnlock()

		timer := time.NewTimer(time.Hour)
		timer.Stop()
		if s != nil && s.RefreshToken != "" && c.provider != nil && !s.ExpiresAt.IsZero() && s.AccessToken != failedToken {
			now := c.now()
			delay := s.ExpiresAt.Add(-c.leeway).Sub(now)
			if delay <= 0 && s.AccessToken == refreshedToken {
				delay = max(s.ExpiresAt.Sub(now)/2, minRefreshInterval)
			}
			timer.Reset(max(delay, 0))
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-changed:
			timer.Stop()
		case <-timer.C:
			refreshed, err := c.Refresh(ctx)
			if err != nil {
				log.Err(err).Msg("Failed to refresh token")
				failedToken = s.AccessToken
				continue
			}
			refreshedToken = refreshed.AccessToken
		}
	}
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
	c.signalLocked()
}

func (c *Client) clear() {
	c.setSession(nil)
	if err := c.store.Delete(); err != nil {
		log.Err(err).Msg("Failed to delete stored session")
	}
}

// signalLocked wakes WatchExpiry. c.mu must be held.
func (c *Client) signalLocked() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Client) persist(s *Session) {
	if err := c.store.Save(s); err != nil {
		log.Err(err).Msg("Failed to persist session")
	}
}

func (c *Client) markInitialized() {
	c.initMu.Lock()
	c.initialized = true
	c.initMu.Unlock()
}
