package views_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-storefront/cache"
	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu            sync.Mutex
	authenticated bool
	admin         bool
	subject       string
	logins        []string
	signedIn      string
}

func (s *fakeSession) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *fakeSession) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated && s.admin
}

func (s *fakeSession) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

func (s *fakeSession) Login(ctx context.Context, returnURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logins = append(s.logins, returnURL)
	return nil
}

func (s *fakeSession) SignIn(ctx context.Context, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signedIn = accessToken
	s.authenticated = true
	return nil
}

func (s *fakeSession) Logins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.logins...)
}

type request struct {
	Method string
	Path   string
	Body   map[string]any
}

type backend struct {
	server *httptest.Server
	mu     sync.Mutex
	reqs   []request
	routes map[string]http.HandlerFunc
}

func (b *backend) handle(pattern string, fn http.HandlerFunc) {
	b.routes[pattern] = fn
}

func (b *backend) Requests() []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]request(nil), b.reqs...)
}

func (b *backend) Count() int {
	return len(b.Requests())
}

type testFixture struct {
	session       *fakeSession
	backend       *backend
	navigated     []string
	navMu         sync.Mutex
	notifications *views.Notifications
	cache         *cache.Cache
	deps          views.Deps
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		session:       &fakeSession{authenticated: true, subject: "user-1"},
		backend:       &backend{routes: make(map[string]http.HandlerFunc)},
		notifications: views.NewNotifications(),
	}
	f.backend.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		var body map[string]any
		if r.Header.Get("Content-Type") == "application/json" {
			_ = json.Unmarshal(raw, &body)
		}
		f.backend.mu.Lock()
		f.backend.reqs = append(f.backend.reqs, request{Method: r.Method, Path: r.URL.Path, Body: body})
		handler, ok := f.backend.routes[r.Method+" "+r.URL.Path]
		f.backend.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(f.backend.server.Close)

	c, err := cache.New(64)
	require.NoError(t, err)
	f.cache = c

	base := gateway.NewBaseURL(f.backend.server.URL)
	f.deps = views.Deps{
		Session:   f.session,
		Catalog:   gateway.NewCatalogClient(base),
		Orders:    gateway.NewOrderClient(base),
		Inventory: gateway.NewInventoryClient(base, nil),
		Cache:     c,
		Navigator: session.NavigatorFunc(func(ctx context.Context, target string) error {
			f.navMu.Lock()
			defer f.navMu.Unlock()
			f.navigated = append(f.navigated, target)
			return nil
		}),
		Notifier: f.notifications,
	}
	return f
}

func (f *testFixture) Navigated() []string {
	f.navMu.Lock()
	defer f.navMu.Unlock()
	return append([]string(nil), f.navigated...)
}

func (f *testFixture) lastMessage(t *testing.T) views.Notification {
	t.Helper()
	n, ok := f.notifications.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
