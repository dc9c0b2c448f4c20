package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOIDCConfig struct {
	issuer string
}

func (c testOIDCConfig) GetIssuer() string                 { return c.issuer }
func (c testOIDCConfig) GetClientID() string               { return "storefront-cli" }
func (c testOIDCConfig) GetCallbackAddr() string           { return "127.0.0.1:0" }
func (c testOIDCConfig) GetRedirectURL() string            { return "http://127.0.0.1:0/callback" }
func (c testOIDCConfig) GetScopes() []string               { return []string{"openid"} }
func (c testOIDCConfig) GetAdminRole() string              { return "admin" }
func (c testOIDCConfig) GetRefreshLeeway() time.Duration   { return 30 * time.Second }
func (c testOIDCConfig) GetAuthCodeTimeout() time.Duration { return time.Minute }

func TestLazyProviderRetriesDiscovery(t *testing.T) {
	var calls atomic.Int32
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/auth",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/certs",
			"end_session_endpoint":   issuer + "/logout",
		})
	}))
	defer srv.Close()
	issuer = srv.URL

	p := newLazyProvider(testOIDCConfig{issuer: issuer})

	require.Empty(t, p.EndSessionURL("", "http://127.0.0.1/logged-out"))

	logout := p.EndSessionURL("id-token", "http://127.0.0.1/logged-out")
	require.True(t, strings.HasPrefix(logout, issuer+"/logout?"), logout)
	assert.Contains(t, logout, "id_token_hint=id-token")

	auth := p.AuthCodeURL("state-1", "nonce-1", "verifier")
	assert.Contains(t, auth, "state=state-1")
	assert.Contains(t, auth, "code_challenge_method=S256")
	assert.Equal(t, int32(2), calls.Load())
}

func TestReportedErrorKeepsCause(t *testing.T) {
	require.NoError(t, reported(nil))

	err := reported(fmt.Errorf("wrapped: %w", errors.ErrNotAdmin))
	require.ErrorIs(t, err, errors.ErrNotAdmin)

	var shown *reportedError
	require.True(t, errors.As(err, &shown))
}

func TestOpenImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shoe.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0600))

	image, closeImage, err := openImage(path)
	require.NoError(t, err)
	defer closeImage()
	assert.Equal(t, "shoe.png", image.Name)
	assert.Equal(t, "image/png", image.ContentType)

	body, err := io.ReadAll(image.Content)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG\r\n\x1a\nrest", string(body))
}

func TestOpenImageSniffsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upload.bin123")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0600))

	image, closeImage, err := openImage(path)
	require.NoError(t, err)
	defer closeImage()
	assert.Equal(t, "image/png", image.ContentType)

	body, err := io.ReadAll(image.Content)
	require.NoError(t, err)
	assert.Len(t, body, 12)
}

func TestOpenImageWithoutPath(t *testing.T) {
	image, closeImage, err := openImage("")
	require.NoError(t, err)
	closeImage()
	assert.Nil(t, image.Content)
}

func TestTables(t *testing.T) {
	cart := &gateway.Cart{ID: utils.Ptr(int64(3)), Items: []gateway.CartItem{{ProductID: "p1", Quantity: 2}}}
	data := cartTable(cart)
	require.Len(t, data, 2)
	assert.Equal(t, []string{"p1", "2"}, data[1])

	assert.Len(t, cartTable(nil), 1)
	assert.Equal(t, "Cart #3", cartTitle(cart))
	assert.Equal(t, "Cart", cartTitle(&gateway.Cart{}))
	assert.Equal(t, "Cart", cartTitle(nil))

	orders := ordersTable([]gateway.Order{{ID: 42, Status: "PAID", TotalAmount: 19.5, Items: []gateway.OrderItem{{ProductID: "p1"}}}})
	assert.Equal(t, []string{"42", "PAID", "1", "19.50"}, orders[1])
}

func TestTerminalNavigatorHandlesRoutesLocally(t *testing.T) {
	var opened []string
	n := newTerminalNavigator("http://127.0.0.1:8765/logged-out")
	n.browser = navigatorFunc(func(target string) { opened = append(opened, target) })

	ctx := context.Background()
	require.NoError(t, n.Navigate(ctx, "http://127.0.0.1:8765/logged-out"))
	require.NoError(t, n.Navigate(ctx, "/login"))
	require.NoError(t, n.Navigate(ctx, "/cart"))
	require.NoError(t, n.Navigate(ctx, "https://pay.test/session/1"))

	assert.Equal(t, []string{"https://pay.test/session/1"}, opened)
}

type navigatorFunc func(target string)

func (f navigatorFunc) Navigate(ctx context.Context, target string) error {
	f(target)
	return nil
}
