package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-storefront/gateway"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
}

type testBackend struct {
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func setupTestBackend(t *testing.T, handler http.HandlerFunc) *testBackend {
	t.Helper()
	b := &testBackend{handler: handler}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(gateway.RequestIDHeader),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          body,
		})
		b.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		b.handler(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) Requests() []recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedRequest(nil), b.requests...)
}

func (b *testBackend) URL() *gateway.BaseURL {
	return gateway.NewBaseURL(b.server.URL)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func staticToken(token string) gateway.TokenSource {
	return gateway.TokenSourceFunc(func(context.Context) (string, error) {
		return token, nil
	})
}

func TestBearerTokenAttached(t *testing.T) {
	backend := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []gateway.Product{{ID: "p1", Name: "Mug"}})
	})
	catalog := gateway.NewCatalogClient(backend.URL(), gateway.WithTokenSource(staticToken("abc")))

	products, err := catalog.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	req := backend.Requests()[0]
	assert.Equal(t, "Bearer abc", req.Authorization)
	assert.Equal(t, "/products/info", req.Path)
	assert.NotEmpty(t, req.RequestID)
}

func TestBearerTokenOmittedWithoutToken(t *testing.T) {
	backend := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []gateway.Product{})
	})

	for _, opts := range [][]gateway.Option{nil, {gateway.WithTokenSource(staticToken(""))}} {
		catalog := gateway.NewCatalogClient(backend.URL(), opts...)
		_, err := catalog.ListProducts(context.Background())
		require.NoError(t, err)
	}

	for _, req := range backend.Requests() {
		assert.Empty(t, req.Authorization)
	}
}

func TestTokenIsReadPerRequest(t *testing.T) {
	backend := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gateway.Product{ID: "p1"})
	})
	var calls atomic.Int32
	tokens := gateway.TokenSourceFunc(func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "first", nil
		}
		return "second", nil
	})
	catalog := gateway.NewCatalogClient(backend.URL(), gateway.WithTokenSource(tokens))

	_, err := catalog.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	_, err = catalog.GetProduct(context.Background(), "p1")
	require.NoError(t, err)

	reqs := backend.Requests()
	assert.Equal(t, "Bearer first", reqs[0].Authorization)
	assert.Equal(t, "Bearer second", reqs[1].Authorization)
	assert.NotEqual(t, reqs[0].RequestID, reqs[1].RequestID)
}

func TestHTTPErrorCarriesStatusAndMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		contentType string
		wantMessage string
		wantClass   error
	}{
		{name: "json message", status: http.StatusBadRequest, body: `{"message":"Quantity too high"}`, contentType: "application/json", wantMessage: "Quantity too high", wantClass: errors.ErrValidation},
		{name: "json error", status: http.StatusNotFound, body: `{"error":"no such product"}`, contentType: "application/json", wantMessage: "no such product", wantClass: errors.ErrNotFound},
		{name: "plain text", status: http.StatusForbidden, body: "Forbidden: admin only\n", contentType: "text/plain", wantMessage: "Forbidden: admin only", wantClass: errors.ErrForbidden},
		{name: "empty body", status: http.StatusInternalServerError, body: "", contentType: "text/plain", wantMessage: "", wantClass: errors.ErrServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			catalog := gateway.NewCatalogClient(backend.URL())

			_, err := catalog.GetProduct(context.Background(), "p1")

			var httpErr *errors.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
			assert.ErrorIs(t, err, tt.wantClass)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	backend := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	base := backend.URL()
	backend.server.Close()

	_, err := gateway.NewCatalogClient(base).ListProducts(context.Background())

	require.ErrorIs(t, err, errors.ErrTransport)
	assert.Equal(t, 0, errors.StatusCode(err))
}

func TestBaseURLOverrideAppliesToLaterRequests(t *testing.T) {
	first := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []gateway.Order{})
	})
	second := setupTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []gateway.Order{})
	})
	base := first.URL()
	orders := gateway.NewOrderClient(base)

	_, err := orders.ListOrders(context.Background())
	require.NoError(t, err)

	base.Override(second.server.URL + "/")
	_, err = orders.ListOrders(context.Background())
	require.NoError(t, err)

	assert.Len(t, first.Requests(), 1)
	assert.Len(t, second.Requests(), 1)

	base.Override("")
	assert.False(t, base.Overridden())
	assert.Equal(t, first.server.URL, base.String())
}
