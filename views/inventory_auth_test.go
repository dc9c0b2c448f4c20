package views_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/views"
	"github.com/stretchr/testify/require"
)

func TestInventoryLoginSignsIn(t *testing.T) {
	f := setupTestFixture(t)
	f.session.authenticated = false
	f.backend.handle("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "bearer-123"})
	})

	err := views.NewInventoryAuthView(f.deps).Login(context.Background(), "ops@example.com", "password123")

	require.NoError(t, err)
	require.Equal(t, "bearer-123", f.session.signedIn)
	require.Equal(t, []string{views.RouteProducts}, f.Navigated())
}

func TestInventoryLoginShowsBackendMessage(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.handle("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Email not verified", http.StatusBadRequest)
	})

	err := views.NewInventoryAuthView(f.deps).Login(context.Background(), "ops@example.com", "password123")

	require.ErrorIs(t, err, errors.ErrValidation)
	require.Equal(t, "Email not verified", f.lastMessage(t).Message)
	require.Empty(t, f.session.signedIn)
}

func TestInventoryAuthValidatesBeforeSending(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{name: "bad email", email: "not-an-email", password: "password123", message: "Invalid email address"},
		{name: "short password", email: "ops@example.com", password: "short", message: "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t)
			view := views.NewInventoryAuthView(f.deps)

			require.ErrorIs(t, view.Register(context.Background(), tt.email, tt.password), errors.ErrValidation)
			require.Equal(t, tt.message, f.lastMessage(t).Message)
			require.ErrorIs(t, view.Login(context.Background(), tt.email, tt.password), errors.ErrValidation)
			require.Zero(t, f.backend.Count())
		})
	}
}

func TestInventoryAccountFlows(t *testing.T) {
	f := setupTestFixture(t)
	ok := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	}
	f.backend.handle("POST /users/register", ok)
	f.backend.handle("GET /users/verify/tok-1", ok)
	f.backend.handle("POST /users/password/reset", ok)
	f.backend.handle("POST /users/password/reset/tok-2", ok)
	view := views.NewInventoryAuthView(f.deps)
	ctx := context.Background()

	require.NoError(t, view.Register(ctx, "new@example.com", "password123"))
	require.NoError(t, view.VerifyEmail(ctx, "tok-1"))
	require.NoError(t, view.RequestPasswordReset(ctx, "new@example.com"))
	require.Equal(t, "Password reset email sent", f.lastMessage(t).Message)
	require.NoError(t, view.ResetPassword(ctx, "tok-2", "another-password"))
	require.Equal(t, "Password reset successfully", f.lastMessage(t).Message)

	require.Equal(t, 4, f.backend.Count())
	require.Equal(t, []string{views.RouteLogin, views.RouteLogin, views.RouteLogin}, f.Navigated())
}
