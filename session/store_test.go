package session_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	sferrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "storefront")
	store, err := session.NewFileStore(folder)
	require.NoError(t, err)

	_, err = store.Load()
	require.ErrorIs(t, err, sferrors.ErrNoSession)

	saved := &session.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
		Subject:      "user-1",
		Roles:        []string{"admin"},
	}
	require.NoError(t, store.Save(saved))

	info, err := os.Stat(filepath.Join(folder, "session.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, saved.AccessToken, loaded.AccessToken)
	require.Equal(t, saved.RefreshToken, loaded.RefreshToken)
	require.True(t, saved.ExpiresAt.Equal(loaded.ExpiresAt))
	require.Equal(t, saved.Roles, loaded.Roles)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "deleting twice is not an error")
	_, err = store.Load()
	require.ErrorIs(t, err, sferrors.ErrNoSession)
}

func TestFileStoreCorruptFile(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "session.json"), []byte("{"), 0600))
	store, err := session.NewFileStore(folder)
	require.NoError(t, err)

	_, err = store.Load()
	require.ErrorIs(t, err, sferrors.ErrCorruptSession)
	require.NotErrorIs(t, err, sferrors.ErrNoSession)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := session.NewMemoryStore()
	saved := &session.Session{AccessToken: "access", Roles: []string{"user"}}
	require.NoError(t, store.Save(saved))

	saved.Roles[0] = "admin"
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"user"}, loaded.Roles)

	loaded.AccessToken = "changed"
	again, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "access", again.AccessToken)

	require.Error(t, store.Save(nil))
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &session.Session{ExpiresAt: now.Add(20 * time.Second)}

	require.False(t, s.IsExpired(now))
	require.True(t, s.ExpiresWithin(now, 30*time.Second))
	require.False(t, s.ExpiresWithin(now, 10*time.Second))
	require.True(t, s.IsExpired(now.Add(20*time.Second)))

	noExpiry := &session.Session{}
	require.False(t, noExpiry.IsExpired(now))
	require.False(t, noExpiry.ExpiresWithin(now, time.Hour))
}
