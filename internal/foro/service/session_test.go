package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/foro/internal/foro/domain"
	"github.com/aussiebroadwan/foro/pkg/cryptox"
	"github.com/aussiebroadwan/foro/pkg/jwtx"
	"github.com/aussiebroadwan/foro/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestSession_CreateResolveDestroy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "ana", "ana@x.com")

	token, expiresAt, err := f.sessions.Create(ctx, ana, "go-test", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(DefaultSessionTTL), expiresAt, time.Minute)

	u, err := f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, ana.ID, u.ID)

	// Survives across requests until logout.
	u, err = f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, u)

	require.NoError(t, f.sessions.Destroy(ctx, token))

	u, err = f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	require.Nil(t, u, "destroyed session resolves to anonymous")
}

func TestSession_ResolveRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "ana", "ana@x.com")

	t.Run("empty token", func(t *testing.T) {
		u, err := f.sessions.Resolve(ctx, "")
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("garbage", func(t *testing.T) {
		u, err := f.sessions.Resolve(ctx, "not.a.jwt")
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other, err := jwtx.NewHMAC("other-secret", "foro")
		require.NoError(t, err)
		forged, err := other.Sign(ana.ID, "whatever", time.Now(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		u, err := f.sessions.Resolve(ctx, forged)
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("valid signature without a session row", func(t *testing.T) {
		token, err := f.sessions.Signer.Sign(ana.ID, "never-stored", time.Now(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		u, err := f.sessions.Resolve(ctx, token)
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("subject does not own the session", func(t *testing.T) {
		bea := register(t, f, "bea", "bea@x.com")
		secret := "shared-secret-value"
		require.NoError(t, f.store.Sessions().CreateSession(ctx, domain.Session{
			ID:        cryptox.Fingerprint(secret),
			UserID:    ana.ID,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}))
		token, err := f.sessions.Signer.Sign(bea.ID, secret, time.Now(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		u, err := f.sessions.Resolve(ctx, token)
		require.NoError(t, err)
		require.Nil(t, u)
	})

	t.Run("expired session row", func(t *testing.T) {
		secret := "expired-secret-value"
		require.NoError(t, f.store.Sessions().CreateSession(ctx, domain.Session{
			ID:        cryptox.Fingerprint(secret),
			UserID:    ana.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-time.Hour),
		}))
		token, err := f.sessions.Signer.Sign(ana.ID, secret, time.Now(), time.Now().Add(time.Hour))
		require.NoError(t, err)

		u, err := f.sessions.Resolve(ctx, token)
		require.NoError(t, err)
		require.Nil(t, u)
	})
}

func TestSession_DestroyIgnoresInvalidToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sessions.Destroy(context.Background(), "garbage"))
}

func TestHousekeeping_Cleanup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := register(t, f, "ana", "ana@x.com")

	live, _, err := f.sessions.Create(ctx, ana, "", "")
	require.NoError(t, err)
	require.NoError(t, f.store.Sessions().CreateSession(ctx, domain.Session{
		ID:        "stale",
		UserID:    ana.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}))

	hk := &HousekeepingService{Store: f.store, Logger: slogx.Discard()}
	n, err := hk.Cleanup(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	u, err := f.sessions.Resolve(ctx, live)
	require.NoError(t, err)
	require.NotNil(t, u, "live sessions survive cleanup")

}
