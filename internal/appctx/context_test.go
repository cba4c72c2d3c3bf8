package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chino-io/chino-go/internal/auth"
	"github.com/chino-io/chino-go/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("CHINO_NO_KEYRING", "1")
	cfg := config.Default()
	cfg.CustomerID = "cust-id"
	cfg.CustomerKey = "cust-key"
	app := NewApp(cfg)
	app.Store = auth.NewStore(t.TempDir())
	return app
}

func TestNewAppWiresModules(t *testing.T) {
	app := newTestApp(t)
	require.NotNil(t, app.API)
	require.NotNil(t, app.Blob)
	require.NotNil(t, app.Repositories)
	require.NotNil(t, app.Search)
	assert.Equal(t, auth.ModeAdmin, app.Auth.Mode())
}

func TestApplyFlagsNoRetry(t *testing.T) {
	app := newTestApp(t)
	app.Flags.NoRetry = true
	app.ApplyFlags()
	assert.Equal(t, uint64(1), app.Retry.MaxAttempts)
}

func TestOriginIsHost(t *testing.T) {
	app := newTestApp(t)
	app.Config.BaseURL = "https://api.chino.io"
	assert.Equal(t, "api.chino.io", app.Origin())
}

func TestSessionRoundTrip(t *testing.T) {
	app := newTestApp(t)
	app.Auth.RestoreUser("tok-1", "ref-1")
	require.NoError(t, app.SaveSession())

	fresh := newTestApp(t)
	fresh.Store = app.Store
	fresh.RestoreSession()
	assert.Equal(t, auth.ModeUser, fresh.Auth.Mode())
	bearer, refresh := fresh.Auth.Tokens()
	assert.Equal(t, "tok-1", bearer)
	assert.Equal(t, "ref-1", refresh)

	require.NoError(t, fresh.ClearSession())
	cleared := newTestApp(t)
	cleared.Store = fresh.Store
	cleared.RestoreSession()
	assert.NotEqual(t, auth.ModeUser, cleared.Auth.Mode())
}

func TestContextRoundTrip(t *testing.T) {
	app := newTestApp(t)
	ctx := WithApp(context.Background(), app)
	assert.Same(t, app, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
