package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chino-io/chino-go/internal/config"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.CustomerID = "cust-id"
	cfg.CustomerKey = "cust-key"
	cfg.ClientID = "app-id"
	cfg.ClientSecret = "app-secret"
	return cfg
}

func authHeader(m Material) string {
	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/", nil)
	m.Apply(req)
	return req.Header.Get("Authorization")
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestInitialMode(t *testing.T) {
	m := NewManager(testConfig("https://api.example.com"), http.DefaultClient)
	assert.Equal(t, ModeAdmin, m.Mode(), "customer key configured implies admin mode")

	cfg := config.Default()
	cfg.BaseURL = "https://api.example.com"
	m = NewManager(cfg, http.DefaultClient)
	assert.Equal(t, ModeNull, m.Mode())
}

func TestMaterialPerMode(t *testing.T) {
	m := NewManager(testConfig("https://api.example.com"), http.DefaultClient)

	m.SetAdmin()
	assert.Equal(t, basicHeader("cust-id", "cust-key"), authHeader(m.Material()))

	m.SetApplication()
	assert.Equal(t, basicHeader("app-id", "app-secret"), authHeader(m.Material()))

	m.SetUser("tok-123")
	assert.Equal(t, "Bearer tok-123", authHeader(m.Material()))

	m.SetNull()
	assert.True(t, m.Material().Empty())
	assert.Equal(t, "", authHeader(m.Material()))
}

func TestSetAdminIdempotent(t *testing.T) {
	m := NewManager(testConfig("https://api.example.com"), http.DefaultClient)

	m.SetAdmin()
	first := authHeader(m.Material())
	m.SetAdmin()
	second := authHeader(m.Material())

	assert.Equal(t, first, second)
	assert.Equal(t, ModeAdmin, m.Mode())
}

func TestLoginSuccess(t *testing.T) {
	var gotAuth, gotGrant string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotGrant = r.PostForm.Get("grant_type")
		w.Write([]byte(`{"result":"success","data":{"access_token":"at-1","refresh_token":"rt-1","token_type":"Bearer","expires_in":3600}}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.SetAdmin()

	require.NoError(t, m.Login(context.Background(), "alice", "s3cret"))

	// Token request carried the application client credentials.
	assert.Equal(t, basicHeader("app-id", "app-secret"), gotAuth)
	assert.Equal(t, "password", gotGrant)

	// Manager ended in user mode with the issued bearer token.
	assert.Equal(t, ModeUser, m.Mode())
	assert.Equal(t, "Bearer at-1", authHeader(m.Material()))

	bearer, refresh := m.Tokens()
	assert.Equal(t, "at-1", bearer)
	assert.Equal(t, "rt-1", refresh)
}

func TestLoginFailureRestoresState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"result":"error","message":"invalid credentials","data":null}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.SetAdmin()
	before := authHeader(m.Material())

	err := m.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	assert.Equal(t, ModeAdmin, m.Mode(), "failed login must leave the mode untouched")
	assert.Equal(t, before, authHeader(m.Material()))
}

func TestLoginWithoutClientCredentials(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "https://api.example.com"
	m := NewManager(cfg, http.DefaultClient)

	err := m.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, ModeNull, m.Mode())
}

func TestLoginCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "code-1", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/cb", r.PostForm.Get("redirect_uri"))
		w.Write([]byte(`{"result":"success","data":{"access_token":"at-2","refresh_token":"rt-2"}}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	require.NoError(t, m.LoginCode(context.Background(), "code-1", "https://app.example.com/cb"))
	assert.Equal(t, ModeUser, m.Mode())
}

func TestRefreshReplacesTokenPair(t *testing.T) {
	var gotAuth, gotRefresh string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotRefresh = r.PostForm.Get("refresh_token")
		w.Write([]byte(`{"result":"success","data":{"access_token":"at-new","refresh_token":"rt-new"}}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.RestoreUser("at-old", "rt-old")

	require.NoError(t, m.Refresh(context.Background()))

	assert.Equal(t, "", gotAuth, "refresh must be sent unauthenticated")
	assert.Equal(t, "rt-old", gotRefresh)

	bearer, refresh := m.Tokens()
	assert.Equal(t, "at-new", bearer)
	assert.Equal(t, "rt-new", refresh)
	assert.Equal(t, ModeUser, m.Mode())
}

func TestRefreshFailureKeepsOldPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"result":"error","message":"invalid refresh token","data":null}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.RestoreUser("at-old", "rt-old")

	require.Error(t, m.Refresh(context.Background()))

	bearer, refresh := m.Tokens()
	assert.Equal(t, "at-old", bearer)
	assert.Equal(t, "rt-old", refresh)
	assert.Equal(t, ModeUser, m.Mode())
}

func TestRefreshWithoutToken(t *testing.T) {
	m := NewManager(testConfig("https://api.example.com"), http.DefaultClient)
	require.Error(t, m.Refresh(context.Background()))
}

func TestLogoutRevokesAndStaysNull(t *testing.T) {
	var gotAuth, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/revoke_token/", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotToken = r.PostForm.Get("token")
		w.Write([]byte(`{"result":"success","data":null}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.RestoreUser("at-1", "rt-1")

	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, "", gotAuth, "revoke must be sent unauthenticated")
	assert.Equal(t, "at-1", gotToken)
	assert.Equal(t, ModeNull, m.Mode())

	bearer, refresh := m.Tokens()
	assert.Empty(t, bearer)
	assert.Empty(t, refresh)
}

func TestLogoutFailureDoesNotRestoreUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"result":"fail","data":"revoke unavailable"}`))
	}))
	defer srv.Close()

	m := NewManager(testConfig(srv.URL), srv.Client())
	m.RestoreUser("at-1", "rt-1")

	err := m.Logout(context.Background())
	require.Error(t, err)

	// The caller re-authenticates; the old token must not come back.
	assert.Equal(t, ModeNull, m.Mode())
	bearer, _ := m.Tokens()
	assert.Empty(t, bearer)
}

func TestLogoutWithoutTokenIsNoop(t *testing.T) {
	m := NewManager(testConfig("https://api.example.com"), http.DefaultClient)
	m.SetAdmin()

	require.NoError(t, m.Logout(context.Background()))
	assert.Equal(t, ModeNull, m.Mode())
}
