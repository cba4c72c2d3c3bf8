// Package auth implements the credential state machine for the Chino API.
//
// A Manager owns exactly one active credential variant at a time: the
// customer admin key pair, a user bearer token, the application client
// credentials, or nothing. All transitions go through Manager methods;
// transition-triggering calls (login, refresh, logout) are transactional
// and restore the prior state when the server rejects them.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
)

// Mode identifies the active credential variant.
type Mode int

const (
	ModeNull Mode = iota
	ModeAdmin
	ModeUser
	ModeApplication
)

func (m Mode) String() string {
	switch m {
	case ModeAdmin:
		return "admin"
	case ModeUser:
		return "user"
	case ModeApplication:
		return "application"
	default:
		return "null"
	}
}

// Material is the authentication material attached to a single request.
// It never exposes the underlying credential fields.
type Material struct {
	header string
}

// Apply attaches the material to an outgoing request.
func (m Material) Apply(req *http.Request) {
	if m.header != "" {
		req.Header.Set("Authorization", m.header)
	}
}

// Empty reports whether the material carries no credentials.
func (m Material) Empty() bool {
	return m.header == ""
}

func basicMaterial(user, pass string) Material {
	cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
	return Material{header: "Basic " + cred}
}

func bearerMaterial(token string) Material {
	return Material{header: "Bearer " + token}
}

// Manager holds the active credential and its session artifacts.
// All access is serialized: a request never observes a half-switched state.
type Manager struct {
	mu sync.Mutex

	mode         Mode
	customerID   string
	customerKey  string
	clientID     string
	clientSecret string
	bearerToken  string
	refreshToken string

	httpClient *http.Client
	tokenURL   string
	revokeURL  string
}

// NewManager creates an auth manager from the resolved configuration.
// When a customer key is configured the manager starts in admin mode,
// matching the constructor behavior of the reference clients.
func NewManager(cfg *config.Config, httpClient *http.Client) *Manager {
	m := &Manager{
		mode:         ModeNull,
		customerID:   cfg.CustomerID,
		customerKey:  cfg.CustomerKey,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   httpClient,
		tokenURL:     cfg.APIBase() + "/auth/token/",
		revokeURL:    cfg.APIBase() + "/auth/revoke_token/",
	}
	if m.customerKey != "" {
		m.mode = ModeAdmin
	}
	return m
}

// Mode returns the currently active mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Material returns the per-request authentication material for the
// active mode.
func (m *Manager) Material() Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materialLocked()
}

func (m *Manager) materialLocked() Material {
	switch m.mode {
	case ModeAdmin:
		return basicMaterial(m.customerID, m.customerKey)
	case ModeUser:
		return bearerMaterial(m.bearerToken)
	case ModeApplication:
		return basicMaterial(m.clientID, m.clientSecret)
	default:
		return Material{}
	}
}

// SetAdmin switches to the customer admin key pair.
func (m *Manager) SetAdmin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeAdmin
}

// SetUser switches to a caller-supplied bearer token.
func (m *Manager) SetUser(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeUser
	m.bearerToken = token
}

// SetApplication switches to the application client credentials.
func (m *Manager) SetApplication() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeApplication
}

// SetNull clears the active credential.
func (m *Manager) SetNull() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeNull
}

// Tokens returns the current bearer/refresh token pair, for persistence.
func (m *Manager) Tokens() (bearer, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bearerToken, m.refreshToken
}

// RestoreUser installs a persisted token pair and switches to user mode.
func (m *Manager) RestoreUser(bearer, refresh string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = ModeUser
	m.bearerToken = bearer
	m.refreshToken = refresh
}

// snapshot captures the mutable credential state for transactional restore.
type snapshot struct {
	mode         Mode
	bearerToken  string
	refreshToken string
}

func (m *Manager) snapshotLocked() snapshot {
	return snapshot{mode: m.mode, bearerToken: m.bearerToken, refreshToken: m.refreshToken}
}

func (m *Manager) restoreLocked(s snapshot) {
	m.mode = s.mode
	m.bearerToken = s.bearerToken
	m.refreshToken = s.refreshToken
}

// Login exchanges a username and password for a bearer/refresh token pair
// (password grant). The token request itself is presented with the
// application client credentials, so login performs an implicit switch to
// application mode before the call; on success the manager ends in user
// mode, on failure it is restored exactly as it was.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clientID == "" {
		return output.ErrPrecondition("login requires application client credentials")
	}

	prior := m.snapshotLocked()
	m.mode = ModeApplication

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	if err := m.tokenCallLocked(ctx, m.tokenURL, form, m.materialLocked()); err != nil {
		m.restoreLocked(prior)
		return err
	}

	m.mode = ModeUser
	return nil
}

// LoginCode exchanges an authorization code for a bearer/refresh token pair
// (authorization_code grant). Same transactional behavior as Login.
func (m *Manager) LoginCode(ctx context.Context, code, redirectURI string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clientID == "" {
		return output.ErrPrecondition("code exchange requires application client credentials")
	}

	prior := m.snapshotLocked()
	m.mode = ModeApplication

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	if err := m.tokenCallLocked(ctx, m.tokenURL, form, m.materialLocked()); err != nil {
		m.restoreLocked(prior)
		return err
	}

	m.mode = ModeUser
	return nil
}

// Refresh replaces the bearer/refresh token pair using the stored refresh
// token. The request is sent unauthenticated per protocol. On failure the
// prior token pair remains in place.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.refreshToken == "" {
		return output.ErrAuth("No refresh token available")
	}

	prior := m.snapshotLocked()

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", m.refreshToken)
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	if err := m.tokenCallLocked(ctx, m.tokenURL, form, Material{}); err != nil {
		m.restoreLocked(prior)
		return err
	}

	m.mode = ModeUser
	return nil
}

// Logout revokes the bearer token. The credential is cleared to null
// before the revoke call is issued, and is not restored even when the
// call fails: the caller is responsible for re-authenticating.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.bearerToken
	m.mode = ModeNull
	m.bearerToken = ""
	m.refreshToken = ""

	if token == "" {
		return nil
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return output.ErrTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return output.ErrAPI(resp.StatusCode, fmt.Sprintf("token revoke failed: %s", strings.TrimSpace(string(body))))
	}
	return nil
}

// tokenCallLocked posts a form-encoded grant request to the token endpoint
// and installs the returned token pair. The caller holds the mutex and is
// responsible for restoring prior state on error.
func (m *Manager) tokenCallLocked(ctx context.Context, endpoint string, form url.Values, material Material) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	material.Apply(req)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return output.ErrTransport(err)
	}
	defer resp.Body.Close()

	var env struct {
		Result  string `json:"result"`
		Message string `json:"message"`
		Data    struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			TokenType    string `json:"token_type"`
			ExpiresIn    int64  `json:"expires_in"`
		} `json:"data"`
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return output.ErrTransport(err)
	}

	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &env) == nil && env.Message != "" {
			return output.ErrAPI(resp.StatusCode, env.Message)
		}
		return output.ErrAPI(resp.StatusCode, fmt.Sprintf("token request failed (HTTP %d)", resp.StatusCode))
	}

	if err := json.Unmarshal(body, &env); err != nil {
		return output.ErrTransport(fmt.Errorf("invalid token response: %w", err))
	}
	if env.Data.AccessToken == "" {
		return output.ErrAPI(resp.StatusCode, "token response missing access_token")
	}

	m.bearerToken = env.Data.AccessToken
	if env.Data.RefreshToken != "" {
		m.refreshToken = env.Data.RefreshToken
	}
	return nil
}
