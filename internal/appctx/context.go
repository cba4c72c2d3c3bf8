// Package appctx provides the shared application context wired into
// every command.
package appctx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/chino-io/chino-go/internal/api"
	"github.com/chino-io/chino-go/internal/auth"
	"github.com/chino-io/chino-go/internal/blob"
	"github.com/chino-io/chino-go/internal/config"
	"github.com/chino-io/chino-go/internal/output"
	"github.com/chino-io/chino-go/internal/resilience"
	"github.com/chino-io/chino-go/internal/resources"
)

type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Auth   *auth.Manager
	API    *api.Client
	Blob   *blob.Engine
	Store  *auth.Store
	Output *output.Writer
	Logger *slog.Logger
	Retry  resilience.Policy

	Repositories *resources.Repositories
	Schemas      *resources.Schemas
	Documents    *resources.Documents
	Collections  *resources.Collections
	Users        *resources.Users
	Groups       *resources.Groups
	Permissions  *resources.Permissions
	Search       *resources.Search

	// Flags holds the global flag values.
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	Verbose int
	NoRetry bool
}

// NewApp wires the full client stack from a loaded configuration.
func NewApp(cfg *config.Config) *App {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	httpClient := &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	authMgr := auth.NewManager(cfg, httpClient)
	client := api.NewClient(cfg, authMgr, logger)

	format := output.FormatAuto
	switch cfg.Format {
	case "json":
		format = output.FormatJSON
	case "quiet":
		format = output.FormatQuiet
	case "plain":
		format = output.FormatPlain
	}

	retry := resilience.DefaultPolicy()
	retry.Logger = logger

	return &App{
		Config: cfg,
		Auth:   authMgr,
		API:    client,
		Blob:   blob.NewEngine(client, cfg.ChunkSize, logger),
		Store:  auth.NewStore(config.GlobalConfigDir()),
		Output: output.NewWriter(format),
		Logger: logger,
		Retry:  retry,

		Repositories: resources.NewRepositories(client),
		Schemas:      resources.NewSchemas(client),
		Documents:    resources.NewDocuments(client),
		Collections:  resources.NewCollections(client),
		Users:        resources.NewUsers(client),
		Groups:       resources.NewGroups(client),
		Permissions:  resources.NewPermissions(client),
		Search:       resources.NewSearch(client),
	}
}

// ApplyFlags applies global flag values on top of the configuration.
func (a *App) ApplyFlags() {
	if a.Flags.Quiet {
		a.Output = output.NewWriter(output.FormatQuiet)
	} else if a.Flags.JSON {
		a.Output = output.NewWriter(output.FormatJSON)
	}

	verbose := a.Flags.Verbose
	if env := os.Getenv("CHINO_DEBUG"); env != "" && env != "0" && verbose == 0 {
		verbose = 1
	}
	if verbose > 0 {
		a.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		a.rebuildClients()
	}
	if a.Flags.NoRetry {
		a.Retry.MaxAttempts = 1
	}
}

// rebuildClients recreates the dispatch stack so the current logger
// reaches every layer.
func (a *App) rebuildClients() {
	client := api.NewClient(a.Config, a.Auth, a.Logger)
	a.API = client
	a.Blob = blob.NewEngine(client, a.Config.ChunkSize, a.Logger)
	a.Retry.Logger = a.Logger

	a.Repositories = resources.NewRepositories(client)
	a.Schemas = resources.NewSchemas(client)
	a.Documents = resources.NewDocuments(client)
	a.Collections = resources.NewCollections(client)
	a.Users = resources.NewUsers(client)
	a.Groups = resources.NewGroups(client)
	a.Permissions = resources.NewPermissions(client)
	a.Search = resources.NewSearch(client)
}

// Origin returns the host of the configured base URL, used as the key
// for stored credentials.
func (a *App) Origin() string {
	u, err := url.Parse(a.Config.BaseURL)
	if err != nil || u.Host == "" {
		return a.Config.BaseURL
	}
	return u.Host
}

// RestoreSession loads saved tokens for the configured origin, if any,
// and moves the auth manager into user mode with them.
func (a *App) RestoreSession() {
	creds, err := a.Store.Load(a.Origin())
	if err != nil || creds == nil || creds.AccessToken == "" {
		return
	}
	a.Auth.RestoreUser(creds.AccessToken, creds.RefreshToken)
}

// SaveSession persists the current token pair for the configured origin.
func (a *App) SaveSession() error {
	bearer, refresh := a.Auth.Tokens()
	return a.Store.Save(a.Origin(), &auth.Credentials{
		AccessToken:  bearer,
		RefreshToken: refresh,
	})
}

// ClearSession drops any stored credentials for the configured origin.
func (a *App) ClearSession() error {
	return a.Store.Delete(a.Origin())
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
