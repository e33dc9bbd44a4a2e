// Package appctx provides the shared application context for commands.
package appctx

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/auth"
	"github.com/meropasal/pasal-cli/internal/config"
	"github.com/meropasal/pasal-cli/internal/localstore"
	"github.com/meropasal/pasal-cli/internal/output"
	"github.com/meropasal/pasal-cli/internal/store"
)

type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config *config.Config
	Local  *localstore.Store
	Tokens *auth.TokenStore
	API    *api.Client
	Store  *store.Store
	Output *output.Writer
	Logger *slog.Logger

	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	JSON    bool
	Quiet   bool
	Styled  bool
	IDsOnly bool
	Count   bool

	Shop    string
	BaseURL string
	DataDir string
	Format  string

	Verbose bool
}

// NewApp wires the application from the resolved configuration.
func NewApp(cfg *config.Config) *App {
	local := localstore.New(cfg.DataDir)
	tokens := auth.NewTokenStore(local)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client := api.NewClient(cfg.BaseURL, tokens, api.WithLogger(logger))
	st := store.New(client, local, tokens)
	st.Shops.Seed(cfg.ShopID)

	format, _ := output.ParseFormat(cfg.Format)

	return &App{
		Config: cfg,
		Local:  local,
		Tokens: tokens,
		API:    client,
		Store:  st,
		Logger: logger,
		Output: output.New(output.Options{Format: format, Writer: os.Stdout}),
	}
}

// ApplyFlags applies global flag values on top of the configuration.
func (a *App) ApplyFlags() {
	format := output.FormatAuto
	switch {
	case a.Flags.IDsOnly:
		format = output.FormatIDs
	case a.Flags.Count:
		format = output.FormatCount
	case a.Flags.Quiet:
		format = output.FormatQuiet
	case a.Flags.JSON:
		format = output.FormatJSON
	case a.Flags.Styled:
		format = output.FormatStyled
	default:
		if f, err := output.ParseFormat(a.Config.Format); err == nil {
			format = f
		}
	}
	a.Output = output.New(output.Options{Format: format, Writer: os.Stdout})

	if a.Flags.Verbose || os.Getenv("PASAL_DEBUG") != "" {
		a.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		a.API.SetLogger(a.Logger)
	}
}

// OK outputs a success response.
func (a *App) OK(data any, summary string) error {
	return a.Output.OK(data, summary)
}

// Err outputs an error response.
func (a *App) Err(err error) error {
	return a.Output.Err(err)
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
