package app

import (
	"context"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	clts "tradebridge/clients"
	"tradebridge/config"
	"tradebridge/internal/view"
	"tradebridge/internal/view/themes"

	"go.uber.org/zap"
)

// Build info - populated from embedded VCS info at init time
var (
	BuildCommit = "dev"
	BuildTime   = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if setting.Value != "" {
					BuildCommit = setting.Value
				}
			case "vcs.time":
				BuildTime = setting.Value
			}
		}
	}
}

// Runner wires the page, the bridge and the stats surface together and owns
// their lifecycles.
type Runner struct {
	clients   *clts.Clients
	cfg       *config.Config
	bridge    *Bridge
	themes    *themes.Store
	theme     string
	statsSrv  *http.Server
	startTime time.Time
}

func NewRunner(clients *clts.Clients, cfg *config.Config) *Runner {
	page := view.NewPage(clients.Logger, view.SystemScheduler(), view.PageConfig{
		HighlightWindow: cfg.Toasts.HighlightWindow,
		ToastDelay:      cfg.Toasts.DismissDelay,
	})

	bridge := NewBridge(
		clients.Logger,
		cfg,
		clients.PlatformEvents,
		clients.PlatformAPI,
		page,
		clients.Notifier,
		view.SystemScheduler(),
	)

	return &Runner{
		clients: clients,
		cfg:     cfg,
		bridge:  bridge,
	}
}

// Bridge exposes the bridge for embedding programs.
func (r *Runner) Bridge() *Bridge {
	return r.bridge
}

// Run starts everything and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.clients.Logger
	r.startTime = time.Now()

	logger.Info("starting bridge",
		zap.String("commit", BuildCommit),
		zap.String("go", runtime.Version()),
	)

	// Theme preference: read at startup, the only durable state.
	store, err := themes.Open(r.cfg.Theme.StorePath, r.cfg.Theme.Default)
	if err != nil {
		logger.Warn("theme store unavailable, using default", zap.Error(err))
		r.theme = r.cfg.Theme.Default
	} else {
		r.themes = store
		defer store.Close()

		theme, err := store.Get()
		if err != nil {
			logger.Warn("failed to read theme preference", zap.Error(err))
			theme = r.cfg.Theme.Default
		}
		r.theme = theme
	}
	logger.Info("theme applied", zap.String("theme", r.theme))

	// Register the configured market slots; embedding programs register
	// their own through the page.
	for _, securityID := range r.cfg.Refresh.Securities {
		r.bridge.Page().RegisterMarketElement(securityID, securityID, true)
	}

	if r.cfg.Stats.Port > 0 {
		r.startStatsServer(r.cfg.Stats.Port)
		defer r.stopStatsServer()
	}

	return r.bridge.Run(ctx)
}

// SetTheme persists a theme preference and applies it for the session.
func (r *Runner) SetTheme(theme string) error {
	if r.themes != nil {
		if err := r.themes.Set(theme); err != nil {
			return err
		}
	}
	r.theme = theme
	return nil
}

// ToggleTheme flips the theme and persists the result.
func (r *Runner) ToggleTheme() (string, error) {
	if r.themes != nil {
		theme, err := r.themes.Toggle()
		if err != nil {
			return "", err
		}
		r.theme = theme
		return theme, nil
	}

	if r.theme == themes.Light {
		r.theme = themes.Dark
	} else {
		r.theme = themes.Light
	}
	return r.theme, nil
}
