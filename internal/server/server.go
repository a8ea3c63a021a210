package server

import (
	"context"
	"net/http"
	"time"

	apihttp "github.com/deskpilot/deskpilot/internal/api/http"
	"github.com/deskpilot/deskpilot/internal/api/middleware"
	"github.com/deskpilot/deskpilot/internal/domain/cycle"
	"github.com/deskpilot/deskpilot/internal/domain/layout"
	"github.com/deskpilot/deskpilot/internal/domain/project"
	"github.com/deskpilot/deskpilot/internal/domain/recovery"
	"github.com/deskpilot/deskpilot/internal/domain/session"
	"github.com/deskpilot/deskpilot/internal/infrastructure/config"
	"github.com/deskpilot/deskpilot/internal/infrastructure/logging"
	"github.com/deskpilot/deskpilot/internal/infrastructure/monitoring"
	"github.com/deskpilot/deskpilot/internal/infrastructure/resilience"
	"github.com/deskpilot/deskpilot/internal/providers/launcher"
	"github.com/deskpilot/deskpilot/internal/providers/positioner"
	"github.com/deskpilot/deskpilot/internal/providers/screen"
	"github.com/deskpilot/deskpilot/internal/providers/state"
	"github.com/deskpilot/deskpilot/internal/providers/wm"
	"github.com/deskpilot/deskpilot/internal/shared/paths"
	"github.com/deskpilot/deskpilot/internal/shared/types"
	"github.com/deskpilot/deskpilot/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Version is stamped at build time.
var Version = "dev"

// Server wires the daemon together: providers, domain services, the
// control API, and the event stream.
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	log    *logging.Logger
}

// New builds a fully wired server from configuration. A missing or
// invalid projects file is not fatal: the daemon starts with no project
// registry and activation endpoints answer 503 until it is fixed.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	metrics := monitoring.NewMetrics()

	breaker := resilience.New("wm", resilience.Settings{
		Cooldown:            cfg.Breaker.Cooldown,
		MaxRecoveryAttempts: cfg.Breaker.MaxRecoveryAttempts,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Info("breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if to == resilience.StateOpen {
				metrics.BreakerState.Set(1)
				metrics.BreakerTrips.Inc()
			} else {
				metrics.BreakerState.Set(0)
			}
		},
	})

	cli := wm.NewCLI(cfg.WM.Binary, cfg.WM.CallTimeout)
	client := wm.NewGuarded(cli, breaker, metrics, log)

	pos := positioner.NewHelper(cfg.Helper.Binary, cfg.Helper.CallTimeout)
	detector := screen.NewHelper(cfg.Helper.Binary, cfg.Helper.CallTimeout)

	layoutCfg := layout.Config{
		SmallScreenThresholdInches: cfg.Layout.SmallScreenThresholdInches,
		WindowHeightPercent:        cfg.Layout.WindowHeightPercent,
		MaxWindowWidthInches:       cfg.Layout.MaxWindowWidthInches,
		IDESide:                    layout.Side(cfg.Layout.IDESide),
		Justification:              layout.Side(cfg.Layout.Justification),
		MaxGapPercent:              cfg.Layout.MaxGapPercent,
	}.Normalize()

	registry, err := project.Load(paths.Expand(cfg.Projects.File))
	if err != nil {
		log.Warn("projects file unavailable, activation disabled until it loads",
			zap.String("file", cfg.Projects.File), zap.Error(err))
		registry = nil
	}

	store := state.NewFileStore(paths.Expand(cfg.Projects.StateFile))

	launchers := []launcher.Launcher{
		launcher.NewEditor(cfg.Apps.EditorBundleID),
		launcher.NewBrowser(cfg.Apps.BrowserBundleID),
	}

	hub := ws.NewHub(metrics, log.Named("ws"))

	orch := session.New(registry, client, launchers, store,
		session.PollConfig{Interval: cfg.Polling.Interval, Timeout: cfg.Polling.Timeout},
		hub, metrics, log.Named("session"))

	roles := []recovery.RoleBinding{
		{Role: types.RoleEditor, BundleID: cfg.Apps.EditorBundleID},
		{Role: types.RoleBrowser, BundleID: cfg.Apps.BrowserBundleID},
	}
	rec := recovery.New(client, pos, detector, layoutCfg, roles, metrics, log.Named("recovery"))

	cycler := cycle.New(client)

	handlers := apihttp.NewHandlers(orch, cycler, rec, breaker, hub, Version)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	registerRoutes(router, handlers, hub)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	return &Server{
		cfg:    cfg,
		router: router,
		http: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // streaming endpoints manage their own deadlines
		},
		log: log,
	}, nil
}

func registerRoutes(router *gin.Engine, h *apihttp.Handlers, hub *ws.Hub) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/projects", h.ListProjects)
	router.POST("/projects/:id/activate", h.ActivateProject)
	router.POST("/projects/:id/close", h.CloseProject)
	router.POST("/session/exit", h.ExitSession)

	router.POST("/cycle", h.CycleFocus)
	router.POST("/cycle/session", h.StartCycleSession)
	router.POST("/cycle/session/advance", h.AdvanceCycleSession)
	router.POST("/cycle/session/commit", h.CommitCycleSession)
	router.POST("/cycle/session/cancel", h.CancelCycleSession)

	// Recovery sweeps enumerate and move many windows; one at a time is
	// plenty and protects the window manager from a stampede.
	sweeps := router.Group("/recovery")
	sweeps.Use(middleware.GlobalRateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
	}))
	sweeps.POST("/workspace", h.RecoverWorkspace)
	sweeps.POST("/all", h.RecoverAll)

	router.GET("/breaker", h.BreakerStatus)
	router.GET("/stream", hub.HandleConnection)
}

// Run serves until the context is cancelled, then drains in-flight
// requests.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("daemon listening", zap.String("addr", s.http.Addr))
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
