package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"leasecli/internal/config"
	apierrors "leasecli/internal/errors"
	"leasecli/internal/infrastructure"
	custommw "leasecli/internal/middleware"
	"leasecli/internal/services"
	handlers "leasecli/internal/transport/http"
	ws "leasecli/internal/websocket"
	"leasecli/pkg/contracts"
)

// Application is the composition root for the web server. Everything the
// server needs is constructed once here and wired by hand.
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Hub           *ws.Hub
	RentalService *services.RentalService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders

	errorHandler *apierrors.ErrorHandler
	otel         *custommw.OTelMiddleware
}

// NewApplication loads configuration and builds a fully wired application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", contracts.AppName),
		slog.String("version", contracts.Version))

	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution()

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices constructs the hub and the rental service. The OTel
// middleware is created here too because the service records its batch and
// export metrics on the same meter.
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Config.WebSocket, a.Logger)
	hub.Start()
	a.Hub = hub

	var metrics *infrastructure.BusinessMetrics
	if a.OTelProviders != nil {
		otelMW, err := custommw.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
		}
		a.otel = otelMW
		metrics = otelMW.Metrics()
	}

	a.RentalService = services.NewRentalService(
		a.Logger,
		a.Config.Processing,
		a.Paths,
		hub,
		metrics,
	)

	a.errorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	return nil
}

// setupRouter assembles the middleware chain and all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that never wraps the ResponseWriter may run before
	// the WebSocket route, or the upgrade handshake breaks.
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	r.With(custommw.WebSocketTraceMiddleware(a.Logger)).Get("/ws", a.handleWebSocket)

	// Prometheus scrapes stay outside the full middleware chain.
	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		if a.otel != nil {
			r.Use(a.otel.Handler)
		}
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))

		secure := custommw.DefaultSecureHeaders()
		secure.DevMode = a.Config.Logging.Development
		r.Use(secure.Handler)

		if a.Config.Security.EnableCORS {
			r.Use(custommw.CORS(a.corsConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(custommw.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupStaticRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes registers the JSON API. Batch processing and report
// downloads can run long, so they live in their own timeout group with an
// audit trail; the small read endpoints use the server read timeout.
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Server.ReadTimeout, a.Logger))
			r.Use(render.SetContentType(render.ContentTypeJSON))

			healthHandler := handlers.NewHealthHandler()
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/version", healthHandler.Version)
		})

		r.Group(func(r chi.Router) {
			r.Use(custommw.Timeout(a.Config.Processing.BatchTimeout, a.Logger))
			r.Use(custommw.AuditLog(a.Logger))

			rentalHandler := handlers.NewRentalHandler(
				a.RentalService,
				a.Config.Processing,
				a.Logger,
				a.errorHandler,
			)
			r.Mount("/rental", rentalHandler.Routes())
		})
	})
}

// setupStaticRoutes serves the bundled frontend from the web directory.
func (a *Application) setupStaticRoutes(r chi.Router) {
	r.Route("/static", func(r chi.Router) {
		r.Use(chimiddleware.Compress(5))
		r.Handle("/*", http.StripPrefix("/static", http.FileServer(http.Dir(a.Paths.StaticDir))))
	})

	r.Get("/", a.serveIndex)
}

// serveIndex serves web/index.html, falling back to a plain version banner
// when no frontend has been installed next to the binary.
func (a *Application) serveIndex(w http.ResponseWriter, r *http.Request) {
	indexPath := filepath.Join(a.Paths.WebDir, "index.html")
	if config.FileExists(indexPath) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		http.ServeFile(w, r, indexPath)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\nAPI: /api/health\n", contracts.GetVersionString())
}

// corsConfig derives the CORS policy from configuration. Development mode
// additionally admits the local frontend dev server.
func (a *Application) corsConfig() custommw.CORSConfig {
	cfg := custommw.CORSConfig{
		AllowedOrigins: []string{
			fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
			fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
		},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	cfg.AllowedOrigins = append(cfg.AllowedOrigins, a.Config.Security.AllowedOrigins...)

	if a.Config.Logging.Development {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		)
	}

	return cfg
}

// handleWebSocket upgrades the connection and hands it to the hub, which
// then feeds it batch progress events.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	a.Logger.InfoContext(ctx, "websocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr),
		slog.String("origin", r.Header.Get("Origin")))

	upgrader := websocket.Upgrader{
		ReadBufferSize:  a.Config.WebSocket.ReadBufferSize,
		WriteBufferSize: a.Config.WebSocket.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			// Same-origin and non-browser clients send no Origin header.
			if origin == "" {
				return true
			}
			if a.Config.Logging.Development {
				return true
			}
			for _, allowed := range a.corsConfig().AllowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			a.Logger.WarnContext(ctx, "websocket origin rejected",
				slog.String("origin", origin))
			return false
		},
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			a.Logger.ErrorContext(ctx, "websocket upgrade failed",
				slog.Int("status", status),
				slog.String("reason", reason.Error()))
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader's Error callback has already logged and responded.
		return
	}

	ws.ServeWS(a.Hub, conn)
}

// createServer builds the HTTP server from configuration.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start launches the HTTP listener and background checks. A listener error
// cancels the supplied context so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "startup health check warnings",
			slog.String("warnings", err.Error()))
	}

	url := fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
	a.Logger.InfoContext(ctx, "server ready", slog.String("address", url))

	if a.Config.Server.OpenBrowser {
		go a.openBrowserWhenReady(ctx, url)
	}

	return nil
}

// Stop drains the server, then the hub, then the telemetry providers.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error",
				slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run starts the application and blocks until an interrupt arrives or the
// listener fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the working directories are writable.
// Failures are warnings: the API can still serve, but uploads or exports
// will fail later with clearer errors.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	directories := map[string]string{
		"data":    a.Paths.DataDir,
		"uploads": a.Paths.UploadsDir,
		"reports": a.Paths.ReportsDir,
		"cache":   a.Paths.CacheDir,
		"logs":    a.Paths.LogsDir,
	}

	var warnings []string
	for name, dir := range directories {
		probe := filepath.Join(dir, ".write_test")
		if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s directory not writable: %s", name, dir))
			continue
		}
		os.Remove(probe)
	}

	if len(warnings) > 0 {
		return fmt.Errorf("%s", strings.Join(warnings, "; "))
	}

	a.Logger.InfoContext(ctx, "startup health check passed")
	return nil
}

// openBrowserWhenReady polls the health endpoint, then opens the default
// browser. The analyzer is a local tool; opening the UI saves the user a
// trip to the address bar.
func (a *Application) openBrowserWhenReady(ctx context.Context, url string) {
	healthURL := url + "/api/health"

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		resp, err := http.Get(healthURL)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				if err := openBrowser(url); err != nil {
					a.Logger.Warn("could not open browser",
						slog.String("url", url),
						slog.String("error", err.Error()))
					fmt.Printf("\n%s is running at %s\n\n", contracts.AppName, url)
				}
				return
			}
		}

		time.Sleep(500 * time.Millisecond)
	}

	a.Logger.Warn("server did not become ready for browser opening", slog.String("url", url))
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
