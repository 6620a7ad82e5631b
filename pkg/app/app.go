package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tofabd/call-center-shajgoj-sub000/config"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/engine"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/logger"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/refresh"
	"github.com/tofabd/call-center-shajgoj-sub000/internal/web"
	"github.com/tofabd/call-center-shajgoj-sub000/pkg/factory"
	"github.com/tofabd/call-center-shajgoj-sub000/pkg/service"
)

// App represents the main application
type App struct {
	cfg       *config.Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	webServer *http.Server
	engine    *engine.Engine
}

// New creates a new App instance
func New(cfgPath string) (*App, error) {
	// Load configuration
	cfg, err := factory.InitConfigFactory(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.Config{
		Level:           cfg.Logger.Level,
		ReportCaller:    cfg.Logger.ReportCaller,
		File:            cfg.Logger.File,
		RotationCount:   cfg.Logger.RotationCount,
		RotationMaxAge:  cfg.Logger.RotationMaxAge,
		RotationMaxSize: cfg.Logger.RotationMaxSize,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		engine: engine.New(),
	}

	return app, nil
}

// Start starts the application services
func (a *App) Start() error {
	logger.InitLog.Info("Starting call-center console services...")

	// Pull client and refresh scheduler
	if a.cfg.Telephony != nil {
		telephony := service.NewTelephonyService(a.cfg.Telephony)

		dir := a.engine.Directory
		fetch := func(ctx context.Context) error {
			updates, err := telephony.GetExtensions(ctx)
			if err != nil {
				return err
			}
			dir.LoadSnapshot(updates)
			return nil
		}

		a.engine.Scheduler = refresh.New(refresh.Config{
			Period:     a.cfg.Refresh.Period,
			RetryDelay: a.cfg.Refresh.RetryDelay,
			MaxRetries: a.cfg.Refresh.MaxRetries,
		}, fetch)

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.engine.Scheduler.Run(a.ctx)
		}()
	}

	// Push channel consumer
	if a.cfg.Feed != nil {
		feed := service.NewFeedService(a.cfg.Feed, a.engine.Registry, a.engine.Directory, a.engine.Health)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			feed.Run(a.ctx)
		}()
	}

	// Health grading loop
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.engine.Health.Run(a.ctx)
	}()

	// Console API server
	if a.cfg.Web != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.startWeb(); err != nil && err != http.ErrServerClosed {
				logger.InitLog.Errorf("Web server error: %v", err)
			}
		}()
	}

	logger.InitLog.Info("All services started successfully")
	return nil
}

// startWeb starts the console-facing HTTP server
func (a *App) startWeb() error {
	logger.InitLog.Info("Starting web server...")

	if a.cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(web.LoggerMiddleware())
	router.Use(web.CORSMiddleware())

	web.InitRouter(router, a.engine)

	bindAddr := fmt.Sprintf("%s:%d", a.cfg.Web.BindingIPv4, a.cfg.Web.Port)
	if a.cfg.Web.BindingIPv6 != "" {
		bindAddr = fmt.Sprintf("[%s]:%d", a.cfg.Web.BindingIPv6, a.cfg.Web.Port)
	}

	a.webServer = &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.Web.ReadTimeout,
		WriteTimeout: a.cfg.Web.WriteTimeout,
	}

	logger.InitLog.Infof("Web server listening on %s", bindAddr)

	if a.cfg.Web.Scheme == "https" && a.cfg.Web.TLS != nil {
		return a.webServer.ListenAndServeTLS(a.cfg.Web.TLS.Cert, a.cfg.Web.TLS.Key)
	}
	return a.webServer.ListenAndServe()
}

// Stop gracefully stops the application
func (a *App) Stop() {
	logger.InitLog.Info("Stopping application...")

	// Cancel context to stop background tasks
	a.cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if a.webServer != nil {
		logger.InitLog.Info("Shutting down web server...")
		if err := a.webServer.Shutdown(shutdownCtx); err != nil {
			logger.InitLog.Errorf("Web server shutdown error: %v", err)
		}
	}

	// Wait for all goroutines to finish
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InitLog.Info("All services stopped gracefully")
	case <-time.After(35 * time.Second):
		logger.InitLog.Warn("Timeout waiting for services to stop")
	}
}

// Wait blocks until the application is stopped
func (a *App) Wait() {
	a.wg.Wait()
}

// GetConfig returns the application configuration
func (a *App) GetConfig() *config.Config {
	return a.cfg
}

// GetEngine returns the reconciliation engine
func (a *App) GetEngine() *engine.Engine {
	return a.engine
}
