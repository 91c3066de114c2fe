package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/assetdocs/accessd/internal/access/http"
	"github.com/assetdocs/accessd/internal/access/notify"
	"github.com/assetdocs/accessd/internal/access/service"
	"github.com/assetdocs/accessd/internal/access/store"
	"github.com/assetdocs/accessd/internal/access/store/drivers/sqlite"
	"github.com/assetdocs/accessd/pkg/cryptox"
	"github.com/assetdocs/accessd/pkg/jwtx"
	"github.com/assetdocs/accessd/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the access service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.EdDSASigner

	// Delivery channels
	mailer notify.Mailer
	sms    notify.SMSSender

	// Services
	sessionService      *service.SessionService
	inviteService       *service.InviteService
	contributorService  *service.ContributorService
	stepUpService       *service.StepUpService
	alertService        *service.AlertService
	twoFactorService    *service.TwoFactorService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "access-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSessionKey(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer

	app.initDelivery()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("access service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down access service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("access service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initDelivery picks real delivery transports when credentials are present and
// log-only stand-ins otherwise, so dev environments run without accounts.
func (app *Application) initDelivery() {
	if app.cfg.SMTP.Configured() {
		app.mailer = notify.NewSMTPMailer(app.cfg.SMTP)
		app.logger.Info("email delivery via SMTP", "host", app.cfg.SMTP.Host)
	} else {
		app.mailer = notify.LogMailer{}
		app.logger.Warn("SMTP not configured, emails will be logged only")
	}

	if app.cfg.Twilio.Configured() {
		app.sms = notify.NewTwilioSMSSender(app.cfg.Twilio)
		app.logger.Info("SMS delivery via Twilio")
	} else {
		app.sms = notify.LogSMSSender{}
		app.logger.Warn("Twilio not configured, SMS will be logged only")
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.alertService = &service.AlertService{
		Store:  app.db,
		Mailer: app.mailer,
	}

	app.contributorService = &service.ContributorService{Store: app.db}

	app.sessionService = &service.SessionService{
		Store:        app.db,
		Signer:       app.signer,
		Alerts:       app.alertService,
		Contributors: app.contributorService,
		Issuer:       app.cfg.Issuer,
		Audience:     app.cfg.Audience,
		SessionTTL:   app.cfg.SessionTTL,
	}

	app.inviteService = &service.InviteService{
		Store:         app.db,
		Mailer:        app.mailer,
		AppBaseURL:    app.cfg.AppBaseURL,
		SetupTokenTTL: app.cfg.SetupTokenTTL,
	}

	app.stepUpService = &service.StepUpService{
		Store:    app.db,
		SMS:      app.sms,
		Validity: app.cfg.OTPValidity,
	}

	app.twoFactorService = &service.TwoFactorService{
		Store:  app.db,
		Alerts: app.alertService,
		Issuer: app.cfg.Issuer,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(app.signer.PublicKey(), app.cfg.Issuer, app.cfg.Audience)

	router := httpapi.NewRouter(
		app.signer,
		verifier,
		BuildVersion,
		app.cfg.InternalSecret,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.InviteService = app.inviteService
	router.ContributorService = app.contributorService
	router.StepUpService = app.stepUpService
	router.AlertService = app.alertService
	router.TwoFactorService = app.twoFactorService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
