package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/tenantry/internal/account/domain"
	httpapi "github.com/aussiebroadwan/tenantry/internal/account/http"
	"github.com/aussiebroadwan/tenantry/internal/account/identity"
	"github.com/aussiebroadwan/tenantry/internal/account/mail"
	"github.com/aussiebroadwan/tenantry/internal/account/metrics"
	"github.com/aussiebroadwan/tenantry/internal/account/oauthstate"
	"github.com/aussiebroadwan/tenantry/internal/account/policy"
	"github.com/aussiebroadwan/tenantry/internal/account/service"
	"github.com/aussiebroadwan/tenantry/internal/account/store"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/postgres"
	"github.com/aussiebroadwan/tenantry/internal/account/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenantry/pkg/cryptox"
	"github.com/aussiebroadwan/tenantry/pkg/jwtx"
	"github.com/aussiebroadwan/tenantry/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is set at build time via -ldflags "-X ...app.BuildVersion=...".
var BuildVersion = "v0.1.0-dev"

// Application encapsulates the account service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db      store.Store
	redis   *redis.Client // nil with the in-memory state store
	metrics *metrics.Metrics
	policy  *policy.Policy

	// Services
	identity            *identity.Local
	membershipService   *service.MembershipService
	inviteService       *service.InviteService
	housekeepingService *service.HousekeepingService
	workflow            *service.Workflow

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "account-service",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg:     cfg,
		logger:  NewLogger(cfg),
		metrics: metrics.New(),
	}

	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)

	if err := app.initServices(ctx); err != nil {
		app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// OpenStore connects the configured database driver without migrating it.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "sqlite", "":
		db, err := sqlite.NewStore(fmt.Sprintf("file:%s", cfg.DatabaseFile))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return db, nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres driver")
		}
		db, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return fmt.Errorf("start housekeeping: %w", err)
	}

	app.logger.Info("account service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.housekeepingService.Stop()
			app.closeBackends()
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
	app.logger.Info("shutting down account service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.housekeepingService.Stop(); err != nil {
		app.logger.Error("error stopping housekeeping", "error", err)
	}

	app.closeBackends()
	app.logger.Info("account service stopped")
	return nil
}

// Sweep runs one housekeeping pass and releases the backends.
func (app *Application) Sweep(ctx context.Context) service.HousekeepingReport {
	defer app.closeBackends()
	return app.housekeepingService.RunOnce(slogx.WithContext(ctx, app.logger))
}

func (app *Application) closeBackends() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
		app.redis = nil
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
		}
		app.db = nil
	}
}

// initServices builds the identity adapter, policy and account services
func (app *Application) initServices(ctx context.Context) error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	key, err := cryptox.LoadOrCreateEd25519Key(app.cfg.SessionKeyFile)
	if err != nil {
		return fmt.Errorf("failed to load session key: %w", err)
	}
	signer, err := jwtx.NewSigner(key)
	if err != nil {
		return fmt.Errorf("failed to build session signer: %w", err)
	}

	states, err := app.initStateStore(ctx)
	if err != nil {
		return err
	}

	opts := []identity.Option{
		identity.WithIssuer(app.cfg.SessionIssuer),
		identity.WithSessionTTL(app.cfg.SessionTTL),
	}
	if app.cfg.GoogleSignIn() {
		google, err := identity.NewGoogleClient(ctx, app.cfg.GoogleClientID, app.cfg.GoogleClientSecret, app.cfg.GoogleRedirectURL)
		if err != nil {
			return fmt.Errorf("failed to configure google sign-in: %w", err)
		}
		opts = append(opts, identity.WithOAuth(domain.ProviderGoogle, google))
		app.logger.Info("google sign-in enabled")
	}
	app.identity = identity.NewLocal(app.db, cryptox.NewHasher(pepper), signer, states, opts...)

	app.policy, err = policy.New(policy.Options{AllowAdminInvites: app.cfg.InviteAllowAdmins})
	if err != nil {
		return fmt.Errorf("failed to load role policy: %w", err)
	}

	mailer, err := app.initMailer(ctx)
	if err != nil {
		return err
	}

	app.membershipService = service.NewMembershipService(app.db, app.metrics)
	app.inviteService = &service.InviteService{
		Store:       app.db,
		Policy:      app.policy,
		Mailer:      mailer,
		Metrics:     app.metrics,
		TTL:         app.cfg.InviteTTL,
		BaseURL:     app.cfg.AppURL,
		MailTimeout: app.cfg.OperationTimeout,
	}
	app.workflow = &service.Workflow{
		Identity:    app.identity,
		Memberships: app.membershipService,
		Invites:     app.inviteService,
		Policy:      app.policy,
		Metrics:     app.metrics,
		Timeout:     app.cfg.OperationTimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.inviteService,
		app.metrics,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.OrphanBusinessGrace,
	)

	return nil
}

func (app *Application) initStateStore(ctx context.Context) (oauthstate.Store, error) {
	if app.cfg.RedisURL == "" {
		app.logger.Info("oauth state kept in memory")
		return oauthstate.NewMemoryStore(), nil
	}

	rdb, err := oauthstate.NewRedisClient(ctx, app.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	app.redis = rdb
	return oauthstate.NewRedisStore(rdb), nil
}

func (app *Application) initMailer(ctx context.Context) (mail.Sender, error) {
	switch app.cfg.MailDriver {
	case "gmail":
		sender, err := mail.NewGmailSender(ctx, app.cfg.GoogleMailerCredentials, app.cfg.GoogleMailerImpersonate)
		if err != nil {
			return nil, fmt.Errorf("failed to configure gmail: %w", err)
		}
		return sender, nil
	case "smtp":
		if app.cfg.SMTPHost == "" || app.cfg.MailFrom == "" {
			return nil, errors.New("SMTP_HOST and MAIL_FROM are required for the smtp mail driver")
		}
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.MailFrom,
		}), nil
	case "log", "":
		if app.cfg.Env == "prod" {
			app.logger.Warn("mail driver is log; invites will not be delivered")
		}
		return mail.LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_DRIVER %q", app.cfg.MailDriver)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.metrics, app.logger)

	router.Workflow = app.workflow
	router.AppURL = app.cfg.AppURL
	router.Cookie = httpapi.SessionCookie{
		Name:   app.cfg.SessionCookie,
		Secure: app.cfg.Env != "dev",
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
