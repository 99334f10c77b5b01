package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"

	"expensedesk/internal/config"
	"expensedesk/internal/email/noop"
	"expensedesk/internal/email/ses"
	"expensedesk/internal/form"
	"expensedesk/internal/handler"
	"expensedesk/internal/middleware"
	"expensedesk/internal/notify"
	"expensedesk/internal/port"
	"expensedesk/internal/preview"
	"expensedesk/internal/repository/sqlrepo"
	"expensedesk/internal/router"
	"expensedesk/internal/service"
	"expensedesk/internal/session"
	"expensedesk/internal/sessionstore"
	"expensedesk/internal/storage"
	s3storage "expensedesk/internal/storage/s3"
	"expensedesk/internal/submission"
	"expensedesk/internal/validator"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(newLogger(cfg.Log))

	if err := sqlrepo.MigrateUp(&cfg.DB); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	db, err := sqlrepo.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := sqlrepo.NewUserRepo(db)
	submissionRepo := sqlrepo.NewSubmissionRepo(db)
	recordRepo := sqlrepo.NewSessionRecordRepo(db)

	// Attachment blobs
	blobs, err := s3storage.NewBlobStore(context.Background(), &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	sweeper := storage.NewSweeper(blobs)

	// Initialize email sender
	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(context.Background(), cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		slog.Info("email: using SES", "from", cfg.Email.FromAddress)
	} else {
		emailSender = noop.NewNoopSender(cfg.Email.FrontendURL)
		slog.Info("email: using noop sender")
	}

	// Form sessions
	forms := form.NewRegistry()
	rules := validator.NewFromForms(forms)
	notifier := notify.NewLogNotifier()
	previews := preview.NewRegistry()
	memoryStores := sessionstore.NewMemoryFactory()

	storeFor := func(userID uuid.UUID) port.SessionStore {
		if cfg.Storage.Backend == config.BackendMemory {
			return memoryStores.For(userID)
		}
		return sessionstore.ForUser(recordRepo, userID, notifier)
	}

	sessions := session.NewManager(forms, func(userID uuid.UUID) session.Deps {
		return session.Deps{
			Store:     storeFor(userID),
			Handles:   previews.ForUser(userID),
			Validator: rules,
			Notifier:  notifier,
			Sweeper:   sweeper,
			Debounce:  cfg.Session.DraftDebounce,
		}
	}, session.ManagerConfig{
		IdleTimeout:   cfg.Session.IdleTimeout,
		SweepInterval: cfg.Session.SweepInterval,
	})

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	seedProfile, err := service.SeedProfileDraft(forms, storeFor)
	if err != nil {
		return err
	}
	userSvc := service.NewUserService(userRepo, seedProfile)
	fileSvc := service.NewFileService(blobs, &cfg.S3, cfg.Session.MaxAvatarSizeKB)
	adminSvc := service.NewAdminService(forms, submissionRepo, userRepo)
	formSvc := service.NewFormService(service.FormServiceDeps{
		Forms:       forms,
		Sessions:    sessions,
		Files:       fileSvc,
		Previews:    previews,
		StoreFor:    storeFor,
		Validator:   rules,
		Submitter:   submission.NewClient(&cfg.Submission),
		Submissions: submissionRepo,
		Users:       userRepo,
		Email:       emailSender,
		Notifier:    notifier,
	})

	var loginLimiter *limiter.Limiter
	if cfg.RateLimit.Login != "" {
		loginLimiter, err = middleware.NewIPLimiter(cfg.RateLimit.Login)
		if err != nil {
			return fmt.Errorf("failed to configure login rate limit: %w", err)
		}
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Form:   handler.NewFormHandler(formSvc),
		User:   handler.NewUserHandler(userSvc),
		Admin:  handler.NewAdminHandler(adminSvc),
		Health: handler.NewHealthHandler(
			map[string]handler.ReadinessCheck{"database": db.PingContext},
			map[string]func() int{"open_sessions": sessions.Len, "live_previews": previews.Live},
		),
	}, cfg.CORS.AllowedOrigins, loginLimiter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The manager outlives the HTTP server so pending drafts are flushed
	// after the last request has finished.
	managerCtx, stopManager := context.WithCancel(context.Background())
	defer stopManager()
	managerDone := make(chan struct{})
	go func() {
		sessions.Start(managerCtx)
		close(managerDone)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Port, "session_backend", cfg.Storage.Backend, "db_driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			stopManager()
			<-managerDone
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	stopManager()
	<-managerDone
	slog.Info("server stopped")
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
