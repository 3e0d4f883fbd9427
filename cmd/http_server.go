package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lihess/lihess-backend/internal"
	"github.com/lihess/lihess-backend/internal/assignment"
	assignmentpg "github.com/lihess/lihess-backend/internal/assignment/postgres"
	"github.com/lihess/lihess-backend/internal/auth"
	authpg "github.com/lihess/lihess-backend/internal/auth/postgres"
	"github.com/lihess/lihess-backend/internal/core/events"
	"github.com/lihess/lihess-backend/internal/importer"
	importerpg "github.com/lihess/lihess-backend/internal/importer/postgres"
	"github.com/lihess/lihess-backend/internal/leave"
	leavepg "github.com/lihess/lihess-backend/internal/leave/postgres"
	"github.com/lihess/lihess-backend/internal/notification"
	notificationpg "github.com/lihess/lihess-backend/internal/notification/postgres"
	"github.com/lihess/lihess-backend/internal/org"
	orgpg "github.com/lihess/lihess-backend/internal/org/postgres"
	"github.com/lihess/lihess-backend/internal/staff"
	staffpg "github.com/lihess/lihess-backend/internal/staff/postgres"
	"github.com/lihess/lihess-backend/internal/transport/rest"
	"github.com/lihess/lihess-backend/internal/workgroup"
	workgrouppg "github.com/lihess/lihess-backend/internal/workgroup/postgres"
	"github.com/lihess/lihess-backend/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	RunE:  runHTTPServer,
	Use:   "httpServer",
	Short: "to run the HR administration HTTP API",
}

func runHTTPServer(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		lg.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	// gorm rides on the same connection pool the health check pings.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		lg.Error("failed to initialize orm", "error", err)
		return err
	}

	eventBus := events.NewEventBus(lg)

	// notifications consume every domain event that carries mail.
	mailer := notification.NewSMTPMailer(cfg.SMTP, lg)
	notificationRepo := notificationpg.NewNotificationRepository(gormDB)
	notificationService := notification.NewService(notificationRepo, mailer, lg)
	notificationHandler := notification.NewHandler(notificationService)
	notification.NewEventHandler(notificationService, lg).RegisterEventHandlers(eventBus)

	assignmentRepo := assignmentpg.NewAssignmentRepository(gormDB)
	assignmentService := assignment.NewService(assignmentRepo, assignmentpg.NewTxManager(gormDB), eventBus, lg)
	assignmentHandler := assignment.NewHandler(assignmentService)

	workgroupRepo := workgrouppg.NewWorkgroupRepository(gormDB)
	workgroupService := workgroup.NewService(workgroupRepo, workgrouppg.NewTxManager(gormDB), lg)
	workgroupHandler := workgroup.NewHandler(workgroupService)

	leaveRepo := leavepg.NewLeaveRepository(gormDB)
	leaveService := leave.NewService(leaveRepo, leavepg.NewTxManager(gormDB), eventBus, lg)
	leaveHandler := leave.NewHandler(leaveService)

	staffRepo := staffpg.NewStaffRepository(gormDB)
	staffService := staff.NewService(staffRepo, staffpg.NewTxManager(gormDB), assignmentService, eventBus, lg)
	staffHandler := staff.NewHandler(staffService)

	orgService := org.NewService(orgpg.NewOrgRepository(gormDB), lg)
	orgHandler := org.NewHandler(orgService)

	importerRepo := importerpg.NewImporterRepository(gormDB)
	importerService := importer.NewService(importerRepo, staffService, lg)
	importerHandler := importer.NewHandler(importerService)

	tokenGenerator := auth.NewJWTTokenGenerator(cfg.Security.AccessTokenSecret, cfg.Security.RefreshTokenSecret)
	authService := auth.NewService(authpg.NewAuthRepository(gormDB), tokenGenerator)
	authHandler := auth.NewHandler(authService)
	roleGuard := auth.NewRoleGuard(lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:         authHandler,
		Guard:        roleGuard,
		Staff:        staffHandler,
		Assignment:   assignmentHandler,
		Workgroup:    workgroupHandler,
		Leave:        leaveHandler,
		Notification: notificationHandler,
		Importer:     importerHandler,
		Org:          orgHandler,
	}, lg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		lg.Info("http server listening", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		lg.Info("shutdown started", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				lg.Error("could not stop server gracefully", "error", closeErr)
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
