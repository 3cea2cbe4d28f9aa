package main

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

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	announcementService "github.com/cmlabs-hris/attendance-backend-go/internal/service/announcement"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	holidayService "github.com/cmlabs-hris/attendance-backend-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := appHTTP.NewLogger(cfg.App.Env, cfg.SlogLevel())
	slog.SetDefault(logger)

	policy, err := cfg.AttendancePolicy()
	if err != nil {
		return fmt.Errorf("error building attendance policy: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.PoolOptions())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("error running migrations: %w", err)
		}
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	announcementRepo := postgresql.NewAnnouncementRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("error initializing email service: %w", err)
	}
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST is not set, leave review emails are disabled")
	}

	authService := serviceAuth.NewAuthService(tx, userRepo, JWTService)
	usersService := userService.NewUserService(tx, userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(tx, attendanceRepo, leaveRepo, userRepo, policy)
	leaveSvc := leaveService.NewLeaveService(tx, leaveRepo, userRepo, hub, emailService, policy, cfg.Leave.CasualPerYear)
	holidaySvc := holidayService.NewHolidayService(tx, holidayRepo, policy)
	announcementSvc := announcementService.NewAnnouncementService(tx, announcementRepo, hub)

	scheduler := cron.NewScheduler(logger)
	cron.NewTokenJobs(JWTService).RegisterJobs(scheduler)
	cron.NewAttendanceJobs(attendanceRepo, policy).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		JWTService,
		logger,
		cfg.App.CORSAllowedOrigins,
		appHTTP.NewAuthHandler(authService),
		appHTTP.NewUserHandler(usersService),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewHolidayHandler(holidaySvc),
		appHTTP.NewAnnouncementHandler(announcementSvc),
		appHTTP.NewEventHandler(JWTService, hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "office_start", fmt.Sprintf("%02d:%02d", policy.OfficeStartHour, policy.OfficeStartMinute))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	leaveSvc.Wait()
	return nil
}
