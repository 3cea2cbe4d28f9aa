package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

const (
	appName    = "attendance-cmlabs"
	appVersion = "v1.0.0"
)

// NewLogger builds the JSON logger shared by the request log and the rest of the app.
func NewLogger(env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", env),
	)
}

func NewRouter(
	JWTService jwt.Service,
	logger *slog.Logger,
	allowedOrigins []string,
	authHandler AuthHandler,
	userHandler UserHandler,
	attendanceHandler AttendanceHandler,
	leaveHandler LeaveHandler,
	holidayHandler HolidayHandler,
	announcementHandler AnnouncementHandler,
	eventHandler EventHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// EventSource authenticates with the short-lived token in the query
		r.Get("/events/stream", eventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/events/token", eventHandler.Token)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Patch("/me", userHandler.UpdateMe)

				r.With(middleware.RequirePermission(user.PermissionUserViewAll)).Get("/", userHandler.List)
				r.With(middleware.RequirePermission(user.PermissionUserManage)).Post("/", userHandler.Create)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceSelf))
					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
					r.Get("/today", attendanceHandler.Today)
					r.Get("/history", attendanceHandler.History)
					r.Get("/in-office", attendanceHandler.InOffice)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewAll))
					r.Get("/late-today", attendanceHandler.LateToday)
					r.Get("/summary", attendanceHandler.Summary)
					r.Get("/summary/export", attendanceHandler.ExportSummary)
					r.Get("/records", attendanceHandler.ListRecords)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).
					Patch("/records/{id}", attendanceHandler.UpdateRecord)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveCreate))
					r.Post("/", leaveHandler.Create)
					r.Get("/my", leaveHandler.MyLeaves)
					r.Get("/my/stats", leaveHandler.MyStats)
				})

				r.Route("/admin", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", leaveHandler.List)
					r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Patch("/{id}", leaveHandler.Review)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", holidayHandler.List)
				r.Get("/upcoming", holidayHandler.Upcoming)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionHolidayManage))
					r.Post("/", holidayHandler.Create)
					r.Patch("/{id}", holidayHandler.Update)
					r.Delete("/{id}", holidayHandler.Delete)
				})
			})

			r.Route("/updates", func(r chi.Router) {
				r.Get("/", announcementHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAnnouncementManage))
					r.Post("/", announcementHandler.Create)
					r.Patch("/{id}", announcementHandler.Update)
					r.Delete("/{id}", announcementHandler.Delete)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Route not found"}}`))
	})

	return r
}
