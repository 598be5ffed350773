package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tempohr/tempo-backend-go/internal/handler/http/middleware"
	"github.com/tempohr/tempo-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	attendanceHandler AttendanceHandler,
	scheduleHandler ScheduleHandler,
	payrollHandler PayrollHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "tempo-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/summary", attendanceHandler.DaySummary)
				r.Get("/events", attendanceHandler.ListMyEvents)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/corrections", attendanceHandler.Correct)
				})
			})

			r.Route("/schedule", func(r chi.Router) {
				r.Get("/my-shift", scheduleHandler.MyEffectiveShift)
				r.Post("/adjustments", scheduleHandler.RequestAdjustment)

				r.Route("/overtime", func(r chi.Router) {
					r.Post("/", scheduleHandler.RequestOvertime)
					r.Get("/", scheduleHandler.ListMyOvertime)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/shifts", scheduleHandler.CreateShift)
					r.Get("/shifts", scheduleHandler.ListShifts)
					r.Post("/assignments", scheduleHandler.AssignShift)
					r.Put("/adjustments/{id}/review", scheduleHandler.ReviewAdjustment)
					r.Put("/overtime/{id}/review", scheduleHandler.ReviewOvertime)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.ListMy)
			})

			// Admin only
			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Post("/generate", payrollHandler.Generate)
				r.Get("/periods", payrollHandler.ListPeriods)
				r.Get("/periods/{id}", payrollHandler.GetPeriod)
				r.Put("/periods/{id}/approve", payrollHandler.Approve)
				r.Put("/periods/{id}/paid", payrollHandler.MarkPaid)

				r.Get("/rate-settings", payrollHandler.GetRateSettings)
				r.Put("/rate-settings", payrollHandler.UpsertRateSettings)
			})
		})
	})
	return r
}
