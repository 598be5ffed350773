package main

import (
	"fmt"
	"net/http"

	"github.com/tempohr/tempo-backend-go/internal/config"
	appHTTP "github.com/tempohr/tempo-backend-go/internal/handler/http"
	"github.com/tempohr/tempo-backend-go/internal/pkg/cron"
	"github.com/tempohr/tempo-backend-go/internal/pkg/database"
	"github.com/tempohr/tempo-backend-go/internal/pkg/jwt"
	"github.com/tempohr/tempo-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tempohr/tempo-backend-go/internal/service/attendance"
	notificationService "github.com/tempohr/tempo-backend-go/internal/service/notification"
	payrollService "github.com/tempohr/tempo-backend-go/internal/service/payroll"
	periodService "github.com/tempohr/tempo-backend-go/internal/service/period"
	scheduleService "github.com/tempohr/tempo-backend-go/internal/service/schedule"
	shiftService "github.com/tempohr/tempo-backend-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	shiftRepo := postgresql.NewShiftRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	eventRepo := postgresql.NewAttendanceEventRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	rateSettingsRepo := postgresql.NewRateSettingsRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	sink := notificationService.NewStoredSink(notificationRepo)

	resolver := shiftService.NewResolver(shiftRepo)
	classifier := periodService.NewClassifier(cfg.Engine.TransitionBuffer)
	ledger := attendanceService.NewLedger(
		resolver,
		classifier,
		eventRepo,
		overtimeRepo,
		rateSettingsRepo,
		sink,
		cfg.Engine.GracePeriod,
		cfg.Engine.CheckInLead,
	)
	schedSvc := scheduleService.NewScheduleService(shiftRepo, resolver, sink)
	overtimeSvc := scheduleService.NewOvertimeService(overtimeRepo, sink)
	calculator := payrollService.NewCalculator()
	payrollSvc := payrollService.NewPayrollService(
		db,
		calculator,
		payrollRepo,
		rateSettingsRepo,
		employeeRepo,
		eventRepo,
		leaveRepo,
		holidayRepo,
	)

	attendanceHandler := appHTTP.NewAttendanceHandler(ledger)
	scheduleHandler := appHTTP.NewScheduleHandler(schedSvc, overtimeSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, rateSettingsRepo)
	notificationHandler := appHTTP.NewNotificationHandler(notificationRepo)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		scheduleHandler,
		payrollHandler,
		notificationHandler,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(eventRepo, sink, cfg.Engine.StaleSessionAge)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
