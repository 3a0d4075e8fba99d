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

	"github.com/workpulse-hq/attendance-backend-go/internal/config"
	appHTTP "github.com/workpulse-hq/attendance-backend-go/internal/handler/http"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/cron"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/database"
	"github.com/workpulse-hq/attendance-backend-go/internal/pkg/jwt"
	"github.com/workpulse-hq/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/workpulse-hq/attendance-backend-go/internal/service/attendance"
	dashboardService "github.com/workpulse-hq/attendance-backend-go/internal/service/dashboard"
	overrideService "github.com/workpulse-hq/attendance-backend-go/internal/service/override"
	reportService "github.com/workpulse-hq/attendance-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	entryRepo := postgresql.NewEntryRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	attendanceSvc := attendanceService.NewService(entryRepo, cfg.Attendance)
	overrideSvc := overrideService.NewService(entryRepo, employeeRepo)
	dashboardSvc := dashboardService.NewService(entryRepo, employeeRepo, cfg.Attendance)
	reportSvc := reportService.NewService(entryRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	adminHandler := appHTTP.NewAdminHandler(attendanceSvc, overrideSvc, dashboardSvc, reportSvc)

	scheduler := cron.NewScheduler()
	cron.NewExpiryJobs(entryRepo, cfg.Attendance).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(cfg, jwtService, attendanceHandler, adminHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")
	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
