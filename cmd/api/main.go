package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/clinicdesk/clinic-api/internal/config"
	appointmentHandler "github.com/clinicdesk/clinic-api/internal/handler/appointment"
	availabilityHandler "github.com/clinicdesk/clinic-api/internal/handler/availability"
	doctorHandler "github.com/clinicdesk/clinic-api/internal/handler/doctor"
	healthHandler "github.com/clinicdesk/clinic-api/internal/handler/health"
	patientHandler "github.com/clinicdesk/clinic-api/internal/handler/patient"
	scheduleHandler "github.com/clinicdesk/clinic-api/internal/handler/schedule"
	settingsHandler "github.com/clinicdesk/clinic-api/internal/handler/settings"
	specialtyHandler "github.com/clinicdesk/clinic-api/internal/handler/specialty"
	"github.com/clinicdesk/clinic-api/internal/middleware"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository/postgres"
	"github.com/clinicdesk/clinic-api/internal/router"
	appointmentService "github.com/clinicdesk/clinic-api/internal/service/appointment"
	availabilityService "github.com/clinicdesk/clinic-api/internal/service/availability"
	bookingService "github.com/clinicdesk/clinic-api/internal/service/booking"
	doctorService "github.com/clinicdesk/clinic-api/internal/service/doctor"
	patientService "github.com/clinicdesk/clinic-api/internal/service/patient"
	scheduleService "github.com/clinicdesk/clinic-api/internal/service/schedule"
	settingsService "github.com/clinicdesk/clinic-api/internal/service/settings"
	specialtyService "github.com/clinicdesk/clinic-api/internal/service/specialty"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/messaging/redis"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("clinic", "api")

	doctorRepo := postgres.NewDoctorRepository(db)
	specialtyRepo := postgres.NewSpecialtyRepository(db)
	associationRepo := postgres.NewAssociationRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	settingsSvc := settingsService.NewService(settingsRepo, broker, cfg.Clinic.SettingsTTL, logg)

	fallback := model.ClinicSettings{
		WorkingDays:     cfg.Clinic.WorkingDays,
		OpenTime:        cfg.Clinic.OpenTime,
		CloseTime:       cfg.Clinic.CloseTime,
		BreakStartTime:  cfg.Clinic.BreakStartTime,
		BreakEndTime:    cfg.Clinic.BreakEndTime,
		DefaultDuration: cfg.Clinic.DefaultDuration,
	}

	availabilitySvc := availabilityService.NewService(
		scheduleRepo,
		appointmentRepo,
		associationRepo,
		settingsSvc,
		fallback,
		logg,
		m,
	)
	bookingSvc := bookingService.NewService(appointmentRepo, outboxRepo, availabilitySvc, logg, m)
	appointmentSvc := appointmentService.NewService(appointmentRepo)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	doctorSvc := doctorService.NewService(doctorRepo, associationRepo)
	specialtySvc := specialtyService.NewService(specialtyRepo)
	patientSvc := patientService.NewService(patientRepo)

	r := router.NewRouter(
		healthHandler.NewHandler(db),
		availabilityHandler.NewHandler(availabilitySvc),
		appointmentHandler.NewHandler(appointmentSvc, bookingSvc),
		scheduleHandler.NewHandler(scheduleSvc),
		doctorHandler.NewHandler(doctorSvc),
		specialtyHandler.NewHandler(specialtySvc),
		patientHandler.NewHandler(patientSvc),
		settingsHandler.NewHandler(settingsSvc),
		router.RouterConfig{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Other instances invalidate the settings cache through the broker.
	go func() {
		if err := settingsSvc.WatchInvalidations(ctx); err != nil {
			logg.Error(err, "settings invalidation watcher stopped")
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
