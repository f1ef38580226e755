package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/clinic-api/internal/config"
	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/internal/repository/postgres"
	notificationService "github.com/clinicdesk/clinic-api/internal/service/notification"
	internalworker "github.com/clinicdesk/clinic-api/internal/worker"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/messaging"
	"github.com/clinicdesk/clinic-api/pkg/messaging/redis"
	"github.com/clinicdesk/clinic-api/pkg/metrics"
	"github.com/clinicdesk/clinic-api/pkg/worker"
)

// Env overrides for deployments that can't ship a config file change.
type workerEnv struct {
	HealthPort      int           `envconfig:"HEALTH_PORT" default:"8081"`
	BatchSize       int           `envconfig:"OUTBOX_BATCH_SIZE"`
	PollInterval    time.Duration `envconfig:"OUTBOX_POLL_INTERVAL"`
	CleanupInterval time.Duration `envconfig:"OUTBOX_CLEANUP_INTERVAL" default:"1h"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env workerEnv
	if err := envconfig.Process("worker", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to process environment")
	}
	if env.BatchSize > 0 {
		cfg.Outbox.BatchSize = env.BatchSize
	}
	if env.PollInterval > 0 {
		cfg.Outbox.PollInterval = env.PollInterval
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

	outboxRepo := postgres.NewOutboxRepository(db)
	patientRepo := postgres.NewPatientRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		},
		logg,
		metrics.NewMetrics("clinic", "worker"),
	)

	cleanup := internalworker.NewOutboxCleanupWorker(
		outboxRepo,
		cfg.Outbox.RetentionDays,
		env.CleanupInterval,
		logg,
	)

	notifier := notificationService.NewService(notificationService.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	setupHealthCheck(env.HealthPort, logg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logg.Info("Shutting down...")
		cancel()
	}()

	go cleanup.Start(ctx)
	go notifyOnAppointmentEvents(ctx, broker, patientRepo, notifier, logg)

	processor.Start(ctx)
}

// notifyOnAppointmentEvents emails the patient for every appointment
// lifecycle event the processor publishes.
func notifyOnAppointmentEvents(
	ctx context.Context,
	broker messaging.Broker,
	patients repository.PatientRepository,
	notifier notificationService.Service,
	logg *logger.Logger,
) {
	channels := []string{
		messaging.ChannelAppointmentBooked,
		messaging.ChannelAppointmentRescheduled,
		messaging.ChannelAppointmentCancelled,
	}

	for _, channel := range channels {
		msgs, err := broker.Subscribe(ctx, channel)
		if err != nil {
			logg.Error(err, "failed to subscribe", "channel", channel)
			continue
		}

		go func(channel string, msgs <-chan []byte) {
			for {
				select {
				case <-ctx.Done():
					return
				case raw, ok := <-msgs:
					if !ok {
						return
					}
					handleAppointmentEvent(ctx, channel, raw, patients, notifier, logg)
				}
			}
		}(channel, msgs)
	}
}

func handleAppointmentEvent(
	ctx context.Context,
	channel string,
	raw []byte,
	patients repository.PatientRepository,
	notifier notificationService.Service,
	logg *logger.Logger,
) {
	var apt model.Appointment
	if err := json.Unmarshal(raw, &apt); err != nil {
		logg.Error(err, "failed to decode appointment event", "channel", channel)
		return
	}

	patient, err := patients.Get(ctx, apt.PatientID)
	if err != nil {
		logg.Error(err, "failed to look up patient", "patient_id", apt.PatientID.String())
		return
	}

	switch channel {
	case messaging.ChannelAppointmentBooked:
		err = notifier.SendBookingConfirmation(ctx, patient.Email, &apt)
	case messaging.ChannelAppointmentRescheduled:
		err = notifier.SendReschedule(ctx, patient.Email, &apt)
	case messaging.ChannelAppointmentCancelled:
		err = notifier.SendCancellation(ctx, patient.Email, &apt)
	}
	if err != nil {
		logg.Error(err, "failed to send notification", "channel", channel, "patient_id", apt.PatientID.String())
	}
}

func setupHealthCheck(port int, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			logg.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
}
