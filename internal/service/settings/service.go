package settings

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/clinic-api/internal/model"
	"github.com/clinicdesk/clinic-api/internal/repository"
	"github.com/clinicdesk/clinic-api/pkg/logger"
	"github.com/clinicdesk/clinic-api/pkg/messaging"
)

const cacheKey = "clinic_settings"

// Service serves the clinic-wide scheduling configuration. Settings
// are read on almost every availability resolution, so reads go
// through a short-lived cache; updates publish an invalidation event
// that every instance subscribes to.
type Service struct {
	repo   repository.SettingsRepository
	broker messaging.Broker
	cache  *gocache.Cache
	logger *logger.Logger
}

func NewService(repo repository.SettingsRepository, broker messaging.Broker, ttl time.Duration, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		broker: broker,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context) (*model.ClinicSettings, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		settings := cached.(model.ClinicSettings)
		return &settings, nil
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic settings: %w", err)
	}

	s.cache.SetDefault(cacheKey, *settings)
	return settings, nil
}

func (s *Service) Update(ctx context.Context, req *model.UpdateClinicSettingsRequest) (*model.ClinicSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic settings: %w", err)
	}

	settings.WorkingDays = req.WorkingDays
	settings.OpenTime = req.OpenTime
	settings.CloseTime = req.CloseTime
	settings.BreakStartTime = req.BreakStartTime
	settings.BreakEndTime = req.BreakEndTime
	settings.DefaultDuration = req.DefaultDuration

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update clinic settings: %w", err)
	}

	s.cache.Delete(cacheKey)
	if err := s.broker.Publish(ctx, messaging.ChannelSettingsUpdated, settings); err != nil {
		s.logger.Warn("failed to publish settings invalidation", "error", err.Error())
	}
	return settings, nil
}

// WatchInvalidations drops the cached settings whenever another
// instance publishes an update. Blocks until ctx is cancelled.
func (s *Service) WatchInvalidations(ctx context.Context) error {
	msgs, err := s.broker.Subscribe(ctx, messaging.ChannelSettingsUpdated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to settings channel: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-msgs:
			if !ok {
				return nil
			}
			s.cache.Delete(cacheKey)
			s.logger.Debug("settings cache invalidated")
		}
	}
}
