package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/acervo-api/pkg/errors"
	"github.com/noah-isme/acervo-api/pkg/logger"
)

type loginAttemptStore interface {
	Count(ctx context.Context, email string) (int, error)
	Increment(ctx context.Context, email string, window time.Duration) (int, error)
	Reset(ctx context.Context, email string) error
}

type throttleObserver interface {
	IncLoginThrottled()
}

// LoginThrottleConfig bounds failed logins per email.
type LoginThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// LoginThrottleService blocks an email after repeated failed logins. Store
// failures are logged and never block a login.
type LoginThrottleService struct {
	store   loginAttemptStore
	cfg     LoginThrottleConfig
	metrics throttleObserver
	logger  *zap.Logger
}

// NewLoginThrottleService constructs a LoginThrottleService.
func NewLoginThrottleService(store loginAttemptStore, cfg LoginThrottleConfig, metrics throttleObserver, logger *zap.Logger) *LoginThrottleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = 15 * time.Minute
	}
	return &LoginThrottleService{store: store, cfg: cfg, metrics: metrics, logger: logger}
}

// Check fails with TooManyRequests once the email reached the attempt limit.
func (s *LoginThrottleService) Check(ctx context.Context, email string) error {
	count, err := s.store.Count(ctx, email)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("login throttle unavailable", zap.Error(err))
		return nil
	}
	if count >= s.cfg.MaxAttempts {
		if s.metrics != nil {
			s.metrics.IncLoginThrottled()
		}
		return appErrors.Clone(appErrors.ErrTooManyRequests, "too many failed login attempts, try again later")
	}
	return nil
}

// RecordFailure counts one failed login.
func (s *LoginThrottleService) RecordFailure(ctx context.Context, email string) {
	if _, err := s.store.Increment(ctx, email, s.cfg.Window); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to record login attempt", zap.Error(err))
	}
}

// Reset clears the failures after a successful login.
func (s *LoginThrottleService) Reset(ctx context.Context, email string) {
	if err := s.store.Reset(ctx, email); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to reset login attempts", zap.Error(err))
	}
}
