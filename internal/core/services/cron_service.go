package services

import (
	"context"
	"fmt"
	"time"

	"pharmalink-api/internal/adapters/persistence/repositories"
	"pharmalink-api/internal/config"
	"pharmalink-api/internal/pkg/logger"
	"pharmalink-api/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// ============================================================
// Background jobs: refresh token housekeeping
// ============================================================

const cleanupTimeout = time.Minute

// CronService runs scheduled maintenance jobs
type CronService struct {
	store *repositories.Store
	cfg   *config.Config
	cron  *cron.Cron
	now   func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(store *repositories.Store, cfg *config.Config) *CronService {
	return &CronService{
		store: store,
		cfg:   cfg,
		cron:  cron.New(cron.WithLocation(time.UTC)),
		now:   utcNow,
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Cron.TokenCleanup, s.runTokenCleanup); err != nil {
		return fmt.Errorf("invalid token cleanup schedule %q: %w", s.cfg.Cron.TokenCleanup, err)
	}
	s.cron.Start()
	logger.Infof("🚀 CronService started (token cleanup: %s)", s.cfg.Cron.TokenCleanup)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.Infof("🛑 CronService stopped")
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	if _, err := s.CleanupTokens(ctx); err != nil {
		logger.Errorf("❌ Token cleanup failed: %v", err)
	}
}

// CleanupTokens deletes expired and revoked refresh tokens
func (s *CronService) CleanupTokens(ctx context.Context) (int64, error) {
	n, err := s.store.RefreshTokens.DeleteStale(ctx, s.now())
	if err != nil {
		return 0, err
	}
	metrics.TokensCleaned.Add(float64(n))
	if n > 0 {
		logger.Infof("🧹 Removed %d stale refresh tokens", n)
	}
	return n, nil
}
