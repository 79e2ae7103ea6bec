package services

import (
	"context"
	"log"
	"time"

	"gadgethub-api/internal/adapters/persistence/repositories"
	"gadgethub-api/internal/config"

	"github.com/robfig/cron/v3"
)

// CronService runs maintenance jobs on a schedule
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	orderRepo        repositories.OrderRepository
	schedules        config.CronConfig
}

// NewCronService creates the scheduler. Jobs are registered by Start.
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	orderRepo repositories.OrderRepository,
	schedules config.CronConfig,
) *CronService {
	return &CronService{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		refreshTokenRepo: refreshTokenRepo,
		orderRepo:        orderRepo,
		schedules:        schedules,
	}
}

// Start registers the jobs and starts the scheduler in its own goroutine
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.schedules.TokenCleanup, s.PurgeExpiredTokens); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.schedules.BranchSummary, s.LogBranchSummary); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("⏰ Cron started [tokens: %q, summary: %q]", s.schedules.TokenCleanup, s.schedules.BranchSummary)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("⏰ Cron stopped")
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Purge expired tokens: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🗑️ Purged %d expired refresh tokens", n)
	}
}

// LogBranchSummary writes the completed-sales report to the log
func (s *CronService) LogBranchSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rows, err := s.orderRepo.BranchSummary(ctx)
	if err != nil {
		log.Printf("❌ Branch summary: %v", err)
		return
	}
	for _, r := range rows {
		log.Printf("📊 %s: %d orders, Rp %d", r.Branch, r.Orders, r.Total)
	}
}
