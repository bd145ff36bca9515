package services

import (
	"context"
	"log"
	"time"

	"digital-library/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

const (
	tokenCleanupSchedule  = "0 3 * * *"
	overdueReportSchedule = "0 * * * *"
	cronJobTimeout        = time.Minute
)

// CronService runs scheduled maintenance jobs in UTC
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	borrowRecords    repositories.BorrowRecordRepository
	now              func() time.Time
}

// NewCronService creates a new cron service
func NewCronService(
	refreshTokenRepo repositories.RefreshTokenRepository,
	borrowRecords repositories.BorrowRecordRepository,
) *CronService {
	return &CronService{
		cron:             cron.New(cron.WithLocation(time.UTC)),
		refreshTokenRepo: refreshTokenRepo,
		borrowRecords:    borrowRecords,
		now:              time.Now,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(tokenCleanupSchedule, s.runTokenCleanup); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(overdueReportSchedule, s.runOverdueReport); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

// CleanupExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

// CountOverdue counts open borrow records past their due date
func (s *CronService) CountOverdue(ctx context.Context) (int64, error) {
	return s.borrowRecords.CountOverdue(ctx, s.now().UTC())
}

func (s *CronService) runTokenCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
	defer cancel()

	deleted, err := s.CleanupExpiredTokens(ctx)
	if err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
		return
	}
	log.Printf("🧹 Deleted %d expired refresh tokens", deleted)
}

func (s *CronService) runOverdueReport() {
	ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
	defer cancel()

	overdue, err := s.CountOverdue(ctx)
	if err != nil {
		log.Printf("❌ Overdue report error: %v", err)
		return
	}
	if overdue > 0 {
		log.Printf("⏰ %d borrowed books are past their due date", overdue)
	}
}
