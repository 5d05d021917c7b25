package services

import (
	"context"
	"log"
	"os"
	"time"

	"carbon-registry/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// LedgerSyncConfig configures the outbox retry job
type LedgerSyncConfig struct {
	Schedule    string
	MaxAttempts int
	BatchSize   int
	// Pending events younger than this are still being delivered by Suspend
	PendingGrace time.Duration
}

// LedgerSyncService periodically redelivers ledger events that failed or
// were never delivered
type LedgerSyncService struct {
	events     repositories.LedgerEventRepository
	dispatcher *LedgerDispatcher
	cfg        LedgerSyncConfig
	cron       *cron.Cron
	now        func() time.Time
}

// NewLedgerSyncService creates a new ledger sync service
func NewLedgerSyncService(events repositories.LedgerEventRepository, dispatcher *LedgerDispatcher, cfg LedgerSyncConfig) *LedgerSyncService {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1m"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.PendingGrace <= 0 {
		cfg.PendingGrace = time.Minute
	}

	logger := cron.PrintfLogger(log.New(os.Stdout, "ledger-sync: ", log.LstdFlags))
	return &LedgerSyncService{
		events:     events,
		dispatcher: dispatcher,
		cfg:        cfg,
		cron:       cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		now:        time.Now,
	}
}

// Start schedules the retry job
func (s *LedgerSyncService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.RetryPending(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 LedgerSyncService started [%s]", s.cfg.Schedule)
	return nil
}

// Stop waits for a running job to finish
func (s *LedgerSyncService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 LedgerSyncService stopped")
}

// RetryPending redelivers one batch of retryable events and returns how many succeeded
func (s *LedgerSyncService) RetryPending(ctx context.Context) int {
	events, err := s.events.ListRetryable(ctx, s.now().Add(-s.cfg.PendingGrace), s.cfg.MaxAttempts, s.cfg.BatchSize)
	if err != nil {
		log.Printf("❌ Ledger retry query error: %v", err)
		return 0
	}

	delivered := 0
	for _, event := range events {
		if err := s.dispatcher.Deliver(ctx, event); err != nil {
			log.Printf("⚠️ Ledger event %s attempt %d failed: %v", event.ID, event.Attempts+1, err)
			continue
		}
		delivered++
	}

	if len(events) > 0 {
		log.Printf("✅ Ledger retry delivered %d/%d events", delivered, len(events))
	}
	return delivered
}
