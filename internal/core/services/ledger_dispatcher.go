package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"carbon-registry/internal/adapters/persistence/repositories"
	"carbon-registry/internal/core/domain"
	"carbon-registry/internal/pkg/metrics"
)

// LedgerDispatcher delivers outbox events to the programme ledger and
// records the outcome on the event
type LedgerDispatcher struct {
	ledger  ProgrammeLedger
	events  repositories.LedgerEventRepository
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLedgerDispatcher creates a new ledger dispatcher
func NewLedgerDispatcher(ledger ProgrammeLedger, events repositories.LedgerEventRepository, m *metrics.Metrics) *LedgerDispatcher {
	return &LedgerDispatcher{
		ledger:  ledger,
		events:  events,
		metrics: m,
		now:     time.Now,
	}
}

// Deliver calls the ledger for one event. A failed call marks the event
// FAILED so the sync job picks it up again.
func (d *LedgerDispatcher) Deliver(ctx context.Context, event *domain.LedgerEvent) error {
	var err error
	switch event.Type {
	case domain.LedgerEventFreezeCompany:
		err = d.ledger.FreezeCompany(ctx, event.CompanyID, event.Remarks, event.UserID)
	case domain.LedgerEventRevokeCertifications:
		err = d.ledger.RevokeCompanyCertifications(ctx, event.CompanyID, event.Remarks, event.UserID)
	default:
		err = fmt.Errorf("unknown ledger event type %q", event.Type)
	}
	d.metrics.ObserveLedgerDelivery(string(event.Type), err)

	if err != nil {
		if markErr := d.events.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			log.Printf("❌ Failed to mark ledger event %s failed: %v", event.ID, markErr)
		}
		return fmt.Errorf("%w: %s: %v", domain.ErrLedgerEventFailed, event.Type, err)
	}

	// The ledger already has the event; a stale status only causes a duplicate redelivery.
	if markErr := d.events.MarkDelivered(ctx, event.ID, d.now()); markErr != nil {
		log.Printf("⚠️ Ledger event %s delivered but not marked: %v", event.ID, markErr)
	}
	return nil
}
