package repositories

import (
	"context"
	"fmt"
	"time"

	"carbon-registry/internal/adapters/persistence/models"
	"carbon-registry/internal/core/domain"

	"gorm.io/gorm"
)

// ledgerEventRepository implements LedgerEventRepository interface
type ledgerEventRepository struct {
	db *gorm.DB
}

// NewLedgerEventRepository creates a new ledger outbox repository
func NewLedgerEventRepository(db *gorm.DB) LedgerEventRepository {
	return &ledgerEventRepository{db: db}
}

// Create stores a new outbox event
func (r *ledgerEventRepository) Create(ctx context.Context, event *domain.LedgerEvent) error {
	row := models.LedgerEventFromDomain(event)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return fmt.Errorf("create ledger event: %w", err)
	}
	event.CreatedAt = row.CreatedAt
	return nil
}

// MarkDelivered records a successful delivery
func (r *ledgerEventRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":       domain.LedgerEventDelivered,
		"attempts":     gorm.Expr("attempts + 1"),
		"last_error":   "",
		"delivered_at": at,
	})
}

// MarkFailed records a failed delivery attempt
func (r *ledgerEventRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     domain.LedgerEventFailed,
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
	})
}

// ListRetryable lists failed events, and pending events created before
// pendingBefore, that have not used up their attempts
func (r *ledgerEventRepository) ListRetryable(ctx context.Context, pendingBefore time.Time, maxAttempts, limit int) ([]*domain.LedgerEvent, error) {
	var rows []models.LedgerEvent
	err := conn(ctx, r.db).
		Where("attempts < ?", maxAttempts).
		Where("(status = ? OR (status = ? AND created_at < ?))", domain.LedgerEventFailed, domain.LedgerEventPending, pendingBefore).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list ledger events: %w", err)
	}

	events := make([]*domain.LedgerEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

func (r *ledgerEventRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := conn(ctx, r.db).Model(&models.LedgerEvent{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update ledger event %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ledger event %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
