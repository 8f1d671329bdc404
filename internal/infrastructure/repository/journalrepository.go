package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/paygate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/paygate/internal/shared/logger"
)

// JournalRepository stores the payment journal in a SQL database.
type JournalRepository struct {
	db     *gorm.DB
	mapper mappers.JournalEntryMapper
	logger logger.Interface
}

func NewJournalRepository(db *gorm.DB, logger logger.Interface) *JournalRepository {
	return &JournalRepository{
		db:     db,
		mapper: mappers.NewJournalEntryMapper(),
		logger: logger,
	}
}

var _ payment.JournalRepository = (*JournalRepository)(nil)

func (r *JournalRepository) Append(ctx context.Context, entry *payment.JournalEntry) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append journal entry", "order_id", entry.OrderID(), "kind", entry.Kind(), "error", err)
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// ListByOrderID returns an order's entries, oldest first.
func (r *JournalRepository) ListByOrderID(ctx context.Context, orderID string) ([]*payment.JournalEntry, error) {
	var rows []*models.JournalEntryModel

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	return r.mapper.ToEntities(rows)
}
