package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/paygate/internal/shared/mapper"
)

type JournalEntryMapper interface {
	ToEntity(model *models.JournalEntryModel) (*payment.JournalEntry, error)
	ToModel(entity *payment.JournalEntry) (*models.JournalEntryModel, error)
	ToEntities(models []*models.JournalEntryModel) ([]*payment.JournalEntry, error)
}

type JournalEntryMapperImpl struct{}

func NewJournalEntryMapper() JournalEntryMapper {
	return &JournalEntryMapperImpl{}
}

func (m *JournalEntryMapperImpl) ToEntity(model *models.JournalEntryModel) (*payment.JournalEntry, error) {
	if model == nil {
		return nil, nil
	}

	kind := payment.JournalKind(model.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown journal kind %q", model.Kind)
	}

	fields := map[string]string{}
	if len(model.Fields) > 0 {
		if err := json.Unmarshal(model.Fields, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode journal fields: %w", err)
		}
	}

	return payment.ReconstructJournalEntry(payment.JournalEntryReconstructParams{
		ID:            model.ID,
		Kind:          kind,
		OrderID:       model.OrderID,
		PaymentMethod: model.PaymentMethod,
		Status:        model.Status,
		Amount:        model.Amount,
		Currency:      model.Currency,
		TransactionID: model.TransactionID,
		Fields:        fields,
		CreatedAt:     model.CreatedAt.UTC(),
	}), nil
}

func (m *JournalEntryMapperImpl) ToModel(entity *payment.JournalEntry) (*models.JournalEntryModel, error) {
	if entity == nil {
		return nil, nil
	}

	fields, err := json.Marshal(entity.Fields())
	if err != nil {
		return nil, fmt.Errorf("failed to encode journal fields: %w", err)
	}

	return &models.JournalEntryModel{
		ID:            entity.ID(),
		Kind:          entity.Kind().String(),
		OrderID:       entity.OrderID(),
		PaymentMethod: entity.PaymentMethod(),
		Status:        entity.Status(),
		Amount:        entity.Amount(),
		Currency:      entity.Currency(),
		TransactionID: entity.TransactionID(),
		Fields:        datatypes.JSON(fields),
		CreatedAt:     entity.CreatedAt(),
	}, nil
}

func (m *JournalEntryMapperImpl) ToEntities(items []*models.JournalEntryModel) ([]*payment.JournalEntry, error) {
	return mapper.MapSlicePtrWithID(items, m.ToEntity, func(model *models.JournalEntryModel) string {
		return model.ID
	})
}
