package models

import (
	"time"

	"gorm.io/datatypes"
)

// JournalEntryModel is the gorm row for one payment journal entry.
type JournalEntryModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	Kind          string `gorm:"size:20;not null;index"`
	OrderID       string `gorm:"size:64;not null;index:idx_journal_order_created,priority:1"`
	PaymentMethod string `gorm:"size:32"`
	Status        string `gorm:"size:20"`
	Amount        *int64
	Currency      string         `gorm:"size:3"`
	TransactionID string         `gorm:"size:128;index"`
	Fields        datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"not null;index:idx_journal_order_created,priority:2"`
}

func (JournalEntryModel) TableName() string {
	return "payment_journal"
}
