package payment

import "context"

// JournalRepository persists journal entries.
type JournalRepository interface {
	Append(ctx context.Context, entry *JournalEntry) error
	ListByOrderID(ctx context.Context, orderID string) ([]*JournalEntry, error)
}
