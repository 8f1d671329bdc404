package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainPayment "github.com/orris-inc/paygate/internal/domain/payment"
)

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	amount := int64(1234)
	entries := []*domainPayment.JournalEntry{
		domainPayment.ReconstructJournalEntry(domainPayment.JournalEntryReconstructParams{
			ID:            "e1",
			Kind:          domainPayment.JournalKindSubmission,
			OrderID:       "ORD-1",
			PaymentMethod: "IDEAL",
			Amount:        &amount,
			Currency:      "EUR",
			TransactionID: "TX-1",
			CreatedAt:     time.Date(2026, 1, 15, 11, 0, 0, 0, time.UTC),
		}),
		domainPayment.ReconstructJournalEntry(domainPayment.JournalEntryReconstructParams{
			ID:        "e2",
			Kind:      domainPayment.JournalKindPostback,
			OrderID:   "ORD-1",
			Status:    "OK",
			CreatedAt: time.Date(2026, 1, 15, 11, 5, 0, 0, time.UTC),
		}),
	}

	printEntries(cmd, entries)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TRANSACTION")

	assert.Contains(t, lines[1], "2026-01-15 12:00:00", "merchant timezone")
	assert.Contains(t, lines[1], "submission")
	assert.Contains(t, lines[1], "12.34")
	assert.Contains(t, lines[1], "TX-1")

	assert.Equal(t,
		[]string{"2026-01-15", "12:05:00", "postback", "OK", "-", "-", "-"},
		strings.Fields(lines[2]))
}

func TestNewCommand_RequiresOrderID(t *testing.T) {
	cmd := NewCommand()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"ORD-1"}))
}
