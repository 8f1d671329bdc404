package payment

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/paygate/internal/shared/biztime"
)

// JournalKind distinguishes the events recorded in the payment journal.
type JournalKind string

const (
	JournalKindSubmission JournalKind = "submission"
	JournalKindReturn     JournalKind = "return"
	JournalKindPostback   JournalKind = "postback"
)

func (k JournalKind) IsValid() bool {
	switch k {
	case JournalKindSubmission, JournalKindReturn, JournalKindPostback:
		return true
	default:
		return false
	}
}

func (k JournalKind) String() string {
	return string(k)
}

// JournalEntry is an audit record of one submission or verified response.
type JournalEntry struct {
	id            string
	kind          JournalKind
	orderID       string
	paymentMethod string
	status        string
	amount        *int64
	currency      string
	transactionID string
	fields        map[string]string
	createdAt     time.Time
}

// NewSubmissionEntry records a request handed to the gateway.
func NewSubmissionEntry(fields map[string]string, result *SubmissionResult) *JournalEntry {
	e := newEntry(JournalKindSubmission, fields)
	e.orderID = fields[FieldOrderID]
	e.paymentMethod = fields[FieldPaymentMethod]
	e.currency = fields[FieldCurrency]
	e.amount = parseAmount(fields[FieldAmount])
	if result != nil && result.TransactionID != nil {
		e.transactionID = *result.TransactionID
	}
	return e
}

// NewResponseEntry records a verified gateway response.
func NewResponseEntry(resp *PaymentResponse) *JournalEntry {
	kind := JournalKindReturn
	if resp.Channel() == ChannelCallback {
		kind = JournalKindPostback
	}
	params := resp.Params()
	e := newEntry(kind, params)
	e.orderID = resp.OrderID()
	e.status = resp.Status().String()
	e.paymentMethod = params["paymentMethod"]
	e.currency = params["currency"]
	e.amount = parseAmount(params["amount"])
	e.transactionID = params["transactionID"]
	return e
}

func newEntry(kind JournalKind, fields map[string]string) *JournalEntry {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &JournalEntry{
		id:        uuid.NewString(),
		kind:      kind,
		fields:    cp,
		createdAt: biztime.NowUTC(),
	}
}

func parseAmount(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// JournalEntryReconstructParams carries persisted journal state.
type JournalEntryReconstructParams struct {
	ID            string
	Kind          JournalKind
	OrderID       string
	PaymentMethod string
	Status        string
	Amount        *int64
	Currency      string
	TransactionID string
	Fields        map[string]string
	CreatedAt     time.Time
}

// ReconstructJournalEntry rebuilds an entry loaded from persistence.
func ReconstructJournalEntry(p JournalEntryReconstructParams) *JournalEntry {
	return &JournalEntry{
		id:            p.ID,
		kind:          p.Kind,
		orderID:       p.OrderID,
		paymentMethod: p.PaymentMethod,
		status:        p.Status,
		amount:        p.Amount,
		currency:      p.Currency,
		transactionID: p.TransactionID,
		fields:        p.Fields,
		createdAt:     p.CreatedAt,
	}
}

func (e *JournalEntry) ID() string            { return e.id }
func (e *JournalEntry) Kind() JournalKind     { return e.kind }
func (e *JournalEntry) OrderID() string       { return e.orderID }
func (e *JournalEntry) PaymentMethod() string { return e.paymentMethod }
func (e *JournalEntry) Status() string        { return e.status }
func (e *JournalEntry) Amount() *int64        { return e.amount }
func (e *JournalEntry) Currency() string      { return e.currency }
func (e *JournalEntry) TransactionID() string { return e.transactionID }
func (e *JournalEntry) CreatedAt() time.Time  { return e.createdAt }

// Fields returns a copy of the recorded wire fields.
func (e *JournalEntry) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}
