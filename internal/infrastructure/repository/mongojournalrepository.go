package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orris-inc/paygate/internal/domain/payment"
	"github.com/orris-inc/paygate/internal/shared/logger"
	"github.com/orris-inc/paygate/internal/shared/mapper"
)

const collectionJournal = "payment_journal"

type journalDocument struct {
	ID            string            `bson:"_id"`
	Kind          string            `bson:"kind"`
	OrderID       string            `bson:"order_id"`
	PaymentMethod string            `bson:"payment_method,omitempty"`
	Status        string            `bson:"status,omitempty"`
	Amount        *int64            `bson:"amount,omitempty"`
	Currency      string            `bson:"currency,omitempty"`
	TransactionID string            `bson:"transaction_id,omitempty"`
	Fields        map[string]string `bson:"fields"`
	CreatedAt     time.Time         `bson:"created_at"`
}

func toJournalDocument(e *payment.JournalEntry) journalDocument {
	return journalDocument{
		ID:            e.ID(),
		Kind:          e.Kind().String(),
		OrderID:       e.OrderID(),
		PaymentMethod: e.PaymentMethod(),
		Status:        e.Status(),
		Amount:        e.Amount(),
		Currency:      e.Currency(),
		TransactionID: e.TransactionID(),
		Fields:        e.Fields(),
		CreatedAt:     e.CreatedAt(),
	}
}

func fromJournalDocument(d journalDocument) (*payment.JournalEntry, error) {
	kind := payment.JournalKind(d.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("journal document %s has unknown kind %q", d.ID, d.Kind)
	}
	fields := d.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	return payment.ReconstructJournalEntry(payment.JournalEntryReconstructParams{
		ID:            d.ID,
		Kind:          kind,
		OrderID:       d.OrderID,
		PaymentMethod: d.PaymentMethod,
		Status:        d.Status,
		Amount:        d.Amount,
		Currency:      d.Currency,
		TransactionID: d.TransactionID,
		Fields:        fields,
		CreatedAt:     d.CreatedAt.UTC(),
	}), nil
}

// MongoJournalRepository stores the payment journal in a MongoDB collection.
type MongoJournalRepository struct {
	collection *mongo.Collection
	logger     logger.Interface
}

func NewMongoJournalRepository(client *mongo.Client, database string, logger logger.Interface) *MongoJournalRepository {
	return &MongoJournalRepository{
		collection: client.Database(database).Collection(collectionJournal),
		logger:     logger,
	}
}

var _ payment.JournalRepository = (*MongoJournalRepository)(nil)

// ConnectMongo opens and pings a client for uri.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the order lookup index.
func (r *MongoJournalRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create journal index: %w", err)
	}
	return nil
}

func (r *MongoJournalRepository) Append(ctx context.Context, entry *payment.JournalEntry) error {
	if _, err := r.collection.InsertOne(ctx, toJournalDocument(entry)); err != nil {
		r.logger.Errorw("failed to append journal entry", "order_id", entry.OrderID(), "kind", entry.Kind(), "error", err)
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *MongoJournalRepository) ListByOrderID(ctx context.Context, orderID string) ([]*payment.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.D{{Key: "order_id", Value: orderID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	var docs []journalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}
	if docs == nil {
		return []*payment.JournalEntry{}, nil
	}
	return mapper.MapSliceWithError(docs, fromJournalDocument)
}
