package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"carbon-registry/internal/core/domain"

	"github.com/twmb/franz-go/pkg/kgo"
)

const eventTypeHeader = "event-type"

// Message is the record value published for every ledger call
type Message struct {
	Type      domain.LedgerEventType `json:"type"`
	CompanyID int64                  `json:"companyId"`
	Remarks   string                 `json:"remarks"`
	UserID    string                 `json:"userId"`
	IssuedAt  time.Time              `json:"issuedAt"`
}

// KafkaLedger publishes programme ledger commands to a Kafka topic.
// Records are keyed by company ID so commands for one company stay ordered.
type KafkaLedger struct {
	client *kgo.Client
	topic  string
}

// NewKafkaLedger creates a producer for the ledger topic
func NewKafkaLedger(brokers []string, topic string, opts ...kgo.Opt) (*KafkaLedger, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka ledger: no brokers: %w", domain.ErrLedgerUnavailable)
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka ledger: topic is required")
	}

	client, err := kgo.NewClient(append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordRetries(5),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka ledger: create client: %w", err)
	}

	return &KafkaLedger{client: client, topic: topic}, nil
}

// FreezeCompany asks the ledger to freeze a programme developer's credits
func (l *KafkaLedger) FreezeCompany(ctx context.Context, companyID int64, remarks, userID string) error {
	return l.publish(ctx, domain.LedgerEventFreezeCompany, companyID, remarks, userID)
}

// RevokeCompanyCertifications asks the ledger to revoke a certifier's certifications
func (l *KafkaLedger) RevokeCompanyCertifications(ctx context.Context, companyID int64, remarks, userID string) error {
	return l.publish(ctx, domain.LedgerEventRevokeCertifications, companyID, remarks, userID)
}

// Ping checks that a broker is reachable
func (l *KafkaLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx)
}

// Close flushes and closes the producer
func (l *KafkaLedger) Close() {
	l.client.Close()
}

func (l *KafkaLedger) publish(ctx context.Context, eventType domain.LedgerEventType, companyID int64, remarks, userID string) error {
	value, err := json.Marshal(Message{
		Type:      eventType,
		CompanyID: companyID,
		Remarks:   remarks,
		UserID:    userID,
		IssuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("kafka ledger: encode %s: %w", eventType, err)
	}

	record := &kgo.Record{
		Topic: l.topic,
		Key:   []byte(strconv.FormatInt(companyID, 10)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: eventTypeHeader, Value: []byte(eventType)},
		},
	}

	if err := l.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka ledger: produce %s for company %d: %w", eventType, companyID, err)
	}
	return nil
}
