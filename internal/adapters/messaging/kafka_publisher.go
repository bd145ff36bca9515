// Package messaging publishes lending events to Kafka.
package messaging

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"digital-library/internal/core/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// Message headers
const (
	HeaderEventType   = "event-type"
	HeaderEventID     = "event-id"
	HeaderContentType = "content-type"
)

const publishTimeout = 5 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes lending events to a topic, keyed by book id so that
// events of one book stay ordered within a partition
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	closed bool
	mu     sync.RWMutex
}

// NewKafkaPublisher creates an asynchronous publisher for topic
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  compress.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion:   logFailedDeliveries,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger:  kafka.LoggerFunc(log.Printf),
	}

	return newKafkaPublisher(writer, topic), nil
}

func newKafkaPublisher(writer messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic}
}

// Publish encodes event and hands it to the writer. Failures are logged, never returned.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.LendingEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		log.Printf("⚠️ Lending event %s dropped: publisher closed", event.ID)
		return
	}

	msg, err := buildMessage(event)
	if err != nil {
		log.Printf("❌ Failed to encode lending event %s: %v", event.ID, err)
		return
	}

	// the request may finish before the write does
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("❌ Failed to publish %s event for book %d to %s: %v", event.Type, event.BookID, p.topic, err)
	}
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}

func buildMessage(event domain.LendingEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.BookID), 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderEventID, Value: []byte(event.ID)},
			{Key: HeaderContentType, Value: []byte("application/json")},
		},
	}, nil
}

func logFailedDeliveries(messages []kafka.Message, err error) {
	if err != nil {
		log.Printf("❌ Failed to deliver %d lending events: %v", len(messages), err)
	}
}
