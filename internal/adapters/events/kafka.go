package events

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher buffers envelopes in an inbox drained by one writer goroutine.
// A full inbox drops the event instead of stalling the request.
type KafkaPublisher struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	done    chan struct{}
	closeMu sync.Once
}

// NewKafkaPublisher creates a publisher for topic. Call Start before publishing.
func NewKafkaPublisher(brokers []string, topic string, buf int) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
	}
}

// Start runs the writer loop until Close drains the inbox
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				log.Printf("❌ Kafka publish %s failed: %v", m.Key, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}()
}

// Publish enqueues env keyed by its correlation id so one order stays on one partition
func (p *KafkaPublisher) Publish(env Envelope) {
	value, err := json.Marshal(env)
	if err != nil {
		log.Printf("❌ Kafka marshal %s: %v", env.EventType, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(env.CorrelationID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(env.EventType)},
			{Key: "x-event-version", Value: []byte(strconv.Itoa(env.EventVersion))},
		},
	}

	select {
	case p.inbox <- msg:
	default:
		log.Printf("⚠️ Kafka inbox full, dropping %s for %s", env.EventType, env.CorrelationID)
	}
}

// Close flushes queued messages and waits for the writer loop to exit
func (p *KafkaPublisher) Close() error {
	p.closeMu.Do(func() { close(p.inbox) })
	<-p.done
	return nil
}
