package sink

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/quantaxe/matchcore/pkg/engine"
)

// KafkaSink publishes trades to a Kafka topic, keyed by ticker so one
// ticker's trades stay ordered within a partition.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (s *KafkaSink) Publish(ctx context.Context, trades []engine.Trade) error {
	msgs := make([]kafka.Message, len(trades))
	for i, t := range trades {
		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(t.Ticker))
		val, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encode trade: %w", err)
		}
		msgs[i] = kafka.Message{Key: key, Value: val}
	}
	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish trades: %w", err)
	}
	return nil
}

func (s *KafkaSink) Close() error { return s.writer.Close() }
