package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/swarmkernel/kernel/internal/canonical"
	"github.com/swarmkernel/kernel/internal/models"
)

// KafkaSinkConfig configures the downstream event-stream publisher.
type KafkaSinkConfig struct {
	Brokers []string
	Topic   string

	// MaxAttempts caps retries on a transient write error. Defaults to 3.
	MaxAttempts int
	// WriteTimeout bounds each attempt. Defaults to 10s.
	WriteTimeout time.Duration
}

// KafkaSink publishes a canonical envelope of every event to a topic for
// downstream analytics consumers, using a retry-with-backoff Produce
// method. It is a durability mirror, not a bridge into the simulation
// itself.
type KafkaSink struct {
	writer      *kafka.Writer
	maxAttempts int
}

// NewKafkaSink constructs a KafkaSink from cfg.
func NewKafkaSink(cfg KafkaSinkConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("eventlog: kafka sink requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("eventlog: kafka sink requires a topic")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeout,
		Async:        false,
	}
	return &KafkaSink{writer: w, maxAttempts: cfg.MaxAttempts}, nil
}

func (k *KafkaSink) Write(ctx context.Context, ev models.Event) error {
	value, err := canonical.Marshal(map[string]any{
		"seq":               ev.Seq,
		"timestamp_logical": ev.TimestampLogical,
		"epoch":             ev.Epoch,
		"step":              ev.Step,
		"type":              string(ev.Type),
		"payload":           ev.Payload,
	})
	if err != nil {
		return fmt.Errorf("eventlog: canonicalize payload for kafka: %w", err)
	}

	var lastErr error
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= k.maxAttempts; attempt++ {
		msg := kafka.Message{
			Key:   []byte(fmt.Sprintf("%d", ev.Seq)),
			Value: value,
			Time:  time.Now().UTC(),
		}
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := k.writer.WriteMessages(attemptCtx, msg)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(backoff)
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return fmt.Errorf("eventlog: kafka publish failed after %d attempts: %w", k.maxAttempts, lastErr)
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
