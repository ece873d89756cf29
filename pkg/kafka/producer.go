package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes pre-encoded payloads to one topic.
type Producer struct {
	writer  MessageWriter
	topic   string
	comp    string
	metrics *producerMetrics
}

// NewProducer creates a new Kafka producer.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := &ProducerConfig{
		RequiredAcks: 1,
		Compression:  "snappy",
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	writer := cfg.Writer
	if writer == nil {
		if len(cfg.Brokers) == 0 {
			return nil, fmt.Errorf("brokers are required")
		}
		writer = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			Compression:  parseCompression(cfg.Compression),
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			BatchTimeout: cfg.BatchTimeout,
		}
	}

	p := &Producer{writer: writer, topic: cfg.Topic, comp: cfg.Compression}
	if cfg.Registerer != nil {
		p.metrics = newProducerMetrics(cfg.Registerer)
	}
	return p, nil
}

// Topic returns the configured topic.
func (p *Producer) Topic() string { return p.topic }

// Publish writes one message. Headers are attached verbatim.
func (p *Producer) Publish(ctx context.Context, key, value []byte, headers map[string]string) error {
	start := time.Now()

	msg := kafka.Message{
		Key:   key,
		Value: value,
		Time:  start,
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	err := p.writer.WriteMessages(ctx, msg)
	p.metrics.observe(p.topic, p.comp, len(value), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "none":
		return 0
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Snappy
	}
}

type producerMetrics struct {
	messages *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func newProducerMetrics(reg prometheus.Registerer) *producerMetrics {
	f := promauto.With(reg)
	return &producerMetrics{
		messages: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_kafka_producer_messages_total",
				Help: "Total messages published to Kafka",
			},
			[]string{"topic", "compression", "result"},
		),
		bytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hikari_kafka_producer_bytes_total",
				Help: "Total payload bytes published",
			},
			[]string{"topic"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hikari_kafka_producer_publish_seconds",
				Help:    "Publish latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic"},
		),
	}
}

func (m *producerMetrics) observe(topic, comp string, n int, dur time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.messages.WithLabelValues(topic, comp, result).Inc()
	m.bytes.WithLabelValues(topic).Add(float64(n))
	m.latency.WithLabelValues(topic).Observe(dur.Seconds())
}
